package service

import (
	"context"
	"log/slog"
	"strings"

	"taste-tribe/internal/model"
	"taste-tribe/internal/repository"
	"taste-tribe/internal/util"
	"taste-tribe/pkg/apierror"
)

type ContactService struct {
	messages *repository.ContactRepository
}

func NewContactService(messages *repository.ContactRepository) *ContactService {
	return &ContactService{messages: messages}
}

func (s *ContactService) Submit(ctx context.Context, req model.ContactRequest) (model.ContactMessage, error) {
	msg := model.ContactMessage{
		Name:    util.CleanText(req.Name, 120),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Subject: util.CleanText(req.Subject, 200),
		Message: util.CleanText(req.Message, 5000),
	}

	if msg.Name == "" {
		return model.ContactMessage{}, apierror.Validation("name is required", "name")
	}
	if err := validateEmail(msg.Email); err != nil {
		return model.ContactMessage{}, err
	}
	if msg.Message == "" {
		return model.ContactMessage{}, apierror.Validation("message is required", "message")
	}

	if err := s.messages.Create(ctx, &msg); err != nil {
		return model.ContactMessage{}, err
	}
	slog.Info("contact message received", "id", msg.ID, "email", msg.Email)
	return msg, nil
}

func (s *ContactService) List(ctx context.Context, page int, limit int) ([]model.ContactMessage, *model.Meta, error) {
	page, limit = model.NormalizePage(page, limit)
	messages, total, err := s.messages.List(ctx, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return messages, model.NewMeta(page, limit, total), nil
}
