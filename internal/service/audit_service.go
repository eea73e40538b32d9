package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"taste-tribe/internal/model"
	"taste-tribe/internal/repository"
)

// AuditService records administrative actions. Logging never fails the caller.
type AuditService struct {
	entries *repository.AuditRepository
	now     func() time.Time
}

func NewAuditService(entries *repository.AuditRepository) *AuditService {
	return &AuditService{entries: entries, now: time.Now}
}

func (s *AuditService) Log(ctx context.Context, action string, actor model.AuditActor, status string, resource string, details any) {
	if s == nil {
		return
	}

	entry := model.AuditEntry{
		Action:        action,
		ActorID:       actor.UserID,
		ActorUsername: actor.Username,
		ActorIP:       actor.IP,
		Resource:      resource,
		Status:        status,
		OccurredAt:    s.now().UTC(),
	}
	switch v := details.(type) {
	case nil:
	case string:
		entry.Details = v
	case error:
		entry.Details = v.Error()
	default:
		if data, err := json.Marshal(v); err == nil {
			entry.Details = string(data)
		}
	}

	// The request context may already be cancelled once the response is written.
	if err := s.entries.Create(context.WithoutCancel(ctx), &entry); err != nil {
		slog.Error("write audit entry", "action", action, "error", err)
	}
}

func (s *AuditService) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, *model.Meta, error) {
	query.Page, query.Limit = model.NormalizePage(query.Page, query.Limit)
	entries, total, err := s.entries.Query(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	return entries, model.NewMeta(query.Page, query.Limit, total), nil
}
