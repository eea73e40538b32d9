package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taste-tribe/internal/model"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, msg *model.ContactMessage) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}
	return nil
}

func (r *ContactRepository) List(ctx context.Context, page int, limit int) ([]model.ContactMessage, int64, error) {
	page, limit = model.NormalizePage(page, limit)

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.ContactMessage{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count contact messages: %w", err)
	}

	messages := make([]model.ContactMessage, 0)
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&messages).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, total, nil
}

func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.ContactMessage{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count contact messages: %w", err)
	}
	return count, nil
}
