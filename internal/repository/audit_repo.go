package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"taste-tribe/internal/model"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *model.AuditEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create audit entry: %w", err)
	}
	return nil
}

// Query filters by action prefix, actor and status, newest first.
func (r *AuditRepository) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, int64, error) {
	page, limit := model.NormalizePage(query.Page, query.Limit)

	base := r.db.WithContext(ctx).Model(&model.AuditEntry{})
	if action := strings.TrimSpace(query.Action); action != "" {
		base = base.Where("action LIKE ?", action+"%")
	}
	if query.ActorID != "" {
		base = base.Where("actor_id = ?", query.ActorID)
	}
	if status := strings.ToLower(strings.TrimSpace(query.Status)); status != "" {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	entries := make([]model.AuditEntry, 0)
	err := base.Session(&gorm.Session{}).
		Order("occurred_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("query audit entries: %w", err)
	}
	return entries, total, nil
}
