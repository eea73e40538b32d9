package database

import (
	"context"
	"fmt"
	"log/slog"

	"taste-tribe/internal/model"
)

var schemaModels = []any{
	&model.User{},
	&model.Recipe{},
	&model.Bookmark{},
	&model.Like{},
	&model.Rating{},
	&model.Comment{},
	&model.Notification{},
	&model.ContactMessage{},
	&model.AuditEntry{},
}

// EnsureSchema creates or extends every table the API uses. AutoMigrate only adds
// missing tables, columns and indexes, so it is safe to run on every start.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.Gorm == nil {
		return fmt.Errorf("database is not initialized")
	}

	if err := db.Gorm.WithContext(ctx).AutoMigrate(schemaModels...); err != nil {
		return fmt.Errorf("auto-migrate schema: %w", err)
	}

	slog.Info("database schema ensured", "driver", db.Driver, "tables", len(schemaModels))
	return nil
}
