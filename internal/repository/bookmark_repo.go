package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taste-tribe/internal/model"
)

type BookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// Add is idempotent; created reports whether a new bookmark row was written.
func (r *BookmarkRepository) Add(ctx context.Context, userID string, recipeID string) (bool, error) {
	return insertOnce(r.db.WithContext(ctx), &model.Bookmark{UserID: userID, RecipeID: recipeID}, userID, recipeID)
}

// Remove is idempotent; removing an absent bookmark is not an error.
func (r *BookmarkRepository) Remove(ctx context.Context, userID string, recipeID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&model.Bookmark{}).Error
	if err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}
	return nil
}

func (r *BookmarkRepository) Exists(ctx context.Context, userID string, recipeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Bookmark{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check bookmark: %w", err)
	}
	return count > 0, nil
}

// RecipeIDsFor returns which of recipeIDs the user has bookmarked.
func (r *BookmarkRepository) RecipeIDsFor(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	marked := map[string]bool{}
	if userID == "" || len(recipeIDs) == 0 {
		return marked, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Bookmark{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list bookmarked ids: %w", err)
	}
	for _, id := range ids {
		marked[id] = true
	}
	return marked, nil
}

// insertOnce creates a (user, recipe) keyed row unless one is already present.
func insertOnce(tx *gorm.DB, row any, userID string, recipeID string) (bool, error) {
	var count int64
	if err := tx.Model(row).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check existing: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	err := tx.Create(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert: %w", err)
	}
	return true, nil
}
