package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taste-tribe/internal/model"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Add records a like and returns the recipe's new like count. Liking twice is a no-op.
func (r *LikeRepository) Add(ctx context.Context, userID string, recipeID string) (created bool, likeCount int, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = insertOnce(tx, &model.Like{UserID: userID, RecipeID: recipeID}, userID, recipeID)
		if err != nil {
			return fmt.Errorf("add like: %w", err)
		}

		if err := recountRecipeTx(tx, recipeID); err != nil {
			return err
		}
		likeCount, err = likeCountTx(tx, recipeID)
		return err
	})
	return created, likeCount, err
}

func (r *LikeRepository) Remove(ctx context.Context, userID string, recipeID string) (likeCount int, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&model.Like{}).Error; err != nil {
			return fmt.Errorf("remove like: %w", err)
		}
		if err := recountRecipeTx(tx, recipeID); err != nil {
			return err
		}
		likeCount, err = likeCountTx(tx, recipeID)
		return err
	})
	return likeCount, err
}

func (r *LikeRepository) RecipeIDsFor(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	liked := map[string]bool{}
	if userID == "" || len(recipeIDs) == 0 {
		return liked, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list liked ids: %w", err)
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func likeCountTx(tx *gorm.DB, recipeID string) (int, error) {
	var count int64
	if err := tx.Model(&model.Like{}).Where("recipe_id = ?", recipeID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return int(count), nil
}
