package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taste-tribe/internal/model"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert stores the user's rating for a recipe, replacing any earlier value, and
// returns the refreshed recipe aggregates.
func (r *RatingRepository) Upsert(ctx context.Context, userID string, recipeID string, value int) (model.RatingResult, error) {
	var out model.RatingResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Rating
		err := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rating := model.Rating{UserID: userID, RecipeID: recipeID, Value: value}
			if err := tx.Create(&rating).Error; err != nil {
				return fmt.Errorf("create rating: %w", err)
			}
		case err != nil:
			return fmt.Errorf("find rating: %w", err)
		default:
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return fmt.Errorf("update rating: %w", err)
			}
		}

		if err := recountRecipeTx(tx, recipeID); err != nil {
			return err
		}

		var recipe model.Recipe
		if err := tx.Select("rating", "rating_count").Where("id = ?", recipeID).First(&recipe).Error; err != nil {
			return fmt.Errorf("reload recipe aggregates: %w", err)
		}
		out = model.RatingResult{RecipeID: recipeID, Value: value, Rating: recipe.Rating, RatingCount: recipe.RatingCount}
		return nil
	})
	return out, err
}
