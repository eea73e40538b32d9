package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"taste-tribe/internal/model"
)

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}
	return nil
}

func (r *RecipeRepository) FindByID(ctx context.Context, id string) (model.Recipe, error) {
	var recipe model.Recipe
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Recipe{}, model.ErrRecipeNotFound
	}
	if err != nil {
		return model.Recipe{}, fmt.Errorf("find recipe: %w", err)
	}
	return recipe, nil
}

// Update writes the editable content fields. Aggregates and ownership are not
// touched here.
func (r *RecipeRepository) Update(ctx context.Context, recipe *model.Recipe) error {
	result := r.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]any{
		"title":             recipe.Title,
		"chef_name":         recipe.ChefName,
		"chef_image":        recipe.ChefImage,
		"image":             recipe.Image,
		"ingredients":       recipe.Ingredients,
		"instructions":      recipe.Instructions,
		"url":               recipe.URL,
		"more_info_url":     recipe.MoreInfoURL,
		"prep_time":         recipe.PrepTime,
		"servings":          recipe.Servings,
		"country_of_origin": recipe.CountryOfOrigin,
		"diet_type":         recipe.DietType,
	})
	if result.Error != nil {
		return fmt.Errorf("update recipe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrRecipeNotFound
	}
	return nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteRecipeTx(tx, id)
	})
}

// List returns recipes newest first, optionally filtered by owner and by a
// case-insensitive search over title, chef, ingredients and origin.
func (r *RecipeRepository) List(ctx context.Context, query model.RecipeQuery) ([]model.Recipe, int64, error) {
	page, limit := model.NormalizePage(query.Page, query.Limit)

	base := r.db.WithContext(ctx).Model(&model.Recipe{})
	if query.UserID != "" {
		base = base.Where("user_id = ?", query.UserID)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		base = base.Where(
			"lower(title) LIKE ? OR lower(chef_name) LIKE ? OR lower(ingredients) LIKE ? OR lower(country_of_origin) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	recipes := make([]model.Recipe, 0)
	err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, total, nil
}

func (r *RecipeRepository) ListBookmarkedBy(ctx context.Context, userID string, limit int) ([]model.Recipe, error) {
	_, limit = model.NormalizePage(1, limit)

	recipes := make([]model.Recipe, 0)
	err := r.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Joins("JOIN bookmarks ON bookmarks.recipe_id = recipes.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("list bookmarked recipes: %w", err)
	}
	for i := range recipes {
		recipes[i].Bookmarked = true
	}
	return recipes, nil
}

func (r *RecipeRepository) ListLikedBy(ctx context.Context, userID string, limit int) ([]model.Recipe, error) {
	_, limit = model.NormalizePage(1, limit)

	recipes := make([]model.Recipe, 0)
	err := r.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Joins("JOIN likes ON likes.recipe_id = recipes.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("list liked recipes: %w", err)
	}
	for i := range recipes {
		recipes[i].Liked = true
	}
	return recipes, nil
}

func (r *RecipeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Recipe{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return count, nil
}

func deleteRecipeTx(tx *gorm.DB, recipeID string) error {
	for _, table := range []any{&model.Bookmark{}, &model.Like{}, &model.Rating{}, &model.Comment{}, &model.Notification{}} {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(table).Error; err != nil {
			return fmt.Errorf("delete recipe dependents: %w", err)
		}
	}

	result := tx.Where("id = ?", recipeID).Delete(&model.Recipe{})
	if result.Error != nil {
		return fmt.Errorf("delete recipe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrRecipeNotFound
	}
	return nil
}

// recountRecipeTx refreshes the denormalized rating average and like count.
func recountRecipeTx(tx *gorm.DB, recipeID string) error {
	var stats struct {
		Average float64
		Total   int64
	}
	err := tx.Model(&model.Rating{}).
		Select("COALESCE(AVG(value), 0) AS average, COUNT(*) AS total").
		Where("recipe_id = ?", recipeID).
		Scan(&stats).Error
	if err != nil {
		return fmt.Errorf("aggregate ratings: %w", err)
	}

	var likes int64
	if err := tx.Model(&model.Like{}).Where("recipe_id = ?", recipeID).Count(&likes).Error; err != nil {
		return fmt.Errorf("count likes: %w", err)
	}

	err = tx.Model(&model.Recipe{}).Where("id = ?", recipeID).Updates(map[string]any{
		"rating":       math.Round(stats.Average*10) / 10,
		"rating_count": stats.Total,
		"like_count":   likes,
	}).Error
	if err != nil {
		return fmt.Errorf("update recipe aggregates: %w", err)
	}
	return nil
}
