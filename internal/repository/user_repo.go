package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"taste-tribe/internal/model"
)

// UserRepository is the credential store: user identity, hashed secrets and profile.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByUsernameOrEmail matches key case-insensitively against both columns.
func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, key string) (model.User, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return model.User{}, model.ErrUserNotFound
	}

	var u model.User
	err := r.db.WithContext(ctx).
		Where("lower(username) = lower(?) OR lower(email) = lower(?)", key, key).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by username or email: %w", err)
	}
	return u, nil
}

// ExistsByUsernameOrEmail reports a clash with any other user than excludeID.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username string, email string, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.User{})

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	switch {
	case username != "" && email != "":
		query = query.Where("lower(username) = lower(?) OR lower(email) = lower(?)", username, email)
	case username != "":
		query = query.Where("lower(username) = lower(?)", username)
	case email != "":
		query = query.Where("lower(email) = lower(?)", email)
	default:
		return false, nil
	}
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ErrUserAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update persists profile fields and the role flag. The password hash is set
// once by Create and never rewritten here.
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", u.ID).Updates(map[string]any{
		"username":        u.Username,
		"first_name":      u.FirstName,
		"last_name":       u.LastName,
		"title":           u.Title,
		"about_me":        u.AboutMe,
		"profile_picture": u.ProfilePicture,
		"is_admin":        u.IsAdmin,
	})
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return model.ErrUserAlreadyExists
	}
	if result.Error != nil {
		return fmt.Errorf("update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// Delete removes the user together with everything they own or produced.
// Aggregates of other users' recipes they had liked or rated are recomputed.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&model.User{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return fmt.Errorf("check user: %w", err)
		}
		if exists == 0 {
			return model.ErrUserNotFound
		}

		var ownRecipeIDs []string
		if err := tx.Model(&model.Recipe{}).Where("user_id = ?", id).Pluck("id", &ownRecipeIDs).Error; err != nil {
			return fmt.Errorf("list user recipes: %w", err)
		}

		var touched []string
		if err := tx.Model(&model.Rating{}).Where("user_id = ?", id).Distinct().Pluck("recipe_id", &touched).Error; err != nil {
			return fmt.Errorf("list rated recipes: %w", err)
		}
		var liked []string
		if err := tx.Model(&model.Like{}).Where("user_id = ?", id).Distinct().Pluck("recipe_id", &liked).Error; err != nil {
			return fmt.Errorf("list liked recipes: %w", err)
		}
		touched = append(touched, liked...)

		for _, recipeID := range ownRecipeIDs {
			if err := deleteRecipeTx(tx, recipeID); err != nil {
				return err
			}
		}

		for _, table := range []any{&model.Bookmark{}, &model.Like{}, &model.Rating{}, &model.Comment{}} {
			if err := tx.Where("user_id = ?", id).Delete(table).Error; err != nil {
				return fmt.Errorf("delete user engagement: %w", err)
			}
		}
		if err := tx.Where("user_id = ? OR actor_id = ?", id, id).Delete(&model.Notification{}).Error; err != nil {
			return fmt.Errorf("delete user notifications: %w", err)
		}

		if err := tx.Where("id = ?", id).Delete(&model.User{}).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}

		seen := map[string]struct{}{}
		for _, recipeID := range ownRecipeIDs {
			seen[recipeID] = struct{}{}
		}
		for _, recipeID := range touched {
			if _, done := seen[recipeID]; done {
				continue
			}
			seen[recipeID] = struct{}{}
			if err := recountRecipeTx(tx, recipeID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) List(ctx context.Context, page int, limit int) ([]model.User, int64, error) {
	page, limit = model.NormalizePage(page, limit)

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	users := make([]model.User, 0)
	err := r.db.WithContext(ctx).
		Order("lower(username)").
		Limit(limit).Offset((page - 1) * limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}
