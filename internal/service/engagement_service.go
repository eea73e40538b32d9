package service

import (
	"context"
	"fmt"

	"taste-tribe/internal/event"
	"taste-tribe/internal/model"
	"taste-tribe/internal/repository"
	"taste-tribe/internal/util"
	"taste-tribe/pkg/apierror"
)

// EngagementService covers bookmarks, likes, ratings and comments on recipes.
type EngagementService struct {
	recipes   *repository.RecipeRepository
	bookmarks *repository.BookmarkRepository
	likes     *repository.LikeRepository
	ratings   *repository.RatingRepository
	comments  *repository.CommentRepository
	bus       event.Bus
}

func NewEngagementService(
	recipes *repository.RecipeRepository,
	bookmarks *repository.BookmarkRepository,
	likes *repository.LikeRepository,
	ratings *repository.RatingRepository,
	comments *repository.CommentRepository,
	bus event.Bus,
) *EngagementService {
	return &EngagementService{
		recipes:   recipes,
		bookmarks: bookmarks,
		likes:     likes,
		ratings:   ratings,
		comments:  comments,
		bus:       bus,
	}
}

func (s *EngagementService) BookmarkStatus(ctx context.Context, actor *model.AuthClaims, recipeID string) (model.BookmarkStatus, error) {
	if _, err := s.recipes.FindByID(ctx, recipeID); err != nil {
		return model.BookmarkStatus{}, err
	}
	marked, err := s.bookmarks.Exists(ctx, actor.UserID, recipeID)
	if err != nil {
		return model.BookmarkStatus{}, err
	}
	return model.BookmarkStatus{RecipeID: recipeID, Bookmarked: marked}, nil
}

func (s *EngagementService) Bookmark(ctx context.Context, actor *model.AuthClaims, recipeID string) (model.BookmarkStatus, error) {
	recipe, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return model.BookmarkStatus{}, err
	}

	created, err := s.bookmarks.Add(ctx, actor.UserID, recipeID)
	if err != nil {
		return model.BookmarkStatus{}, err
	}
	if created {
		publish(s.bus, event.TypeRecipeBookmarked, actor, activityFor(recipe))
	}
	return model.BookmarkStatus{RecipeID: recipeID, Bookmarked: true}, nil
}

func (s *EngagementService) Unbookmark(ctx context.Context, actor *model.AuthClaims, recipeID string) (model.BookmarkStatus, error) {
	if err := s.bookmarks.Remove(ctx, actor.UserID, recipeID); err != nil {
		return model.BookmarkStatus{}, err
	}
	return model.BookmarkStatus{RecipeID: recipeID, Bookmarked: false}, nil
}

func (s *EngagementService) Like(ctx context.Context, actor *model.AuthClaims, recipeID string) (model.LikeStatus, error) {
	recipe, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return model.LikeStatus{}, err
	}

	created, count, err := s.likes.Add(ctx, actor.UserID, recipeID)
	if err != nil {
		return model.LikeStatus{}, err
	}
	if created {
		publish(s.bus, event.TypeRecipeLiked, actor, activityFor(recipe))
	}
	return model.LikeStatus{RecipeID: recipeID, Liked: true, LikeCount: count}, nil
}

func (s *EngagementService) Unlike(ctx context.Context, actor *model.AuthClaims, recipeID string) (model.LikeStatus, error) {
	if _, err := s.recipes.FindByID(ctx, recipeID); err != nil {
		return model.LikeStatus{}, err
	}

	count, err := s.likes.Remove(ctx, actor.UserID, recipeID)
	if err != nil {
		return model.LikeStatus{}, err
	}
	return model.LikeStatus{RecipeID: recipeID, Liked: false, LikeCount: count}, nil
}

// Rate stores the caller's 1..5 rating; rating again replaces the earlier value.
func (s *EngagementService) Rate(ctx context.Context, actor *model.AuthClaims, recipeID string, value int) (model.RatingResult, error) {
	if recipeID == "" {
		return model.RatingResult{}, apierror.Validation("recipe_id is required", "recipe_id")
	}
	if value < model.MinRating || value > model.MaxRating {
		return model.RatingResult{}, apierror.Validation(fmt.Sprintf("rating must be between %d and %d", model.MinRating, model.MaxRating), "rating")
	}

	recipe, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return model.RatingResult{}, err
	}

	result, err := s.ratings.Upsert(ctx, actor.UserID, recipeID, value)
	if err != nil {
		return model.RatingResult{}, err
	}

	activity := activityFor(recipe)
	activity.Value = value
	publish(s.bus, event.TypeRecipeRated, actor, activity)
	return result, nil
}

func (s *EngagementService) Comment(ctx context.Context, actor *model.AuthClaims, recipeID string, content string) (model.Comment, error) {
	content, err := commentContent(content)
	if err != nil {
		return model.Comment{}, err
	}

	recipe, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return model.Comment{}, err
	}

	comment := model.Comment{UserID: actor.UserID, RecipeID: recipeID, Content: content}
	if err := s.comments.Create(ctx, &comment); err != nil {
		return model.Comment{}, err
	}
	comment.Author = actor.Username

	publish(s.bus, event.TypeRecipeCommented, actor, activityFor(recipe))
	return comment, nil
}

func (s *EngagementService) ListComments(ctx context.Context, recipeID string, page int, limit int) ([]model.Comment, *model.Meta, error) {
	if _, err := s.recipes.FindByID(ctx, recipeID); err != nil {
		return nil, nil, err
	}

	page, limit = model.NormalizePage(page, limit)
	comments, total, err := s.comments.ListByRecipe(ctx, recipeID, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return comments, model.NewMeta(page, limit, total), nil
}

// UpdateComment is reserved to the comment's author.
func (s *EngagementService) UpdateComment(ctx context.Context, actor *model.AuthClaims, id string, content string) (model.Comment, error) {
	content, err := commentContent(content)
	if err != nil {
		return model.Comment{}, err
	}

	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return model.Comment{}, err
	}
	if comment.UserID != actor.UserID {
		return model.Comment{}, forbiddenError("you can only edit your own comments")
	}

	if err := s.comments.UpdateContent(ctx, id, content); err != nil {
		return model.Comment{}, err
	}
	comment.Content = content
	comment.Author = actor.Username
	return comment, nil
}

func (s *EngagementService) DeleteComment(ctx context.Context, actor *model.AuthClaims, id string) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(actor, comment.UserID) {
		return forbiddenError("you can only delete your own comments")
	}
	return s.comments.Delete(ctx, id)
}

func commentContent(raw string) (string, error) {
	content := util.CleanText(raw, 0)
	if content == "" {
		return "", apierror.Validation("comment content is required", "content")
	}
	if len([]rune(content)) > model.MaxCommentLength {
		return "", apierror.Validation(fmt.Sprintf("comment cannot exceed %d characters", model.MaxCommentLength), "content")
	}
	return content, nil
}

func activityFor(recipe model.Recipe) event.Activity {
	return event.Activity{OwnerID: recipe.UserID, RecipeID: recipe.ID, RecipeTitle: recipe.Title}
}
