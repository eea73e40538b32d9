package service

import (
	"context"
	"strings"

	"taste-tribe/internal/event"
	"taste-tribe/internal/model"
	"taste-tribe/internal/repository"
	"taste-tribe/internal/util"
	"taste-tribe/pkg/apierror"
)

const (
	maxRecipeTitleLength = 200
	maxRecipeTextLength  = 20000
)

type RecipeService struct {
	recipes   *repository.RecipeRepository
	bookmarks *repository.BookmarkRepository
	likes     *repository.LikeRepository
	bus       event.Bus
}

func NewRecipeService(recipes *repository.RecipeRepository, bookmarks *repository.BookmarkRepository, likes *repository.LikeRepository, bus event.Bus) *RecipeService {
	return &RecipeService{recipes: recipes, bookmarks: bookmarks, likes: likes, bus: bus}
}

// List returns a page of recipes. When viewer is set, each recipe carries the
// viewer's bookmark and like state.
func (s *RecipeService) List(ctx context.Context, viewer *model.AuthClaims, query model.RecipeQuery) ([]model.Recipe, *model.Meta, error) {
	query.Page, query.Limit = model.NormalizePage(query.Page, query.Limit)

	recipes, total, err := s.recipes.List(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	if err := s.decorate(ctx, viewer, recipes); err != nil {
		return nil, nil, err
	}
	return recipes, model.NewMeta(query.Page, query.Limit, total), nil
}

func (s *RecipeService) Get(ctx context.Context, viewer *model.AuthClaims, id string) (model.Recipe, error) {
	recipe, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return model.Recipe{}, err
	}

	list := []model.Recipe{recipe}
	if err := s.decorate(ctx, viewer, list); err != nil {
		return model.Recipe{}, err
	}
	return list[0], nil
}

func (s *RecipeService) ListByUser(ctx context.Context, viewer *model.AuthClaims, userID string, limit int) ([]model.Recipe, error) {
	_, limit = model.NormalizePage(1, limit)
	recipes, _, err := s.recipes.List(ctx, model.RecipeQuery{UserID: userID, Page: 1, Limit: limit})
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, viewer, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *RecipeService) ListBookmarked(ctx context.Context, viewer *model.AuthClaims, limit int) ([]model.Recipe, error) {
	recipes, err := s.recipes.ListBookmarkedBy(ctx, viewer.UserID, limit)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, viewer, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *RecipeService) ListLiked(ctx context.Context, viewer *model.AuthClaims, limit int) ([]model.Recipe, error) {
	recipes, err := s.recipes.ListLikedBy(ctx, viewer.UserID, limit)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, viewer, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *RecipeService) Create(ctx context.Context, actor *model.AuthClaims, req model.RecipeRequest) (model.Recipe, error) {
	recipe := model.Recipe{UserID: actor.UserID}
	req.Apply(&recipe)
	if err := normalizeRecipe(&recipe); err != nil {
		return model.Recipe{}, err
	}

	if err := s.recipes.Create(ctx, &recipe); err != nil {
		return model.Recipe{}, err
	}

	publish(s.bus, event.TypeRecipeCreated, actor, event.Activity{OwnerID: recipe.UserID, RecipeID: recipe.ID, RecipeTitle: recipe.Title})
	return recipe, nil
}

// Update applies the non-nil fields of req. Only the owner or an admin may edit.
func (s *RecipeService) Update(ctx context.Context, actor *model.AuthClaims, id string, req model.RecipeRequest) (model.Recipe, error) {
	recipe, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return model.Recipe{}, err
	}
	if !canModify(actor, recipe.UserID) {
		return model.Recipe{}, forbiddenError("you can only edit your own recipes")
	}

	req.Apply(&recipe)
	if err := normalizeRecipe(&recipe); err != nil {
		return model.Recipe{}, err
	}
	if err := s.recipes.Update(ctx, &recipe); err != nil {
		return model.Recipe{}, err
	}
	return recipe, nil
}

func (s *RecipeService) Delete(ctx context.Context, actor *model.AuthClaims, id string) error {
	recipe, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(actor, recipe.UserID) {
		return forbiddenError("you can only delete your own recipes")
	}

	if err := s.recipes.Delete(ctx, id); err != nil {
		return err
	}
	publish(s.bus, event.TypeRecipeDeleted, actor, event.Activity{OwnerID: recipe.UserID, RecipeID: recipe.ID, RecipeTitle: recipe.Title})
	return nil
}

func (s *RecipeService) decorate(ctx context.Context, viewer *model.AuthClaims, recipes []model.Recipe) error {
	if viewer == nil || len(recipes) == 0 {
		return nil
	}

	ids := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		ids = append(ids, recipe.ID)
	}

	bookmarked, err := s.bookmarks.RecipeIDsFor(ctx, viewer.UserID, ids)
	if err != nil {
		return err
	}
	liked, err := s.likes.RecipeIDsFor(ctx, viewer.UserID, ids)
	if err != nil {
		return err
	}

	for i := range recipes {
		recipes[i].Bookmarked = recipes[i].Bookmarked || bookmarked[recipes[i].ID]
		recipes[i].Liked = recipes[i].Liked || liked[recipes[i].ID]
	}
	return nil
}

func normalizeRecipe(recipe *model.Recipe) error {
	recipe.Title = util.CleanText(recipe.Title, 0)
	if recipe.Title == "" {
		return apierror.Validation("title is required", "title")
	}
	if len([]rune(recipe.Title)) > maxRecipeTitleLength {
		return apierror.Validation("title is too long", "title")
	}
	if len([]rune(recipe.Ingredients)) > maxRecipeTextLength || len([]rune(recipe.Instructions)) > maxRecipeTextLength {
		return apierror.Validation("ingredients and instructions are limited in length", "instructions")
	}
	if recipe.Servings < 0 {
		return apierror.Validation("servings cannot be negative", "servings")
	}

	recipe.Ingredients = util.CleanText(recipe.Ingredients, 0)
	recipe.Instructions = util.CleanText(recipe.Instructions, 0)
	for _, field := range []*string{&recipe.URL, &recipe.MoreInfoURL, &recipe.Image, &recipe.ChefImage} {
		*field = strings.TrimSpace(*field)
	}
	return nil
}
