package service

import (
	"context"
	"net/http"

	"taste-tribe/internal/model"
	"taste-tribe/internal/repository"
	"taste-tribe/pkg/apierror"
)

type revocationCounter interface {
	Len() int
}

// AdminService runs moderation actions and writes each one to the audit log.
type AdminService struct {
	users       *UserService
	userRepo    *repository.UserRepository
	recipes     *repository.RecipeRepository
	comments    *repository.CommentRepository
	contacts    *repository.ContactRepository
	revocations revocationCounter
	audit       *AuditService
}

func NewAdminService(
	users *UserService,
	userRepo *repository.UserRepository,
	recipes *repository.RecipeRepository,
	comments *repository.CommentRepository,
	contacts *repository.ContactRepository,
	revocations revocationCounter,
	audit *AuditService,
) *AdminService {
	return &AdminService{
		users:       users,
		userRepo:    userRepo,
		recipes:     recipes,
		comments:    comments,
		contacts:    contacts,
		revocations: revocations,
		audit:       audit,
	}
}

func (s *AdminService) Stats(ctx context.Context) (model.AdminStats, error) {
	var stats model.AdminStats
	var err error

	if stats.Users, err = s.userRepo.Count(ctx); err != nil {
		return model.AdminStats{}, err
	}
	if stats.Recipes, err = s.recipes.Count(ctx); err != nil {
		return model.AdminStats{}, err
	}
	if stats.Comments, err = s.comments.Count(ctx); err != nil {
		return model.AdminStats{}, err
	}
	if stats.ContactMessages, err = s.contacts.Count(ctx); err != nil {
		return model.AdminStats{}, err
	}
	if s.revocations != nil {
		stats.RevokedTokens = s.revocations.Len()
	}
	return stats, nil
}

func (s *AdminService) SetRole(ctx context.Context, claims *model.AuthClaims, actor model.AuditActor, userID string, isAdmin bool) (model.User, error) {
	if claims.UserID == userID && !isAdmin {
		return model.User{}, apierror.New(apierror.CodeValidation, "you cannot remove your own admin role", "is_admin", http.StatusBadRequest)
	}

	user, err := s.users.SetRole(ctx, userID, isAdmin)
	s.record(ctx, "admin.user.role", actor, "user:"+userID, map[string]any{"is_admin": isAdmin}, err)
	return user, err
}

func (s *AdminService) DeleteUser(ctx context.Context, claims *model.AuthClaims, actor model.AuditActor, userID string) error {
	if claims.UserID == userID {
		return apierror.New(apierror.CodeValidation, "use the account endpoint to delete your own account", "id", http.StatusBadRequest)
	}

	err := s.users.Delete(ctx, claims, userID)
	s.record(ctx, "admin.user.delete", actor, "user:"+userID, nil, err)
	return err
}

func (s *AdminService) DeleteRecipe(ctx context.Context, actor model.AuditActor, recipeID string) error {
	err := s.recipes.Delete(ctx, recipeID)
	s.record(ctx, "admin.recipe.delete", actor, "recipe:"+recipeID, nil, err)
	return err
}

func (s *AdminService) DeleteComment(ctx context.Context, actor model.AuditActor, commentID string) error {
	err := s.comments.Delete(ctx, commentID)
	s.record(ctx, "admin.comment.delete", actor, "comment:"+commentID, nil, err)
	return err
}

func (s *AdminService) record(ctx context.Context, action string, actor model.AuditActor, resource string, details any, err error) {
	if err != nil {
		s.audit.Log(ctx, action, actor, model.AuditStatusFailed, resource, err)
		return
	}
	s.audit.Log(ctx, action, actor, model.AuditStatusSuccess, resource, details)
}
