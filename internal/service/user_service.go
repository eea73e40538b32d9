package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"taste-tribe/internal/event"
	"taste-tribe/internal/imagehost"
	"taste-tribe/internal/model"
	"taste-tribe/internal/repository"
	"taste-tribe/internal/util"
	"taste-tribe/pkg/apierror"
)

const maxProfileTextLength = 2000

type AvatarUploader interface {
	Enabled() bool
	Upload(ctx context.Context, filename string, data []byte) (imagehost.Result, error)
}

type UserService struct {
	users       *repository.UserRepository
	revocations RevocationRegistry
	avatars     *AvatarProcessor
	uploader    AvatarUploader
	bus         event.Bus
}

func NewUserService(users *repository.UserRepository, revocations RevocationRegistry, avatars *AvatarProcessor, uploader AvatarUploader, bus event.Bus) *UserService {
	return &UserService{users: users, revocations: revocations, avatars: avatars, uploader: uploader, bus: bus}
}

func (s *UserService) Get(ctx context.Context, id string) (model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, page int, limit int) ([]model.User, *model.Meta, error) {
	page, limit = model.NormalizePage(page, limit)
	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return users, model.NewMeta(page, limit, total), nil
}

// Update edits a profile. Only the owner or an admin may do so.
func (s *UserService) Update(ctx context.Context, actor *model.AuthClaims, id string, req model.UpdateUserRequest) (model.User, error) {
	if !canModify(actor, id) {
		return model.User{}, forbiddenError("you can only edit your own profile")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if !strings.EqualFold(username, user.Username) {
			if err := validateUsername(username); err != nil {
				return model.User{}, err
			}
			taken, err := s.users.ExistsByUsernameOrEmail(ctx, username, "", user.ID)
			if err != nil {
				return model.User{}, err
			}
			if taken {
				return model.User{}, alreadyExistsError(username)
			}
		}
		user.Username = username
	}
	setText(&user.FirstName, req.FirstName, 100)
	setText(&user.LastName, req.LastName, 100)
	setText(&user.Title, req.Title, 120)
	setText(&user.AboutMe, req.AboutMe, maxProfileTextLength)
	setText(&user.ProfilePicture, req.ProfilePicture, 512)

	if err := s.users.Update(ctx, &user); err != nil {
		if errors.Is(err, model.ErrUserAlreadyExists) {
			return model.User{}, alreadyExistsError(user.Username)
		}
		return model.User{}, err
	}
	return user, nil
}

// Delete removes an account. When the caller deletes themselves their current
// token is revoked as well.
func (s *UserService) Delete(ctx context.Context, actor *model.AuthClaims, id string) error {
	if !canModify(actor, id) {
		return forbiddenError("you can only delete your own account")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	if actor.UserID == id {
		s.revocations.Revoke(actor.TokenID, actor.ExpiresAt)
	}
	publish(s.bus, event.TypeUserDeleted, actor, event.Activity{OwnerID: id})
	slog.Info("user deleted", "user_id", id, "by", actor.UserID)
	return nil
}

// SetRole grants or removes the admin flag.
func (s *UserService) SetRole(ctx context.Context, id string, isAdmin bool) (model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	user.IsAdmin = isAdmin
	if err := s.users.Update(ctx, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// UploadAvatar resizes the image, pushes it to the image host and stores the
// hosted URL as the caller's profile picture.
func (s *UserService) UploadAvatar(ctx context.Context, actor *model.AuthClaims, filename string, data []byte) (model.User, error) {
	if actor == nil {
		return model.User{}, model.ErrUnauthorized
	}

	name, err := util.SanitizeFilename(filename)
	if err != nil {
		return model.User{}, err
	}
	if ext := filepath.Ext(name); ext != "" && !util.IsAvatarExtension(ext) {
		return model.User{}, apierror.New(apierror.CodeUnsupportedMediaType, "unsupported image extension", ext, http.StatusUnsupportedMediaType)
	}

	processed, err := s.avatars.Process(data)
	if err != nil {
		return model.User{}, err
	}

	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return model.User{}, err
	}

	if s.uploader == nil || !s.uploader.Enabled() {
		return model.User{}, apierror.New(apierror.CodeUpstream, "image hosting is not configured", "", http.StatusBadGateway)
	}
	uploadName := strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	result, err := s.uploader.Upload(ctx, uploadName, processed)
	if err != nil {
		slog.Error("avatar upload failed", "user_id", user.ID, "error", err)
		return model.User{}, apierror.New(apierror.CodeUpstream, "avatar upload failed", "image host rejected the upload", http.StatusBadGateway)
	}

	user.ProfilePicture = result.SecureURL
	if err := s.users.Update(ctx, &user); err != nil {
		return model.User{}, fmt.Errorf("store profile picture: %w", err)
	}
	return user, nil
}

func setText(dst *string, src *string, maxRunes int) {
	if src != nil {
		*dst = util.CleanText(*src, maxRunes)
	}
}
