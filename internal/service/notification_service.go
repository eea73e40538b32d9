package service

import (
	"context"
	"fmt"
	"log/slog"

	"taste-tribe/internal/event"
	"taste-tribe/internal/model"
	"taste-tribe/internal/repository"
	"taste-tribe/internal/util"
)

// NotificationService turns activity on a recipe into notifications for its owner.
type NotificationService struct {
	notifications *repository.NotificationRepository
}

func NewNotificationService(notifications *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// Run consumes bus events until the channel closes or ctx ends.
func (s *NotificationService) Run(ctx context.Context, events <-chan event.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := s.Handle(ctx, e); err != nil {
				slog.Error("create notification", "type", string(e.Type), "event_id", e.ID, "error", err)
			}
		}
	}
}

// Handle records a notification for e, if it warrants one. Acting on your own
// recipe never notifies.
func (s *NotificationService) Handle(ctx context.Context, e event.Event) error {
	kind, verb := notificationKind(e.Type)
	if kind == "" {
		return nil
	}
	if e.Payload.OwnerID == "" || e.Payload.OwnerID == e.ActorID {
		return nil
	}

	actor := e.Payload.ActorName
	if actor == "" {
		actor = "Someone"
	}
	message := fmt.Sprintf("%s %s your recipe %q", actor, verb, e.Payload.RecipeTitle)
	if e.Type == event.TypeRecipeRated {
		message = fmt.Sprintf("%s rated your recipe %q %d/%d", actor, e.Payload.RecipeTitle, e.Payload.Value, model.MaxRating)
	}

	return s.notifications.Create(ctx, &model.Notification{
		UserID:   e.Payload.OwnerID,
		ActorID:  e.ActorID,
		RecipeID: e.Payload.RecipeID,
		Kind:     kind,
		Message:  util.CleanText(message, 500),
	})
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, page int, limit int) (model.NotificationList, *model.Meta, error) {
	page, limit = model.NormalizePage(page, limit)
	items, total, err := s.notifications.ListByUser(ctx, userID, unreadOnly, page, limit)
	if err != nil {
		return model.NotificationList{}, nil, err
	}

	unread := total
	if !unreadOnly {
		if unread, err = s.notifications.CountUnread(ctx, userID); err != nil {
			return model.NotificationList{}, nil, err
		}
	}
	return model.NotificationList{Notifications: items, Unread: unread}, model.NewMeta(page, limit, total), nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID string, id string) error {
	return s.notifications.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.notifications.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, userID string, id string) error {
	return s.notifications.Delete(ctx, id, userID)
}

func notificationKind(t event.Type) (kind string, verb string) {
	switch t {
	case event.TypeRecipeLiked:
		return model.NotificationLike, "liked"
	case event.TypeRecipeCommented:
		return model.NotificationComment, "commented on"
	case event.TypeRecipeRated:
		return model.NotificationRating, "rated"
	case event.TypeRecipeBookmarked:
		return model.NotificationBookmark, "bookmarked"
	default:
		return "", ""
	}
}
