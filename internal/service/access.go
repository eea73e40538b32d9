package service

import (
	"net/http"

	"taste-tribe/internal/event"
	"taste-tribe/internal/model"
	"taste-tribe/pkg/apierror"
)

// canModify allows the owner of a resource and any admin. The actor's role is
// the stored one; the auth middleware reloads it on every request.
func canModify(actor *model.AuthClaims, ownerID string) bool {
	return actor != nil && (actor.UserID == ownerID || actor.IsAdmin())
}

func forbiddenError(message string) error {
	return apierror.New(apierror.CodeForbidden, message, "", http.StatusForbidden)
}

func publish(bus event.Bus, t event.Type, actor *model.AuthClaims, activity event.Activity) {
	if bus == nil || actor == nil {
		return
	}
	if activity.ActorName == "" {
		activity.ActorName = actor.Username
	}
	bus.Publish(event.New(t, actor.UserID, activity))
}
