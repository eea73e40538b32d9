package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeUserRegistered   Type = "user.registered"
	TypeUserDeleted      Type = "user.deleted"
	TypeRecipeCreated    Type = "recipe.created"
	TypeRecipeDeleted    Type = "recipe.deleted"
	TypeRecipeLiked      Type = "recipe.liked"
	TypeRecipeRated      Type = "recipe.rated"
	TypeRecipeBookmarked Type = "recipe.bookmarked"
	TypeRecipeCommented  Type = "recipe.commented"
)

type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Payload   Activity  `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id,omitempty"`
}

// Activity describes what happened to a recipe or account.
type Activity struct {
	ActorName   string `json:"actor_name,omitempty"`
	OwnerID     string `json:"owner_id,omitempty"`
	RecipeID    string `json:"recipe_id,omitempty"`
	RecipeTitle string `json:"recipe_title,omitempty"`
	Value       int    `json:"value,omitempty"`
}

func New(t Type, actorID string, payload Activity) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
		ActorID:   actorID,
	}
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
