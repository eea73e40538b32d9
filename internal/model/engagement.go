package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Bookmark struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_bookmarks_user_recipe" json:"user_id"`
	RecipeID  string    `gorm:"size:36;not null;uniqueIndex:idx_bookmarks_user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (b *Bookmark) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

type Like struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_likes_user_recipe" json:"user_id"`
	RecipeID  string    `gorm:"size:36;not null;uniqueIndex:idx_likes_user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *Like) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

const (
	MinRating = 1
	MaxRating = 5
)

type Rating struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_ratings_user_recipe" json:"user_id"`
	RecipeID  string    `gorm:"size:36;not null;uniqueIndex:idx_ratings_user_recipe;index" json:"recipe_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Rating) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

const MaxCommentLength = 2000

type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	RecipeID  string    `gorm:"size:36;not null;index" json:"recipe_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Author    string    `gorm:"->;-:migration" json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type CommentList struct {
	Comments []Comment `json:"comments"`
}

type BookmarkStatus struct {
	RecipeID   string `json:"recipe_id"`
	Bookmarked bool   `json:"bookmarked"`
}

type LikeStatus struct {
	RecipeID  string `json:"recipe_id"`
	Liked     bool   `json:"liked"`
	LikeCount int    `json:"like_count"`
}

type RatingResult struct {
	RecipeID    string  `json:"recipe_id"`
	Value       int     `json:"value"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"rating_count"`
}
