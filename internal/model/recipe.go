package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	UserID          string    `gorm:"size:36;not null;index" json:"user_id"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	ChefName        string    `gorm:"size:120" json:"chef_name"`
	ChefImage       string    `gorm:"size:512" json:"chef_image"`
	Image           string    `gorm:"size:512" json:"image"`
	Ingredients     string    `gorm:"type:text" json:"ingredients"`
	Instructions    string    `gorm:"type:text" json:"instructions"`
	URL             string    `gorm:"size:512" json:"url"`
	MoreInfoURL     string    `gorm:"size:512" json:"more_info_url"`
	PrepTime        string    `gorm:"size:60" json:"prep_time"`
	Servings        int       `json:"servings"`
	CountryOfOrigin string    `gorm:"size:100" json:"country_of_origin"`
	DietType        string    `gorm:"size:60" json:"diet_type"`
	Rating          float64   `gorm:"not null;default:0" json:"rating"`
	RatingCount     int       `gorm:"not null;default:0" json:"rating_count"`
	LikeCount       int       `gorm:"not null;default:0" json:"like_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Bookmarked bool `gorm:"-" json:"bookmarked"`
	Liked      bool `gorm:"-" json:"liked"`
}

func (r *Recipe) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type RecipeQuery struct {
	Search string
	UserID string
	Page   int
	Limit  int
}

type RecipeList struct {
	Recipes []Recipe `json:"recipes"`
}
