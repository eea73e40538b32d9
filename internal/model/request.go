package model

import "strings"

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest accepts either a username or an email as the identifier.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Identifier() string {
	if id := strings.TrimSpace(r.Username); id != "" {
		return id
	}
	return strings.TrimSpace(r.Email)
}

type UpdateUserRequest struct {
	Username       *string `json:"username"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Title          *string `json:"title"`
	AboutMe        *string `json:"about_me"`
	ProfilePicture *string `json:"profile_picture"`
}

type UpdateRoleRequest struct {
	IsAdmin *bool `json:"is_admin"`
}

// RecipeRequest is used for both create and partial update; nil fields are left untouched.
type RecipeRequest struct {
	Title           *string `json:"title"`
	ChefName        *string `json:"chef_name"`
	ChefImage       *string `json:"chef_image"`
	Image           *string `json:"image"`
	Ingredients     *string `json:"ingredients"`
	Instructions    *string `json:"instructions"`
	URL             *string `json:"url"`
	MoreInfoURL     *string `json:"more_info_url"`
	PrepTime        *string `json:"prep_time"`
	Servings        *int    `json:"servings"`
	CountryOfOrigin *string `json:"country_of_origin"`
	DietType        *string `json:"diet_type"`
}

func (r RecipeRequest) Apply(recipe *Recipe) {
	setString(&recipe.Title, r.Title)
	setString(&recipe.ChefName, r.ChefName)
	setString(&recipe.ChefImage, r.ChefImage)
	setString(&recipe.Image, r.Image)
	setString(&recipe.Ingredients, r.Ingredients)
	setString(&recipe.Instructions, r.Instructions)
	setString(&recipe.URL, r.URL)
	setString(&recipe.MoreInfoURL, r.MoreInfoURL)
	setString(&recipe.PrepTime, r.PrepTime)
	setString(&recipe.CountryOfOrigin, r.CountryOfOrigin)
	setString(&recipe.DietType, r.DietType)
	if r.Servings != nil {
		recipe.Servings = *r.Servings
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

type RatingRequest struct {
	RecipeID string `json:"recipe_id"`
	Value    int    `json:"value"`
}

// RecipeRatingRequest is the body of PUT /recipes/{id}/rating; "rating" matches the web client.
type RecipeRatingRequest struct {
	Rating int `json:"rating"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
