package models

import (
	"time"
)

// Recipe is owned by its author; only the author may change or delete it
type Recipe struct {
	ID          uint               `gorm:"primaryKey"`
	AuthorID    uint               `gorm:"not null;index"`
	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Name        string             `gorm:"size:200;not null"`
	Image       string             `gorm:"type:text;not null"`
	Text        string             `gorm:"type:text;not null"`
	CookingTime int                `gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time          `gorm:"index"`
	UpdatedAt   time.Time
}

// RecipeIngredient is one ingredient line of a recipe. The whole set is
// replaced when the recipe is updated.
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey"`
	RecipeID     uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient;index"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
	Amount       int        `gorm:"not null;check:chk_recipe_ingredients_amount,amount >= 1"`
}

// RecipeTag maps onto the recipe_tags join table created for Recipe.Tags
type RecipeTag struct {
	RecipeID uint `gorm:"primaryKey"`
	TagID    uint `gorm:"primaryKey"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// IngredientLineInput references a catalog ingredient and the amount needed
type IngredientLineInput struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"min=1"`
}

// RecipeInput is the create payload. Every field is required.
type RecipeInput struct {
	Name        string                `json:"name" validate:"required,max=200"`
	Image       string                `json:"image" validate:"required"`
	Text        string                `json:"text" validate:"required"`
	CookingTime int                   `json:"cooking_time" validate:"min=1"`
	Tags        []uint                `json:"tags" validate:"dive,required"`
	Ingredients []IngredientLineInput `json:"ingredients" validate:"required,min=1,dive"`
}

// RecipeUpdateInput is the PATCH payload. Scalar fields are optional, tags
// and ingredients replace the current sets and must be present.
type RecipeUpdateInput struct {
	Name        *string               `json:"name" validate:"omitempty,min=1,max=200"`
	Image       *string               `json:"image" validate:"omitempty,min=1"`
	Text        *string               `json:"text" validate:"omitempty,min=1"`
	CookingTime *int                  `json:"cooking_time" validate:"omitempty,min=1"`
	Tags        []uint                `json:"tags" validate:"required,dive,required"`
	Ingredients []IngredientLineInput `json:"ingredients" validate:"required,min=1,dive"`
}

// RecipeIngredientResponse is an ingredient line in a recipe response
type RecipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full representation of a recipe for a viewer
type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []Tag                      `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// RecipeSummary is the short form returned by favorite, shopping cart and
// subscription endpoints
type RecipeSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// NewRecipeSummary builds the short form of recipe
func NewRecipeSummary(recipe Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

// Page is a single page of a paginated listing
type Page[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}
