package models

// Ingredient is catalog reference data: a product and the unit it is measured in
type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}

// Tag labels recipes (breakfast, dinner, ...). Slug is used for filtering.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Color string `gorm:"size:7;not null;uniqueIndex" json:"color"`
	Slug  string `gorm:"size:200;not null;uniqueIndex" json:"slug"`
}

// IngredientInput is the admin payload for a new catalog ingredient
type IngredientInput struct {
	Name            string `json:"name" binding:"required" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" binding:"required" validate:"required,max=200"`
}

// TagInput is the admin payload for a new tag
type TagInput struct {
	Name  string `json:"name" binding:"required" validate:"required,max=200"`
	Color string `json:"color" binding:"required" validate:"required,hexcolor,len=7"`
	Slug  string `json:"slug" binding:"required" validate:"required,max=200,slug"`
}
