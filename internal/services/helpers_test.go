package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "not-a-real-hash",
		Role:         models.RoleUser,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return ingredient
}

func createTag(t *testing.T, db *gorm.DB, slug string) models.Tag {
	t.Helper()
	var count int64
	db.Model(&models.Tag{}).Count(&count)
	tag := models.Tag{Name: slug, Slug: slug, Color: fmt.Sprintf("#%06d", count+1)}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

type line struct {
	ingredient models.Ingredient
	amount     int
}

func createRecipe(t *testing.T, db *gorm.DB, author models.User, name string, tags []models.Tag, lines ...line) models.RecipeResponse {
	t.Helper()
	input := models.RecipeInput{
		Name:        name,
		Image:       "data:image/png;base64,AAAA",
		Text:        "Mix and bake",
		CookingTime: 10,
	}
	for _, tag := range tags {
		input.Tags = append(input.Tags, tag.ID)
	}
	for _, l := range lines {
		input.Ingredients = append(input.Ingredients, models.IngredientLineInput{ID: l.ingredient.ID, Amount: l.amount})
	}

	recipe, err := NewRecipeService(db).CreateRecipe(context.Background(), author.ID, input)
	require.NoError(t, err)
	return recipe
}
