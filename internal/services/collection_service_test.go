package services

import (
	"context"
	"errors"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRecipeCollections(t *testing.T) {
	constructors := map[string]func(*gorm.DB) RecipeCollectionService{
		"favorites":     NewFavoriteService,
		"shopping cart": NewShoppingCartService,
	}

	for name, newService := range constructors {
		t.Run(name, func(t *testing.T) {
			db := setupTestDB(t)
			ctx := context.Background()
			author := createUser(t, db, "author")
			reader := createUser(t, db, "reader")
			flour := createIngredient(t, db, "flour", "g")
			recipe := createRecipe(t, db, author, "Bread", nil, line{flour, 500})
			service := newService(db)

			t.Run("add returns the recipe summary", func(t *testing.T) {
				summary, err := service.Add(ctx, reader.ID, recipe.ID)
				require.NoError(t, err)
				assert.Equal(t, models.RecipeSummary{ID: recipe.ID, Name: "Bread", Image: recipe.Image, CookingTime: 10}, summary)
			})

			t.Run("adding twice fails", func(t *testing.T) {
				_, err := service.Add(ctx, reader.ID, recipe.ID)
				assert.ErrorIs(t, err, ErrAlreadyExists)
			})

			t.Run("unknown recipe", func(t *testing.T) {
				_, err := service.Add(ctx, reader.ID, 9999)
				assert.ErrorIs(t, err, ErrNotFound)
				assert.ErrorIs(t, service.Remove(ctx, reader.ID, 9999), ErrNotFound)
			})

			t.Run("remove then remove again", func(t *testing.T) {
				require.NoError(t, service.Remove(ctx, reader.ID, recipe.ID))
				assert.ErrorIs(t, service.Remove(ctx, reader.ID, recipe.ID), ErrLinkNotFound)
			})

			t.Run("remove without add", func(t *testing.T) {
				assert.ErrorIs(t, service.Remove(ctx, author.ID, recipe.ID), ErrLinkNotFound)
			})

			t.Run("add after remove succeeds", func(t *testing.T) {
				_, err := service.Add(ctx, reader.ID, recipe.ID)
				assert.NoError(t, err)
			})
		})
	}
}

func TestFavoriteAndCartAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	author := createUser(t, db, "author")
	recipe := createRecipe(t, db, author, "Soup", nil, line{createIngredient(t, db, "water", "ml"), 1000})

	_, err := NewFavoriteService(db).Add(ctx, author.ID, recipe.ID)
	require.NoError(t, err)

	_, err = NewShoppingCartService(db).Add(ctx, author.ID, recipe.ID)
	assert.NoError(t, err)
}

func TestLinkUniqueIndexBackstop(t *testing.T) {
	db := setupTestDB(t)
	author := createUser(t, db, "author")
	recipe := createRecipe(t, db, author, "Soup", nil, line{createIngredient(t, db, "water", "ml"), 1000})

	require.NoError(t, db.Create(&models.Favorite{UserID: author.ID, RecipeID: recipe.ID}).Error)

	// A second insert that bypasses the existence check hits the unique index
	err := db.Create(&models.Favorite{UserID: author.ID, RecipeID: recipe.ID}).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)

	var count int64
	db.Model(&models.Favorite{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestTargetIDs(t *testing.T) {
	db := setupTestDB(t)
	author := createUser(t, db, "author")
	water := createIngredient(t, db, "water", "ml")
	first := createRecipe(t, db, author, "First", nil, line{water, 1})
	second := createRecipe(t, db, author, "Second", nil, line{water, 1})

	require.NoError(t, favorites.add(db, author.ID, first.ID))

	linked, err := favorites.targetIDs(db, author.ID, []uint{first.ID, second.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{first.ID: true}, linked)

	anonymous, err := favorites.targetIDs(db, 0, []uint{first.ID, second.ID})
	require.NoError(t, err)
	assert.Empty(t, anonymous)
}
