package services

import (
	"context"
	"errors"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func recipeInput(cookingTime int, tags []uint, lines ...models.IngredientLineInput) models.RecipeInput {
	return models.RecipeInput{
		Name:        "Pancakes",
		Image:       "data:image/png;base64,AAAA",
		Text:        "Whisk and fry",
		CookingTime: cookingTime,
		Tags:        tags,
		Ingredients: lines,
	}
}

func TestCreateRecipe(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewRecipeService(db)
	author := createUser(t, db, "author")
	flour := createIngredient(t, db, "flour", "g")
	milk := createIngredient(t, db, "milk", "ml")
	breakfast := createTag(t, db, "breakfast")

	t.Run("cooking time of one minute is accepted", func(t *testing.T) {
		recipe, err := service.CreateRecipe(ctx, author.ID,
			recipeInput(1, []uint{breakfast.ID}, models.IngredientLineInput{ID: flour.ID, Amount: 200}, models.IngredientLineInput{ID: milk.ID, Amount: 300}))
		require.NoError(t, err)

		assert.NotZero(t, recipe.ID)
		assert.Equal(t, 1, recipe.CookingTime)
		assert.Equal(t, author.ID, recipe.Author.ID)
		assert.False(t, recipe.IsFavorited)
		assert.False(t, recipe.IsInShoppingCart)
		require.Len(t, recipe.Tags, 1)
		assert.Equal(t, "breakfast", recipe.Tags[0].Slug)
		assert.Equal(t, []models.RecipeIngredientResponse{
			{ID: flour.ID, Name: "flour", MeasurementUnit: "g", Amount: 200},
			{ID: milk.ID, Name: "milk", MeasurementUnit: "ml", Amount: 300},
		}, recipe.Ingredients)
	})

	t.Run("cooking time of zero is rejected", func(t *testing.T) {
		_, err := service.CreateRecipe(ctx, author.ID, recipeInput(0, nil, models.IngredientLineInput{ID: flour.ID, Amount: 1}))
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), "got %v", err)
		assert.Contains(t, ve.Fields, "cooking_time")
	})

	t.Run("amount of zero is rejected", func(t *testing.T) {
		_, err := service.CreateRecipe(ctx, author.ID, recipeInput(5, nil, models.IngredientLineInput{ID: flour.ID, Amount: 0}))
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), "got %v", err)
		assert.Contains(t, ve.Fields, "ingredients[0].amount")
	})

	t.Run("at least one ingredient is required", func(t *testing.T) {
		_, err := service.CreateRecipe(ctx, author.ID, recipeInput(5, nil))
		assert.True(t, IsValidationError(err), "got %v", err)
	})

	t.Run("duplicate ingredient lines are rejected", func(t *testing.T) {
		_, err := service.CreateRecipe(ctx, author.ID, recipeInput(5, nil,
			models.IngredientLineInput{ID: flour.ID, Amount: 1}, models.IngredientLineInput{ID: flour.ID, Amount: 2}))
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), "got %v", err)
		assert.Contains(t, ve.Fields, "ingredients")
	})

	t.Run("unknown ingredient is rejected", func(t *testing.T) {
		_, err := service.CreateRecipe(ctx, author.ID, recipeInput(5, nil, models.IngredientLineInput{ID: 9999, Amount: 1}))
		assert.True(t, IsValidationError(err), "got %v", err)
	})

	t.Run("unknown tag is rejected", func(t *testing.T) {
		_, err := service.CreateRecipe(ctx, author.ID, recipeInput(5, []uint{9999}, models.IngredientLineInput{ID: flour.ID, Amount: 1}))
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), "got %v", err)
		assert.Contains(t, ve.Fields, "tags")
	})

	t.Run("rejected recipes leave nothing behind", func(t *testing.T) {
		var count int64
		db.Model(&models.Recipe{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestUpdateRecipe(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewRecipeService(db)
	author := createUser(t, db, "author")
	stranger := createUser(t, db, "stranger")
	flour := createIngredient(t, db, "flour", "g")
	sugar := createIngredient(t, db, "sugar", "g")
	breakfast := createTag(t, db, "breakfast")
	dinner := createTag(t, db, "dinner")
	original := createRecipe(t, db, author, "Pancakes", []models.Tag{breakfast}, line{flour, 200})

	t.Run("non-author is forbidden and the recipe is unchanged", func(t *testing.T) {
		_, err := service.UpdateRecipe(ctx, original.ID, stranger.ID, models.RecipeUpdateInput{
			Name:        ptr("Stolen"),
			Tags:        []uint{dinner.ID},
			Ingredients: []models.IngredientLineInput{{ID: sugar.ID, Amount: 5}},
		})
		assert.ErrorIs(t, err, ErrForbidden)

		current, err := service.GetRecipe(ctx, original.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, original, current)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		_, err := service.UpdateRecipe(ctx, 9999, author.ID, models.RecipeUpdateInput{
			Tags:        []uint{},
			Ingredients: []models.IngredientLineInput{{ID: sugar.ID, Amount: 5}},
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("author patches fields and replaces ingredients and tags", func(t *testing.T) {
		updated, err := service.UpdateRecipe(ctx, original.ID, author.ID, models.RecipeUpdateInput{
			CookingTime: ptr(25),
			Tags:        []uint{dinner.ID},
			Ingredients: []models.IngredientLineInput{{ID: sugar.ID, Amount: 50}},
		})
		require.NoError(t, err)

		assert.Equal(t, "Pancakes", updated.Name, "omitted fields keep their value")
		assert.Equal(t, 25, updated.CookingTime)
		require.Len(t, updated.Tags, 1)
		assert.Equal(t, dinner.ID, updated.Tags[0].ID)
		assert.Equal(t, []models.RecipeIngredientResponse{
			{ID: sugar.ID, Name: "sugar", MeasurementUnit: "g", Amount: 50},
		}, updated.Ingredients)

		var lines int64
		db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", original.ID).Count(&lines)
		assert.Equal(t, int64(1), lines)
	})

	t.Run("invalid cooking time", func(t *testing.T) {
		_, err := service.UpdateRecipe(ctx, original.ID, author.ID, models.RecipeUpdateInput{
			CookingTime: ptr(0),
			Tags:        []uint{},
			Ingredients: []models.IngredientLineInput{{ID: sugar.ID, Amount: 5}},
		})
		assert.True(t, IsValidationError(err), "got %v", err)
	})
}

func TestDeleteRecipe(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewRecipeService(db)
	author := createUser(t, db, "author")
	fan := createUser(t, db, "fan")
	recipe := createRecipe(t, db, author, "Pie", []models.Tag{createTag(t, db, "dessert")},
		line{createIngredient(t, db, "apples", "pcs"), 4})

	_, err := NewFavoriteService(db).Add(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	_, err = NewShoppingCartService(db).Add(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, service.DeleteRecipe(ctx, recipe.ID, fan.ID), ErrForbidden)
	require.NoError(t, service.DeleteRecipe(ctx, recipe.ID, author.ID))
	assert.ErrorIs(t, service.DeleteRecipe(ctx, recipe.ID, author.ID), ErrNotFound)

	for _, model := range []interface{}{
		&models.Recipe{}, &models.RecipeIngredient{}, &models.RecipeTag{}, &models.Favorite{}, &models.ShoppingCartEntry{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T rows left after delete", model)
	}

	list, err := NewShoppingListService(db).BuildShoppingList(ctx, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, ShoppingListHeader+"\n", list)
}

func TestListRecipes(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewRecipeService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	eggs := createIngredient(t, db, "eggs", "pcs")
	breakfast := createTag(t, db, "breakfast")
	dinner := createTag(t, db, "dinner")

	omelette := createRecipe(t, db, alice, "Omelette", []models.Tag{breakfast}, line{eggs, 3})
	frittata := createRecipe(t, db, alice, "Frittata", []models.Tag{breakfast, dinner}, line{eggs, 6})
	quiche := createRecipe(t, db, bob, "Quiche", []models.Tag{dinner}, line{eggs, 4})

	_, err := NewFavoriteService(db).Add(ctx, bob.ID, omelette.ID)
	require.NoError(t, err)
	_, err = NewShoppingCartService(db).Add(ctx, bob.ID, frittata.ID)
	require.NoError(t, err)
	_, err = NewSubscriptionService(db).Subscribe(ctx, bob.ID, alice.ID, 0)
	require.NoError(t, err)

	ids := func(page models.Page[models.RecipeResponse]) []uint {
		out := make([]uint, 0, len(page.Results))
		for _, r := range page.Results {
			out = append(out, r.ID)
		}
		return out
	}

	testCases := []struct {
		name     string
		filter   RecipeFilter
		viewer   uint
		expected []uint
	}{
		{"everything newest first", RecipeFilter{}, 0, []uint{quiche.ID, frittata.ID, omelette.ID}},
		{"by author", RecipeFilter{AuthorID: alice.ID}, 0, []uint{frittata.ID, omelette.ID}},
		{"by tag", RecipeFilter{TagSlugs: []string{"breakfast"}}, 0, []uint{frittata.ID, omelette.ID}},
		{"any of several tags", RecipeFilter{TagSlugs: []string{"breakfast", "dinner"}}, 0, []uint{quiche.ID, frittata.ID, omelette.ID}},
		{"unknown tag", RecipeFilter{TagSlugs: []string{"lunch"}}, 0, []uint{}},
		{"favorited by viewer", RecipeFilter{IsFavorited: true}, bob.ID, []uint{omelette.ID}},
		{"in viewer's cart", RecipeFilter{IsInShoppingCart: true}, bob.ID, []uint{frittata.ID}},
		{"favorite filter ignored for anonymous", RecipeFilter{IsFavorited: true}, 0, []uint{quiche.ID, frittata.ID, omelette.ID}},
		{"filters combine", RecipeFilter{AuthorID: alice.ID, TagSlugs: []string{"dinner"}}, 0, []uint{frittata.ID}},
		{"cart filter keeps the author filter", RecipeFilter{AuthorID: bob.ID, IsInShoppingCart: true}, bob.ID, []uint{}},
		{"first page", RecipeFilter{Page: 1, Limit: 2}, 0, []uint{quiche.ID, frittata.ID}},
		{"second page", RecipeFilter{Page: 2, Limit: 2}, 0, []uint{omelette.ID}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			page, err := service.ListRecipes(ctx, tt.filter, tt.viewer)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ids(page))
		})
	}

	t.Run("count ignores pagination", func(t *testing.T) {
		page, err := service.ListRecipes(ctx, RecipeFilter{Page: 1, Limit: 1}, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Count)
		assert.Len(t, page.Results, 1)
	})

	t.Run("flags reflect the viewer", func(t *testing.T) {
		recipe, err := service.GetRecipe(ctx, omelette.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, recipe.IsFavorited)
		assert.False(t, recipe.IsInShoppingCart)
		assert.True(t, recipe.Author.IsSubscribed)

		anonymous, err := service.GetRecipe(ctx, omelette.ID, 0)
		require.NoError(t, err)
		assert.False(t, anonymous.IsFavorited)
		assert.False(t, anonymous.Author.IsSubscribed)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		_, err := service.GetRecipe(ctx, 9999, 0)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
