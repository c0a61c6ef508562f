package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateShoppingList(t *testing.T) {
	testCases := []struct {
		name     string
		lines    []ShoppingListItem
		expected []ShoppingListItem
	}{
		{
			name:     "empty",
			lines:    nil,
			expected: []ShoppingListItem{},
		},
		{
			name: "sums the same ingredient and unit",
			lines: []ShoppingListItem{
				{Name: "flour", MeasurementUnit: "g", Amount: 200},
				{Name: "flour", MeasurementUnit: "g", Amount: 300},
			},
			expected: []ShoppingListItem{{Name: "flour", MeasurementUnit: "g", Amount: 500}},
		},
		{
			name: "keeps different units apart",
			lines: []ShoppingListItem{
				{Name: "sugar", MeasurementUnit: "g", Amount: 100},
				{Name: "sugar", MeasurementUnit: "cup", Amount: 1},
			},
			expected: []ShoppingListItem{
				{Name: "sugar", MeasurementUnit: "cup", Amount: 1},
				{Name: "sugar", MeasurementUnit: "g", Amount: 100},
			},
		},
		{
			name: "sorted by name regardless of input order",
			lines: []ShoppingListItem{
				{Name: "salt", MeasurementUnit: "pinch", Amount: 1},
				{Name: "eggs", MeasurementUnit: "pcs", Amount: 2},
				{Name: "milk", MeasurementUnit: "ml", Amount: 250},
			},
			expected: []ShoppingListItem{
				{Name: "eggs", MeasurementUnit: "pcs", Amount: 2},
				{Name: "milk", MeasurementUnit: "ml", Amount: 250},
				{Name: "salt", MeasurementUnit: "pinch", Amount: 1},
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AggregateShoppingList(tt.lines))
		})
	}
}

func TestRenderShoppingList(t *testing.T) {
	assert.Equal(t, "Shopping list:\n", RenderShoppingList(nil))
	assert.Equal(t, "Shopping list:\neggs: 2 pcs\nflour: 500 g\n", RenderShoppingList([]ShoppingListItem{
		{Name: "eggs", MeasurementUnit: "pcs", Amount: 2},
		{Name: "flour", MeasurementUnit: "g", Amount: 500},
	}))
}

func TestBuildShoppingList(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	author := createUser(t, db, "author")
	shopper := createUser(t, db, "shopper")
	flour := createIngredient(t, db, "flour", "g")
	eggs := createIngredient(t, db, "eggs", "pcs")
	butter := createIngredient(t, db, "butter", "g")

	bread := createRecipe(t, db, author, "Bread", nil, line{flour, 200}, line{eggs, 1})
	cake := createRecipe(t, db, author, "Cake", nil, line{flour, 300}, line{eggs, 3})
	cookies := createRecipe(t, db, author, "Cookies", nil, line{butter, 100})

	cart := NewShoppingCartService(db)
	_, err := cart.Add(ctx, shopper.ID, cake.ID)
	require.NoError(t, err)
	_, err = cart.Add(ctx, shopper.ID, bread.ID)
	require.NoError(t, err)
	// Someone else's cart must not leak into the list
	_, err = cart.Add(ctx, author.ID, cookies.ID)
	require.NoError(t, err)

	service := NewShoppingListService(db)

	list, err := service.BuildShoppingList(ctx, shopper.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shopping list:\neggs: 4 pcs\nflour: 500 g\n", list)

	t.Run("empty cart", func(t *testing.T) {
		other := createUser(t, db, "other")
		list, err := service.BuildShoppingList(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, ShoppingListHeader+"\n", list)
	})

	t.Run("removing a recipe updates the list", func(t *testing.T) {
		require.NoError(t, cart.Remove(ctx, shopper.ID, cake.ID))
		items, err := service.Items(ctx, shopper.ID)
		require.NoError(t, err)
		assert.Equal(t, []ShoppingListItem{
			{Name: "eggs", MeasurementUnit: "pcs", Amount: 1},
			{Name: "flour", MeasurementUnit: "g", Amount: 200},
		}, items)
	})
}
