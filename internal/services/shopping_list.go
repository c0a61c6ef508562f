package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"gorm.io/gorm"
)

// ShoppingListHeader is the first line of every rendered shopping list
const ShoppingListHeader = "Shopping list:"

// ShoppingListItem is the total amount of one ingredient across the cart
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}

// ShoppingListService renders the ingredients a user needs for every recipe
// in their shopping cart
type ShoppingListService interface {
	// Items returns the aggregated ingredient totals ordered by name
	Items(ctx context.Context, userID uint) ([]ShoppingListItem, error)
	// BuildShoppingList renders the aggregated items as a text report
	BuildShoppingList(ctx context.Context, userID uint) (string, error)
}

type shoppingListService struct {
	db *gorm.DB
}

// NewShoppingListService creates a new instance of ShoppingListService
func NewShoppingListService(db *gorm.DB) ShoppingListService {
	return &shoppingListService{db: db}
}

func (s *shoppingListService) Items(ctx context.Context, userID uint) ([]ShoppingListItem, error) {
	var lines []ShoppingListItem
	err := s.db.WithContext(ctx).
		Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("load shopping cart ingredients: %w", err)
	}
	return AggregateShoppingList(lines), nil
}

func (s *shoppingListService) BuildShoppingList(ctx context.Context, userID uint) (string, error) {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return "", err
	}
	return RenderShoppingList(items), nil
}

// AggregateShoppingList merges lines sharing an ingredient name and unit,
// summing their amounts, and orders the result by name then unit
func AggregateShoppingList(lines []ShoppingListItem) []ShoppingListItem {
	type key struct{ name, unit string }

	totals := make(map[key]int64, len(lines))
	for _, line := range lines {
		totals[key{line.Name, line.MeasurementUnit}] += line.Amount
	}

	items := make([]ShoppingListItem, 0, len(totals))
	for k, amount := range totals {
		items = append(items, ShoppingListItem{Name: k.name, MeasurementUnit: k.unit, Amount: amount})
	}
	slices.SortFunc(items, func(a, b ShoppingListItem) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.MeasurementUnit, b.MeasurementUnit)
	})
	return items
}

// RenderShoppingList formats items one per line under ShoppingListHeader
func RenderShoppingList(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	b.WriteByte('\n')
	for _, item := range items {
		fmt.Fprintf(&b, "%s: %d %s\n", item.Name, item.Amount, item.MeasurementUnit)
	}
	return b.String()
}
