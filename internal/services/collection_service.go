package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/metrics"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RecipeCollectionService manages a per-user set of recipes (favorites or
// the shopping cart)
type RecipeCollectionService interface {
	// Add puts the recipe into the user's collection and returns its summary
	Add(ctx context.Context, userID, recipeID uint) (models.RecipeSummary, error)
	// Remove takes the recipe out of the user's collection
	Remove(ctx context.Context, userID, recipeID uint) error
}

type recipeCollectionService[L any] struct {
	db    *gorm.DB
	links linkTable[L]
}

// NewFavoriteService creates the collection service backed by favorites
func NewFavoriteService(db *gorm.DB) RecipeCollectionService {
	return &recipeCollectionService[models.Favorite]{db: db, links: favorites}
}

// NewShoppingCartService creates the collection service backed by the
// shopping cart
func NewShoppingCartService(db *gorm.DB) RecipeCollectionService {
	return &recipeCollectionService[models.ShoppingCartEntry]{db: db, links: shoppingCart}
}

func (s *recipeCollectionService[L]) Add(ctx context.Context, userID, recipeID uint) (models.RecipeSummary, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, recipeID).Error; err != nil {
			return recipeLookupError(recipeID, err)
		}
		return s.links.add(tx, userID, recipeID)
	})
	if err != nil {
		return models.RecipeSummary{}, err
	}
	metrics.RecordRelationshipChange(s.links.name, "add")

	log.WithFields(logrus.Fields{
		"collection": s.links.name,
		"user_id":    userID,
		"recipe_id":  recipeID,
	}).Debug("Recipe added to collection")
	return models.NewRecipeSummary(recipe), nil
}

func (s *recipeCollectionService[L]) Remove(ctx context.Context, userID, recipeID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
			return fmt.Errorf("look up recipe %d: %w", recipeID, err)
		}
		if count == 0 {
			return fmt.Errorf("recipe %d: %w", recipeID, ErrNotFound)
		}
		return s.links.remove(tx, userID, recipeID)
	})
	if err != nil {
		return err
	}
	metrics.RecordRelationshipChange(s.links.name, "remove")
	return nil
}

func recipeLookupError(recipeID uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("recipe %d: %w", recipeID, ErrNotFound)
	}
	return fmt.Errorf("look up recipe %d: %w", recipeID, err)
}
