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

// SubscriptionService lets users follow recipe authors
type SubscriptionService interface {
	// Subscribe makes userID follow authorID and returns the author with up
	// to recipesLimit of their recipes (all when recipesLimit <= 0)
	Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (models.SubscriptionResponse, error)
	// Unsubscribe stops userID following authorID
	Unsubscribe(ctx context.Context, userID, authorID uint) error
	// ListSubscriptions returns a page of the authors userID follows
	ListSubscriptions(ctx context.Context, userID uint, page, limit, recipesLimit int) (models.Page[models.SubscriptionResponse], error)
}

type subscriptionService struct {
	db *gorm.DB
}

// NewSubscriptionService creates a new instance of SubscriptionService
func NewSubscriptionService(db *gorm.DB) SubscriptionService {
	return &subscriptionService{db: db}
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (models.SubscriptionResponse, error) {
	if userID == authorID {
		return models.SubscriptionResponse{}, fmt.Errorf("user %d: %w", userID, ErrSelfReference)
	}

	var response models.SubscriptionResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var author models.User
		if err := tx.First(&author, authorID).Error; err != nil {
			return userLookupError(authorID, err)
		}
		if err := subscriptions.add(tx, userID, authorID); err != nil {
			return err
		}

		var err error
		response, err = authorWithRecipes(tx, author, true, recipesLimit)
		return err
	})
	if err != nil {
		return models.SubscriptionResponse{}, err
	}
	metrics.RecordRelationshipChange(subscriptions.name, "add")

	log.WithFields(logrus.Fields{"user_id": userID, "author_id": authorID}).Debug("Subscribed to author")
	return response, nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if userID == authorID {
		return fmt.Errorf("user %d: %w", userID, ErrSelfReference)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", authorID).Count(&count).Error; err != nil {
			return fmt.Errorf("look up user %d: %w", authorID, err)
		}
		if count == 0 {
			return fmt.Errorf("user %d: %w", authorID, ErrNotFound)
		}
		return subscriptions.remove(tx, userID, authorID)
	})
	if err != nil {
		return err
	}
	metrics.RecordRelationshipChange(subscriptions.name, "remove")
	return nil
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, userID uint, page, limit, recipesLimit int) (models.Page[models.SubscriptionResponse], error) {
	db := s.db.WithContext(ctx)
	result := models.Page[models.SubscriptionResponse]{Results: []models.SubscriptionResponse{}}

	followed := db.Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID)

	if err := followed.Session(&gorm.Session{}).Count(&result.Count).Error; err != nil {
		return result, fmt.Errorf("count subscriptions: %w", err)
	}

	var authors []models.User
	if err := followed.Session(&gorm.Session{}).
		Scopes(Paginate(page, limit)).
		Order("subscriptions.id").
		Find(&authors).Error; err != nil {
		return result, fmt.Errorf("list subscriptions: %w", err)
	}

	for _, author := range authors {
		item, err := authorWithRecipes(db, author, true, recipesLimit)
		if err != nil {
			return result, err
		}
		result.Results = append(result.Results, item)
	}
	return result, nil
}

// authorWithRecipes builds the subscription view of author, newest recipes
// first
func authorWithRecipes(tx *gorm.DB, author models.User, isSubscribed bool, recipesLimit int) (models.SubscriptionResponse, error) {
	response := models.SubscriptionResponse{
		UserResponse: models.NewUserResponse(author, isSubscribed),
		Recipes:      []models.RecipeSummary{},
	}

	if err := tx.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&response.RecipesCount).Error; err != nil {
		return response, fmt.Errorf("count recipes of user %d: %w", author.ID, err)
	}

	query := tx.Where("author_id = ?", author.ID).Order("created_at DESC").Order("id DESC")
	if recipesLimit > 0 {
		query = query.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return response, fmt.Errorf("list recipes of user %d: %w", author.ID, err)
	}
	for _, r := range recipes {
		response.Recipes = append(response.Recipes, models.NewRecipeSummary(r))
	}
	return response, nil
}

func userLookupError(userID uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return fmt.Errorf("look up user %d: %w", userID, err)
}
