package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"gorm.io/gorm"
)

// CatalogService serves the ingredient and tag reference data
type CatalogService interface {
	// SearchIngredients lists ingredients whose name starts with prefix,
	// ignoring case. An empty prefix lists everything.
	SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (models.Ingredient, error)
	CreateIngredient(ctx context.Context, input models.IngredientInput) (models.Ingredient, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (models.Tag, error)
	CreateTag(ctx context.Context, input models.TagInput) (models.Tag, error)
}

type catalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(db *gorm.DB) CatalogService {
	return &catalogService{db: db}
}

func (s *catalogService) SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name").Order("measurement_unit")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(prefix))+"%")
	}

	ingredients := []models.Ingredient{}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("search ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *catalogService) GetIngredient(ctx context.Context, id uint) (models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ingredient, fmt.Errorf("ingredient %d: %w", id, ErrNotFound)
		}
		return ingredient, fmt.Errorf("look up ingredient %d: %w", id, err)
	}
	return ingredient, nil
}

func (s *catalogService) CreateIngredient(ctx context.Context, input models.IngredientInput) (models.Ingredient, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.MeasurementUnit = strings.TrimSpace(input.MeasurementUnit)
	if err := validateInput(input); err != nil {
		return models.Ingredient{}, err
	}

	ingredient := models.Ingredient{Name: input.Name, MeasurementUnit: input.MeasurementUnit}
	if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Ingredient{}, fmt.Errorf("ingredient %q (%s): %w", input.Name, input.MeasurementUnit, ErrAlreadyExists)
		}
		return models.Ingredient{}, fmt.Errorf("create ingredient: %w", err)
	}
	return ingredient, nil
}

func (s *catalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := s.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (s *catalogService) GetTag(ctx context.Context, id uint) (models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tag, fmt.Errorf("tag %d: %w", id, ErrNotFound)
		}
		return tag, fmt.Errorf("look up tag %d: %w", id, err)
	}
	return tag, nil
}

func (s *catalogService) CreateTag(ctx context.Context, input models.TagInput) (models.Tag, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	input.Color = strings.ToUpper(strings.TrimSpace(input.Color))
	if err := validateInput(input); err != nil {
		return models.Tag{}, err
	}

	tag := models.Tag{Name: input.Name, Color: input.Color, Slug: input.Slug}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Tag{}, fmt.Errorf("tag %q: %w", input.Slug, ErrAlreadyExists)
		}
		return models.Tag{}, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
