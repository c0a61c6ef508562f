package database

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var defaultTags = []models.Tag{
	{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
}

var defaultIngredients = []models.Ingredient{
	{Name: "eggs", MeasurementUnit: "pcs"},
	{Name: "flour", MeasurementUnit: "g"},
	{Name: "milk", MeasurementUnit: "ml"},
	{Name: "salt", MeasurementUnit: "pinch"},
	{Name: "sugar", MeasurementUnit: "g"},
	{Name: "butter", MeasurementUnit: "g"},
}

// Seed inserts the default tags and a starter set of ingredients into an
// empty catalog
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Tag{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count tags: %w", err)
	}
	if count > 0 {
		log.Info("Database already seeded with initial data")
		return nil
	}

	log.Info("Database is empty, seeding initial data")
	return db.Transaction(func(tx *gorm.DB) error {
		tags := append([]models.Tag(nil), defaultTags...)
		if err := tx.Create(&tags).Error; err != nil {
			return fmt.Errorf("seed tags: %w", err)
		}
		if _, err := insertIngredients(tx, defaultIngredients); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"tags":        len(tags),
			"ingredients": len(defaultIngredients),
		}).Info("Database seeded successfully")
		return nil
	})
}

// ingredientRecord is the import format: [{"name": ..., "measurement_unit": ...}]
type ingredientRecord struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// ImportIngredients loads a JSON array of ingredients, skipping pairs that
// already exist. It returns the number of new rows.
func ImportIngredients(db *gorm.DB, r io.Reader) (int64, error) {
	var records []ingredientRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, fmt.Errorf("decode ingredients: %w", err)
	}

	ingredients := make([]models.Ingredient, 0, len(records))
	for i, rec := range records {
		name := strings.TrimSpace(rec.Name)
		unit := strings.TrimSpace(rec.MeasurementUnit)
		if name == "" || unit == "" {
			return 0, fmt.Errorf("ingredient %d: name and measurement_unit are required", i)
		}
		ingredients = append(ingredients, models.Ingredient{Name: name, MeasurementUnit: unit})
	}

	var created int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = insertIngredients(tx, ingredients)
		return err
	})
	return created, err
}

func insertIngredients(tx *gorm.DB, ingredients []models.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	rows := append([]models.Ingredient(nil), ingredients...)
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, 500)
	if result.Error != nil {
		return 0, fmt.Errorf("insert ingredients: %w", result.Error)
	}
	return result.RowsAffected, nil
}
