package services

import (
	"context"
	"fmt"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RecipeFilter selects recipes for a listing. Zero values disable a filter.
type RecipeFilter struct {
	AuthorID         uint
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Page             int
	Limit            int
}

// RecipeService provides methods to read and write recipes
type RecipeService interface {
	// ListRecipes returns a page of recipes newest first, as seen by viewerID
	// (0 for anonymous viewers)
	ListRecipes(ctx context.Context, filter RecipeFilter, viewerID uint) (models.Page[models.RecipeResponse], error)
	// GetRecipe returns a single recipe as seen by viewerID
	GetRecipe(ctx context.Context, id, viewerID uint) (models.RecipeResponse, error)
	// CreateRecipe stores a recipe written by authorID
	CreateRecipe(ctx context.Context, authorID uint, input models.RecipeInput) (models.RecipeResponse, error)
	// UpdateRecipe patches a recipe. Only its author may do so.
	UpdateRecipe(ctx context.Context, id, editorID uint, input models.RecipeUpdateInput) (models.RecipeResponse, error)
	// DeleteRecipe removes a recipe with its ingredient lines, tags and
	// every favorite and shopping cart entry pointing at it
	DeleteRecipe(ctx context.Context, id, editorID uint) error
}

type recipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new instance of RecipeService
func NewRecipeService(db *gorm.DB) RecipeService {
	return &recipeService{db: db}
}

// Scopes turns the filter into query scopes for viewerID. Favorite and cart
// filters need a viewer and are skipped for anonymous requests.
func (f RecipeFilter) Scopes(viewerID uint) []Scope {
	var scopes []Scope
	if f.AuthorID != 0 {
		scopes = append(scopes, ByAuthor(f.AuthorID))
	}
	if len(f.TagSlugs) > 0 {
		scopes = append(scopes, WithTagSlugs(f.TagSlugs...))
	}
	if f.IsFavorited && viewerID != 0 {
		scopes = append(scopes, FavoritedBy(viewerID))
	}
	if f.IsInShoppingCart && viewerID != 0 {
		scopes = append(scopes, InShoppingCartOf(viewerID))
	}
	return scopes
}

func (s *recipeService) ListRecipes(ctx context.Context, filter RecipeFilter, viewerID uint) (models.Page[models.RecipeResponse], error) {
	result := models.Page[models.RecipeResponse]{Results: []models.RecipeResponse{}}
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).Scopes(filter.Scopes(viewerID)...)

	if err := query.Session(&gorm.Session{}).Count(&result.Count).Error; err != nil {
		return result, fmt.Errorf("count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := preloadRecipe(query.Session(&gorm.Session{})).
		Scopes(Paginate(filter.Page, filter.Limit)).
		Order("recipes.created_at DESC").
		Order("recipes.id DESC").
		Find(&recipes).Error
	if err != nil {
		return result, fmt.Errorf("list recipes: %w", err)
	}

	result.Results, err = s.represent(s.db.WithContext(ctx), recipes, viewerID)
	return result, err
}

func (s *recipeService) GetRecipe(ctx context.Context, id, viewerID uint) (models.RecipeResponse, error) {
	db := s.db.WithContext(ctx)
	recipe, err := loadRecipe(db, id)
	if err != nil {
		return models.RecipeResponse{}, err
	}
	return s.representOne(db, recipe, viewerID)
}

func (s *recipeService) CreateRecipe(ctx context.Context, authorID uint, input models.RecipeInput) (models.RecipeResponse, error) {
	if err := validateInput(input); err != nil {
		return models.RecipeResponse{}, err
	}

	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, input.Tags, input.Ingredients); err != nil {
			return err
		}

		recipe = models.Recipe{
			AuthorID:    authorID,
			Name:        input.Name,
			Image:       input.Image,
			Text:        input.Text,
			CookingTime: input.CookingTime,
		}
		if err := tx.Omit("Tags", "Ingredients", "Author").Create(&recipe).Error; err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		if err := replaceTags(tx, recipe.ID, input.Tags); err != nil {
			return err
		}
		if err := replaceIngredients(tx, recipe.ID, input.Ingredients); err != nil {
			return err
		}

		var err error
		recipe, err = loadRecipe(tx, recipe.ID)
		return err
	})
	if err != nil {
		return models.RecipeResponse{}, err
	}

	log.WithFields(logrus.Fields{"recipe_id": recipe.ID, "author_id": authorID}).Info("Recipe created")
	return s.representOne(s.db.WithContext(ctx), recipe, authorID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id, editorID uint, input models.RecipeUpdateInput) (models.RecipeResponse, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, id).Error; err != nil {
			return recipeLookupError(id, err)
		}
		if recipe.AuthorID != editorID {
			return fmt.Errorf("recipe %d: %w", id, ErrForbidden)
		}

		if err := validateInput(input); err != nil {
			return err
		}
		if err := checkReferences(tx, input.Tags, input.Ingredients); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Image != nil {
			updates["image"] = *input.Image
		}
		if input.Text != nil {
			updates["text"] = *input.Text
		}
		if input.CookingTime != nil {
			updates["cooking_time"] = *input.CookingTime
		}
		if len(updates) > 0 {
			if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
				return fmt.Errorf("update recipe %d: %w", id, err)
			}
		}

		if err := replaceTags(tx, recipe.ID, input.Tags); err != nil {
			return err
		}
		if err := replaceIngredients(tx, recipe.ID, input.Ingredients); err != nil {
			return err
		}

		var err error
		recipe, err = loadRecipe(tx, recipe.ID)
		return err
	})
	if err != nil {
		return models.RecipeResponse{}, err
	}

	log.WithFields(logrus.Fields{"recipe_id": id, "author_id": editorID}).Info("Recipe updated")
	return s.representOne(s.db.WithContext(ctx), recipe, editorID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id, editorID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			return recipeLookupError(id, err)
		}
		if recipe.AuthorID != editorID {
			return fmt.Errorf("recipe %d: %w", id, ErrForbidden)
		}

		dependents := []interface{}{
			&models.RecipeIngredient{},
			&models.RecipeTag{},
			&models.Favorite{},
			&models.ShoppingCartEntry{},
		}
		for _, model := range dependents {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("delete dependents of recipe %d: %w", id, err)
			}
		}
		if err := tx.Delete(&recipe).Error; err != nil {
			return fmt.Errorf("delete recipe %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{"recipe_id": id, "author_id": editorID}).Info("Recipe deleted")
	return nil
}

func preloadRecipe(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

func loadRecipe(db *gorm.DB, id uint) (models.Recipe, error) {
	var recipe models.Recipe
	if err := preloadRecipe(db).First(&recipe, id).Error; err != nil {
		return recipe, recipeLookupError(id, err)
	}
	return recipe, nil
}

// checkReferences makes sure every tag and ingredient id exists and no
// ingredient is listed twice
func checkReferences(tx *gorm.DB, tagIDs []uint, lines []models.IngredientLineInput) error {
	tags := uniqueIDs(tagIDs)
	if len(tags) > 0 {
		var count int64
		if err := tx.Model(&models.Tag{}).Where("id IN ?", tags).Count(&count).Error; err != nil {
			return fmt.Errorf("check tags: %w", err)
		}
		if count != int64(len(tags)) {
			return NewValidationError("tags", "one or more tags do not exist")
		}
	}

	ingredientIDs := make([]uint, len(lines))
	for i, line := range lines {
		ingredientIDs[i] = line.ID
	}
	ingredients := uniqueIDs(ingredientIDs)
	if len(ingredients) != len(ingredientIDs) {
		return NewValidationError("ingredients", "an ingredient may be listed only once")
	}
	if len(ingredients) > 0 {
		var count int64
		if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ingredients).Count(&count).Error; err != nil {
			return fmt.Errorf("check ingredients: %w", err)
		}
		if count != int64(len(ingredients)) {
			return NewValidationError("ingredients", "one or more ingredients do not exist")
		}
	}
	return nil
}

// replaceTags resets the recipe's tags to exactly tagIDs
func replaceTags(tx *gorm.DB, recipeID uint, tagIDs []uint) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return fmt.Errorf("clear tags of recipe %d: %w", recipeID, err)
	}
	ids := uniqueIDs(tagIDs)
	if len(ids) == 0 {
		return nil
	}
	rows := make([]models.RecipeTag, len(ids))
	for i, id := range ids {
		rows[i] = models.RecipeTag{RecipeID: recipeID, TagID: id}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("attach tags to recipe %d: %w", recipeID, err)
	}
	return nil
}

// replaceIngredients deletes every ingredient line of the recipe and inserts
// lines in their place
func replaceIngredients(tx *gorm.DB, recipeID uint, lines []models.IngredientLineInput) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("clear ingredients of recipe %d: %w", recipeID, err)
	}
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.RecipeIngredient, len(lines))
	for i, line := range lines {
		rows[i] = models.RecipeIngredient{RecipeID: recipeID, IngredientID: line.ID, Amount: line.Amount}
	}
	if err := tx.Omit("Ingredient").Create(&rows).Error; err != nil {
		return fmt.Errorf("add ingredients to recipe %d: %w", recipeID, err)
	}
	return nil
}

func (s *recipeService) representOne(db *gorm.DB, recipe models.Recipe, viewerID uint) (models.RecipeResponse, error) {
	responses, err := s.represent(db, []models.Recipe{recipe}, viewerID)
	if err != nil {
		return models.RecipeResponse{}, err
	}
	return responses[0], nil
}

// represent builds viewer-specific responses for a batch of preloaded recipes
func (s *recipeService) represent(db *gorm.DB, recipes []models.Recipe, viewerID uint) ([]models.RecipeResponse, error) {
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs[i] = r.AuthorID
	}

	favorited, err := favorites.targetIDs(db, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := shoppingCart.targetIDs(db, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	followed, err := subscriptions.targetIDs(db, viewerID, uniqueIDs(authorIDs))
	if err != nil {
		return nil, err
	}

	responses := make([]models.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		lines := make([]models.RecipeIngredientResponse, 0, len(r.Ingredients))
		for _, line := range r.Ingredients {
			lines = append(lines, models.RecipeIngredientResponse{
				ID:              line.Ingredient.ID,
				Name:            line.Ingredient.Name,
				MeasurementUnit: line.Ingredient.MeasurementUnit,
				Amount:          line.Amount,
			})
		}
		tags := r.Tags
		if tags == nil {
			tags = []models.Tag{}
		}
		responses = append(responses, models.RecipeResponse{
			ID:               r.ID,
			Tags:             tags,
			Author:           models.NewUserResponse(r.Author, followed[r.AuthorID]),
			Ingredients:      lines,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		})
	}
	return responses, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}
