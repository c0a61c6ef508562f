package controllers

import (
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/metrics"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ShoppingListFilename is the attachment name of the downloaded shopping list
const ShoppingListFilename = "shopping-list.txt"

// RecipeController handles HTTP requests related to recipes
type RecipeController interface {
	// ListRecipes retrieves a filtered page of recipes
	ListRecipes(c *gin.Context)
	// GetRecipe retrieves a recipe by its ID
	GetRecipe(c *gin.Context)
	// CreateRecipe creates a new recipe
	CreateRecipe(c *gin.Context)
	// UpdateRecipe patches a recipe owned by the caller
	UpdateRecipe(c *gin.Context)
	// DeleteRecipe deletes a recipe owned by the caller
	DeleteRecipe(c *gin.Context)
	AddFavorite(c *gin.Context)
	RemoveFavorite(c *gin.Context)
	AddToShoppingCart(c *gin.Context)
	RemoveFromShoppingCart(c *gin.Context)
	// DownloadShoppingCart returns the aggregated ingredient list as a text file
	DownloadShoppingCart(c *gin.Context)
}

type recipeController struct {
	recipes      services.RecipeService
	favorites    services.RecipeCollectionService
	shoppingCart services.RecipeCollectionService
	shoppingList services.ShoppingListService
	pageSize     int
}

// NewRecipeController creates a new instance of RecipeController
func NewRecipeController(
	recipes services.RecipeService,
	favorites services.RecipeCollectionService,
	shoppingCart services.RecipeCollectionService,
	shoppingList services.ShoppingListService,
	pageSize int,
) RecipeController {
	return &recipeController{
		recipes:      recipes,
		favorites:    favorites,
		shoppingCart: shoppingCart,
		shoppingList: shoppingList,
		pageSize:     pageSize,
	}
}

// ListRecipes godoc
// @Summary List recipes
// @Description Newest first. Favorite and shopping cart filters apply to authenticated users only.
// @Tags recipes
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Param author query int false "Author ID"
// @Param tags query []string false "Tag slugs, any match" collectionFormat(multi)
// @Param is_favorited query int false "1 to keep favorites only"
// @Param is_in_shopping_cart query int false "1 to keep shopping cart recipes only"
// @Success 200 {object} models.Page[models.RecipeResponse]
// @Failure 400 {object} models.APIError
// @Router /api/recipes [get]
func (rc *recipeController) ListRecipes(c *gin.Context) {
	page, limit, ok := pagination(c, rc.pageSize)
	if !ok {
		return
	}

	filter := services.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      queryFlag(c, "is_favorited"),
		IsInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
		Page:             page,
		Limit:            limit,
	}
	if author := c.Query("author"); author != "" {
		authorID, err := strconv.ParseUint(author, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, "Invalid query parameter",
				map[string]interface{}{"author": "must be a user id"}))
			return
		}
		filter.AuthorID = uint(authorID)
	}

	result, err := rc.recipes.ListRecipes(c.Request.Context(), filter, middleware.CurrentUserID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetRecipe godoc
// @Summary Get recipe by ID
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.RecipeResponse
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/recipes/{id} [get]
func (rc *recipeController) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	recipe, err := rc.recipes.GetRecipe(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe godoc
// @Summary Create a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param recipe body models.RecipeInput true "Recipe"
// @Success 201 {object} models.RecipeResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} map[string]string
// @Security TokenAuth
// @Router /api/recipes [post]
func (rc *recipeController) CreateRecipe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input models.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondWithBindError(c, err)
		return
	}

	recipe, err := rc.recipes.CreateRecipe(c.Request.Context(), userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe godoc
// @Summary Update a recipe
// @Description Only the author may update a recipe. Tags and ingredients are replaced.
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param recipe body models.RecipeUpdateInput true "Changed fields"
// @Success 200 {object} models.RecipeResponse
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipes/{id} [patch]
func (rc *recipeController) UpdateRecipe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input models.RecipeUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondWithBindError(c, err)
		return
	}

	recipe, err := rc.recipes.UpdateRecipe(c.Request.Context(), id, userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe godoc
// @Summary Delete a recipe
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipes/{id} [delete]
func (rc *recipeController) DeleteRecipe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := rc.recipes.DeleteRecipe(c.Request.Context(), id, userID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddFavorite godoc
// @Summary Add a recipe to favorites
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} models.RecipeSummary
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipes/{id}/favorite [post]
func (rc *recipeController) AddFavorite(c *gin.Context) {
	rc.addToCollection(c, rc.favorites)
}

// RemoveFavorite godoc
// @Summary Remove a recipe from favorites
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} models.APIError "Recipe is not a favorite"
// @Failure 404 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipes/{id}/favorite [delete]
func (rc *recipeController) RemoveFavorite(c *gin.Context) {
	rc.removeFromCollection(c, rc.favorites)
}

// AddToShoppingCart godoc
// @Summary Add a recipe to the shopping cart
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} models.RecipeSummary
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipes/{id}/shopping_cart [post]
func (rc *recipeController) AddToShoppingCart(c *gin.Context) {
	rc.addToCollection(c, rc.shoppingCart)
}

// RemoveFromShoppingCart godoc
// @Summary Remove a recipe from the shopping cart
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} models.APIError "Recipe is not in the cart"
// @Failure 404 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipes/{id}/shopping_cart [delete]
func (rc *recipeController) RemoveFromShoppingCart(c *gin.Context) {
	rc.removeFromCollection(c, rc.shoppingCart)
}

// DownloadShoppingCart godoc
// @Summary Download the shopping list
// @Description Ingredients of every recipe in the cart, summed per name and unit
// @Tags recipes
// @Produce plain
// @Success 200 {string} string "Shopping list"
// @Security TokenAuth
// @Router /api/recipes/download_shopping_cart [get]
func (rc *recipeController) DownloadShoppingCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	list, err := rc.shoppingList.BuildShoppingList(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	metrics.RecordShoppingListDownload()
	c.Header("Content-Disposition", `attachment; filename="`+ShoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(list))
}

func (rc *recipeController) addToCollection(c *gin.Context, collection services.RecipeCollectionService) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	recipeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	summary, err := collection.Add(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

func (rc *recipeController) removeFromCollection(c *gin.Context, collection services.RecipeCollectionService) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	recipeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := collection.Remove(c.Request.Context(), userID, recipeID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
