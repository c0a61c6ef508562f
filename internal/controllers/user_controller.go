package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
)

// UserController serves accounts, profiles and subscriptions
type UserController struct {
	users         services.UserService
	subscriptions services.SubscriptionService
	pageSize      int
}

func NewUserController(users services.UserService, subscriptions services.SubscriptionService, pageSize int) *UserController {
	return &UserController{users: users, subscriptions: subscriptions, pageSize: pageSize}
}

// Register godoc
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.RegisterUserInput true "New account"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Router /api/users [post]
func (uc *UserController) Register(c *gin.Context) {
	var input models.RegisterUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondWithBindError(c, err)
		return
	}

	user, err := uc.users.Register(c.Request.Context(), input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewUserResponse(*user, false))
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} models.Page[models.UserResponse]
// @Router /api/users [get]
func (uc *UserController) ListUsers(c *gin.Context) {
	page, limit, ok := pagination(c, uc.pageSize)
	if !ok {
		return
	}

	result, err := uc.users.ListProfiles(c.Request.Context(), middleware.CurrentUserID(c), page, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetUser godoc
// @Summary Get a user profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} models.APIError
// @Router /api/users/{id} [get]
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	profile, err := uc.users.GetProfile(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Me godoc
// @Summary Get the current user
// @Tags users
// @Produce json
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} map[string]string
// @Security TokenAuth
// @Router /api/users/me [get]
func (uc *UserController) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := uc.users.GetProfile(c.Request.Context(), userID, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SetPassword godoc
// @Summary Change the current user's password
// @Tags users
// @Accept json
// @Param passwords body models.SetPasswordInput true "Current and new password"
// @Success 204
// @Failure 400 {object} models.APIError
// @Security TokenAuth
// @Router /api/users/set_password [post]
func (uc *UserController) SetPassword(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input models.SetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondWithBindError(c, err)
		return
	}

	if err := uc.users.SetPassword(c.Request.Context(), userID, input); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSubscriptions godoc
// @Summary List followed authors
// @Description Authors the current user follows, each with their newest recipes
// @Tags users
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Recipes shown per author"
// @Success 200 {object} models.Page[models.SubscriptionResponse]
// @Security TokenAuth
// @Router /api/users/subscriptions [get]
func (uc *UserController) ListSubscriptions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	page, limit, ok := pagination(c, uc.pageSize)
	if !ok {
		return
	}
	recipesLimit, ok := queryInt(c, "recipes_limit", 0)
	if !ok {
		return
	}

	result, err := uc.subscriptions.ListSubscriptions(c.Request.Context(), userID, page, limit, recipesLimit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Subscribe godoc
// @Summary Follow an author
// @Tags users
// @Produce json
// @Param id path int true "Author ID"
// @Param recipes_limit query int false "Recipes shown in the response"
// @Success 201 {object} models.SubscriptionResponse
// @Failure 400 {object} models.APIError "Subscribing to yourself"
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security TokenAuth
// @Router /api/users/{id}/subscribe [post]
func (uc *UserController) Subscribe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipesLimit, ok := queryInt(c, "recipes_limit", 0)
	if !ok {
		return
	}

	response, err := uc.subscriptions.Subscribe(c.Request.Context(), userID, authorID, recipesLimit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

// Unsubscribe godoc
// @Summary Stop following an author
// @Tags users
// @Param id path int true "Author ID"
// @Success 204
// @Failure 400 {object} models.APIError "Not subscribed"
// @Failure 404 {object} models.APIError
// @Security TokenAuth
// @Router /api/users/{id}/subscribe [delete]
func (uc *UserController) Unsubscribe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := uc.subscriptions.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
