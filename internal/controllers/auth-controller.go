package controllers

import (
	"context"
	"net/http"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/go-oauth2/oauth2/v4"
)

// TokenIssuer creates and revokes access tokens
type TokenIssuer interface {
	IssueToken(ctx context.Context, user *models.User) (oauth2.TokenInfo, error)
	RevokeToken(ctx context.Context, access string) error
}

// LoginRequest is the body of the login endpoint
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the issued access token
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

type AuthController struct {
	userService services.UserService
	tokens      TokenIssuer
}

func NewAuthController(userService services.UserService, tokens TokenIssuer) *AuthController {
	return &AuthController{
		userService: userService,
		tokens:      tokens,
	}
}

// Login godoc
// @Summary Obtain an access token
// @Description Exchange email and password for an access token. Send it back as "Authorization: Token <auth_token>".
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "User credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} models.APIError
// @Router /api/auth/token/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	user, err := ac.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tokenInfo, err := ac.tokens.IssueToken(c.Request.Context(), user)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AuthToken: tokenInfo.GetAccess()})
}

// Logout godoc
// @Summary Revoke the current access token
// @Tags auth
// @Success 204
// @Failure 401 {object} map[string]string
// @Security TokenAuth
// @Router /api/auth/token/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	access := c.GetString(middleware.AccessTokenKey)
	if access == "" {
		c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "User not authenticated"))
		return
	}

	if err := ac.tokens.RevokeToken(c.Request.Context(), access); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
