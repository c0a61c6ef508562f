package controllers

import (
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

// parseID reads a positive numeric path parameter, answering 400 otherwise
func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid "+name+" format"))
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional non-negative integer query parameter
func queryInt(ctx *gin.Context, name string, defaultValue int) (int, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return defaultValue, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, "Invalid query parameter",
			map[string]interface{}{name: "must be a non-negative integer"}))
		return 0, false
	}
	return value, true
}

// queryFlag treats "1" and "true" as set; anything else leaves the filter off
func queryFlag(ctx *gin.Context, name string) bool {
	switch ctx.Query(name) {
	case "1", "true", "True":
		return true
	default:
		return false
	}
}

// pagination reads page and limit; limit falls back to defaultLimit and is
// capped at maxPageSize
func pagination(ctx *gin.Context, defaultLimit int) (page, limit int, ok bool) {
	if page, ok = queryInt(ctx, "page", 1); !ok {
		return 0, 0, false
	}
	if limit, ok = queryInt(ctx, "limit", defaultLimit); !ok {
		return 0, 0, false
	}
	if page < 1 {
		page = 1
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit, true
}

// requireUser returns the authenticated user id or answers 401
func requireUser(ctx *gin.Context) (uint, bool) {
	userID := middleware.CurrentUserID(ctx)
	if userID == 0 {
		ctx.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "User not authenticated"))
		return 0, false
	}
	return userID, true
}
