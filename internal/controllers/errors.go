package controllers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)

	// Report binding errors with JSON field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// respondWithError maps a service error onto its HTTP status and APIError body
func respondWithError(ctx *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		details := make(map[string]interface{}, len(validationErr.Fields))
		for field, msg := range validationErr.Fields {
			details[field] = msg
		}
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, "Invalid input", details))
	case errors.Is(err, services.ErrNotFound):
		ctx.JSON(http.StatusNotFound, models.NewAPIError(models.ErrNotFound, err.Error()))
	case errors.Is(err, services.ErrAlreadyExists):
		ctx.JSON(http.StatusConflict, models.NewAPIError(models.ErrAlreadyExists, err.Error()))
	case errors.Is(err, services.ErrLinkNotFound):
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrLinkNotFound, err.Error()))
	case errors.Is(err, services.ErrSelfReference):
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrSelfReference, err.Error()))
	case errors.Is(err, services.ErrForbidden):
		ctx.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, err.Error()))
	case errors.Is(err, services.ErrInvalidCredentials):
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrInvalidCredentials, "Unable to log in with provided credentials"))
	default:
		log.WithError(err).WithField("path", ctx.Request.URL.Path).Error("Unexpected error")
		ctx.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Internal server error"))
	}
}

// respondWithBindError reports a request body that could not be decoded or
// failed its binding rules
func respondWithBindError(ctx *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]interface{}, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fe.Field()] = "failed on " + fe.Tag()
		}
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, "Invalid input", details))
		return
	}
	ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
}
