package services

import (
	"context"
	"errors"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerInput(email, username string) models.RegisterUserInput {
	return models.RegisterUserInput{
		Email:     email,
		Username:  username,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "correct-horse",
	}
}

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewUserService(db)

	user, err := service.Register(ctx, registerInput(" Ada@Example.com ", "ada"))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := service.Register(ctx, registerInput("ada@example.com", "other"))
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := service.Register(ctx, registerInput("other@example.com", "ada"))
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("invalid input", func(t *testing.T) {
		input := registerInput("not-an-email", "bad name")
		input.Password = "short"
		_, err := service.Register(ctx, input)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve), "got %v", err)
		assert.Contains(t, ve.Fields, "email")
		assert.Contains(t, ve.Fields, "username")
		assert.Contains(t, ve.Fields, "password")
	})
}

func TestAuthenticateAndSetPassword(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewUserService(db)
	registered, err := service.Register(ctx, registerInput("cook@example.com", "cook"))
	require.NoError(t, err)

	t.Run("valid credentials, email case ignored", func(t *testing.T) {
		user, err := service.Authenticate(ctx, "COOK@example.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Authenticate(ctx, "cook@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := service.Authenticate(ctx, "nobody@example.com", "correct-horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("set password requires the current one", func(t *testing.T) {
		err := service.SetPassword(ctx, registered.ID, models.SetPasswordInput{CurrentPassword: "wrong", NewPassword: "battery-staple"})
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), "got %v", err)
		assert.Contains(t, ve.Fields, "current_password")
	})

	t.Run("set password", func(t *testing.T) {
		err := service.SetPassword(ctx, registered.ID, models.SetPasswordInput{CurrentPassword: "correct-horse", NewPassword: "battery-staple"})
		require.NoError(t, err)

		_, err = service.Authenticate(ctx, "cook@example.com", "correct-horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = service.Authenticate(ctx, "cook@example.com", "battery-staple")
		assert.NoError(t, err)
	})
}

func TestProfiles(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewUserService(db)
	viewer := createUser(t, db, "viewer")
	chef := createUser(t, db, "chef")
	createUser(t, db, "third")

	_, err := NewSubscriptionService(db).Subscribe(ctx, viewer.ID, chef.ID, 0)
	require.NoError(t, err)

	t.Run("profile shows the subscription flag", func(t *testing.T) {
		profile, err := service.GetProfile(ctx, chef.ID, viewer.ID)
		require.NoError(t, err)
		assert.True(t, profile.IsSubscribed)

		anonymous, err := service.GetProfile(ctx, chef.ID, 0)
		require.NoError(t, err)
		assert.False(t, anonymous.IsSubscribed)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := service.GetProfile(ctx, 9999, 0)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list is paginated", func(t *testing.T) {
		page, err := service.ListProfiles(ctx, viewer.ID, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Count)
		require.Len(t, page.Results, 2)
		assert.Equal(t, viewer.ID, page.Results[0].ID)
		assert.True(t, page.Results[1].IsSubscribed)
	})
}
