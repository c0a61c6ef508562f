package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	// Register creates an account with a bcrypt-hashed password
	Register(ctx context.Context, input models.RegisterUserInput) (*models.User, error)
	// Authenticate returns the user when email and password match
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	// SetPassword replaces the password after checking the current one
	SetPassword(ctx context.Context, userID uint, input models.SetPasswordInput) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetProfile returns the public view of a user for the given viewer
	GetProfile(ctx context.Context, id, viewerID uint) (models.UserResponse, error)
	// ListProfiles returns a page of users ordered by id
	ListProfiles(ctx context.Context, viewerID uint, page, limit int) (models.Page[models.UserResponse], error)
}

type userService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

func (s *userService) Register(ctx context.Context, input models.RegisterUserInput) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validateInput(input); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        input.Email,
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("email = ? OR username = ?", user.Email, user.Username).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check existing user: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("user %q: %w", user.Email, ErrAlreadyExists)
		}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("user %q: %w", user.Email, ErrAlreadyExists)
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) SetPassword(ctx context.Context, userID uint, input models.SetPasswordInput) error {
	if err := validateInput(input); err != nil {
		return err
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return NewValidationError("current_password", "password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("look up user %d: %w", id, err)
	}
	return &user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("look up user %q: %w", email, err)
	}
	return &user, nil
}

func (s *userService) GetProfile(ctx context.Context, id, viewerID uint) (models.UserResponse, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return models.UserResponse{}, err
	}
	followed, err := subscriptions.targetIDs(s.db.WithContext(ctx), viewerID, []uint{user.ID})
	if err != nil {
		return models.UserResponse{}, err
	}
	return models.NewUserResponse(*user, followed[user.ID]), nil
}

func (s *userService) ListProfiles(ctx context.Context, viewerID uint, page, limit int) (models.Page[models.UserResponse], error) {
	db := s.db.WithContext(ctx)
	result := models.Page[models.UserResponse]{Results: []models.UserResponse{}}

	if err := db.Model(&models.User{}).Count(&result.Count).Error; err != nil {
		return result, fmt.Errorf("count users: %w", err)
	}

	var users []models.User
	if err := db.Scopes(Paginate(page, limit)).Order("id").Find(&users).Error; err != nil {
		return result, fmt.Errorf("list users: %w", err)
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	followed, err := subscriptions.targetIDs(db, viewerID, ids)
	if err != nil {
		return result, err
	}
	for _, u := range users {
		result.Results = append(result.Results, models.NewUserResponse(u, followed[u.ID]))
	}
	return result, nil
}
