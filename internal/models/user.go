package models

import (
	"time"
)

// Roles a user can hold. Admins may extend the ingredient and tag catalogs.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:254;uniqueIndex;not null"`
	Username     string `gorm:"size:150;uniqueIndex;not null"`
	FirstName    string `gorm:"size:150;not null"`
	LastName     string `gorm:"size:150;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"size:16;default:'user'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserResponse is the public representation of a user as seen by the viewer
type UserResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// NewUserResponse builds the public view of user
func NewUserResponse(user User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

// RegisterUserInput is the payload accepted by the registration endpoint
type RegisterUserInput struct {
	Email     string `json:"email" binding:"required" validate:"required,email,max=254"`
	Username  string `json:"username" binding:"required" validate:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required" validate:"required,max=150"`
	LastName  string `json:"last_name" binding:"required" validate:"required,max=150"`
	Password  string `json:"password" binding:"required" validate:"required,min=8,max=150"`
}

// SetPasswordInput changes the password of the authenticated user
type SetPasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required" validate:"required"`
	NewPassword     string `json:"new_password" binding:"required" validate:"required,min=8,max=150"`
}
