// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrEmailAlreadyExists indicates that the user with the given email already exists.
	ErrEmailAlreadyExists = errors.New("Email has been used")
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("User tidak ditemukan")
	// ErrWrongCredentials indicates unknown email or wrong password.
	ErrWrongCredentials = errors.New("Username atau password salah")
	// ErrInvalidImageFormat indicates that the uploaded profile image is neither jpeg nor png.
	ErrInvalidImageFormat = errors.New("Format Image tidak sesuai")
)

// User holds user data.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	HashedPassword string    `json:"-"`
	ProfileImage   string    `json:"profile_image"`
	Balance        int64     `json:"balance"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateUserParams is the input data to create a user.
type CreateUserParams struct {
	Email          string
	FirstName      string
	LastName       string
	HashedPassword string
}

// UpdateProfileParams is the input data to change user names.
type UpdateProfileParams struct {
	UserID    int64
	FirstName string
	LastName  string
}

// Profile is User data exposed to its owner.
type Profile struct {
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	ProfileImage string `json:"profile_image"`
}

// NewProfile returns user data without sensitive and internal fields.
func NewProfile(u User) Profile {
	return Profile{
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfileImage: u.ProfileImage,
	}
}
