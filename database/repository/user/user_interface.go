package userRepo

import (
	"errors"

	"remindcall/models"
)

// ErrDuplicateEmail is returned by Create when the email is already registered.
var ErrDuplicateEmail = errors.New("email already exists")

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a new user record. Returns ErrDuplicateEmail when the
	// unique email index rejects the insert.
	Create(user *models.User) error
	// GetByID retrieves a user by its unique ID; (nil, nil) when absent.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address; (nil, nil) when absent.
	GetByEmail(email string) (*models.User, error)
	// GetAll retrieves all users.
	GetAll() ([]models.User, error)
}
