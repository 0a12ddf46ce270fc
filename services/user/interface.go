package user

import (
	userRepo "remindcall/database/repository/user"
	"remindcall/models"
)

type UserService interface {
	// RegisterUser creates a user from an email address. The email is
	// normalized to lowercase before storage.
	RegisterUser(email string) (*models.User, error)
	GetUserByID(userID string) (*models.User, error)
	GetAllUsers() ([]models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}
