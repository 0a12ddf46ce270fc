package user

import (
	"errors"
	"fmt"
	"strings"

	userRepo "remindcall/database/repository/user"
	"remindcall/models"
	"remindcall/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvalidEmailError signals a malformed or missing email address.
type InvalidEmailError struct {
	Email string
}

func (e InvalidEmailError) Error() string {
	return fmt.Sprintf("invalid email format: %q", e.Email)
}

// ErrEmailTaken signals that the email is already registered.
var ErrEmailTaken = errors.New("email already exists")

// RegisterUser creates a user from an email address.
func (s *DefaultUserService) RegisterUser(email string) (*models.User, error) {
	logger := utils.GetLogger()

	email = strings.ToLower(strings.TrimSpace(email))
	if !utils.IsValidEmail(email) {
		return nil, InvalidEmailError{Email: email}
	}

	// Friendly duplicate check; the unique email index still backstops
	// concurrent registrations.
	existing, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	usr := &models.User{
		ID:    uuid.New().String(),
		Email: email,
	}
	if err := s.Repo.Create(usr); err != nil {
		if errors.Is(err, userRepo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logger.Info("user created", zap.String("userId", usr.ID), zap.String("email", usr.Email))
	return usr, nil
}

// GetUserByID retrieves a user; (nil, nil) when the user does not exist.
func (s *DefaultUserService) GetUserByID(userID string) (*models.User, error) {
	return s.Repo.GetByID(userID)
}

// GetAllUsers retrieves all users.
func (s *DefaultUserService) GetAllUsers() ([]models.User, error) {
	return s.Repo.GetAll()
}
