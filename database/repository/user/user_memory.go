package userRepo

import (
	"sync"
	"time"

	"remindcall/models"
)

// MemoryUserRepo is an in-memory UserRepository for tests and local runs
// without a database.
type MemoryUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
}

// NewMemoryUserRepo creates an empty in-memory user repository.
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]models.User)}
}

func (r *MemoryUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepo) GetByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		out := u
		return &out, nil
	}
	return nil, nil
}

func (r *MemoryUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepo) GetAll() ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}
