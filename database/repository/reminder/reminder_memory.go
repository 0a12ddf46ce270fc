package reminderRepo

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"remindcall/models"
)

// MemoryReminderRepo is an in-memory ReminderRepository for tests and local
// runs without a database.
type MemoryReminderRepo struct {
	mu        sync.Mutex
	reminders map[string]models.Reminder
}

// NewMemoryReminderRepo creates an empty in-memory reminder repository.
func NewMemoryReminderRepo() *MemoryReminderRepo {
	return &MemoryReminderRepo{reminders: make(map[string]models.Reminder)}
}

func (r *MemoryReminderRepo) Create(reminder *models.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	reminder.CreatedAt = now
	reminder.UpdatedAt = now
	r.reminders[reminder.ID] = *reminder
	return nil
}

func (r *MemoryReminderRepo) GetByID(id string) (*models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rem, ok := r.reminders[id]; ok {
		out := rem
		return &out, nil
	}
	return nil, nil
}

func (r *MemoryReminderRepo) GetByExternalCallID(externalCallID string) (*models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rem := range r.reminders {
		if rem.ExternalCallID != "" && rem.ExternalCallID == externalCallID {
			out := rem
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MemoryReminderRepo) ListByUser(userID string, status models.ReminderStatus, page, pageSize int) ([]models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 25
	}

	var out []models.Reminder
	for _, rem := range r.reminders {
		if rem.UserID != userID {
			continue
		}
		if status != "" && rem.Status != status {
			continue
		}
		out = append(out, rem)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.After(out[j].ScheduledAt)
	})

	start := (page - 1) * pageSize
	if start >= len(out) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (r *MemoryReminderRepo) FindDue(now time.Time, limit int) ([]models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []models.Reminder
	for _, rem := range r.reminders {
		if rem.Status == models.StatusScheduled && !rem.ScheduledAt.After(now) {
			due = append(due, rem)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].ScheduledAt.Before(due[j].ScheduledAt)
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *MemoryReminderRepo) UpdateStatus(id string, status models.ReminderStatus, externalCallID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rem, ok := r.reminders[id]
	if !ok {
		return fmt.Errorf("reminder with id %s not found", id)
	}
	rem.Status = status
	if externalCallID != "" {
		rem.ExternalCallID = externalCallID
	}
	rem.UpdatedAt = time.Now()
	r.reminders[id] = rem
	return nil
}

func (r *MemoryReminderRepo) UpdateStatusIf(id string, to models.ReminderStatus, from ...models.ReminderStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rem, ok := r.reminders[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, f := range from {
		if rem.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	rem.Status = to
	rem.UpdatedAt = time.Now()
	r.reminders[id] = rem
	return true, nil
}
