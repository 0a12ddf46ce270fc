package calllogRepo

import (
	"sort"
	"sync"
	"time"

	"remindcall/models"
)

// MemoryCallLogRepo is an in-memory CallLogRepository for tests and local
// runs without a database.
type MemoryCallLogRepo struct {
	mu   sync.Mutex
	logs []models.CallLog
}

// NewMemoryCallLogRepo creates an empty in-memory call log repository.
func NewMemoryCallLogRepo() *MemoryCallLogRepo {
	return &MemoryCallLogRepo{}
}

func (r *MemoryCallLogRepo) CreateIfAbsent(log *models.CallLog) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.logs {
		if l.ExternalCallID == log.ExternalCallID && l.Provider == log.Provider {
			return false, nil
		}
	}
	if log.ReceivedAt.IsZero() {
		log.ReceivedAt = time.Now()
	}
	r.logs = append(r.logs, *log)
	return true, nil
}

func (r *MemoryCallLogRepo) GetByExternalCallID(externalCallID string, provider models.CallProvider) (*models.CallLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.logs {
		if l.ExternalCallID == externalCallID && l.Provider == provider {
			out := l
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MemoryCallLogRepo) ListByReminder(reminderID string) ([]models.CallLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.CallLog
	for _, l := range r.logs {
		if l.ReminderID == reminderID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ReceivedAt.Before(out[j].ReceivedAt)
	})
	return out, nil
}
