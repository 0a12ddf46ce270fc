package reminderRepo

import (
	"time"

	"remindcall/models"
)

// ReminderRepository defines methods for reminder data access.
type ReminderRepository interface {
	// Create inserts a new reminder record.
	Create(reminder *models.Reminder) error
	// GetByID retrieves a reminder by its unique ID; (nil, nil) when absent.
	GetByID(id string) (*models.Reminder, error)
	// GetByExternalCallID retrieves the reminder whose outbound call was
	// assigned the given provider call identifier; (nil, nil) when absent.
	GetByExternalCallID(externalCallID string) (*models.Reminder, error)
	// ListByUser retrieves a user's reminders, newest scheduled first, with
	// an optional status filter and 1-based pagination.
	ListByUser(userID string, status models.ReminderStatus, page, pageSize int) ([]models.Reminder, error)
	// FindDue retrieves up to limit reminders with status "scheduled" and
	// scheduledAt <= now, earliest-due first.
	FindDue(now time.Time, limit int) ([]models.Reminder, error)
	// UpdateStatus sets the reminder's status unconditionally and, when
	// externalCallID is non-empty, records it as the call join key.
	UpdateStatus(id string, status models.ReminderStatus, externalCallID string) error
	// UpdateStatusIf sets the reminder's status only while its current
	// status is one of from. Returns whether the update was applied, so a
	// stale webhook can never overwrite a terminal state.
	UpdateStatusIf(id string, to models.ReminderStatus, from ...models.ReminderStatus) (bool, error)
}
