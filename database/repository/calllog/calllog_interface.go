package calllogRepo

import "remindcall/models"

// CallLogRepository defines methods for call log data access.
//
// Idempotency lives here: the store enforces a unique (externalCallId,
// provider) pair, and CreateIfAbsent surfaces the conflict as a non-error
// "already recorded" result instead of a duplicate-key failure.
type CallLogRepository interface {
	// CreateIfAbsent inserts the log unless one with the same
	// (externalCallId, provider) pair already exists. Returns whether the
	// insert happened.
	CreateIfAbsent(log *models.CallLog) (bool, error)
	// GetByExternalCallID retrieves the log for the given idempotency key;
	// (nil, nil) when absent.
	GetByExternalCallID(externalCallID string, provider models.CallProvider) (*models.CallLog, error)
	// ListByReminder retrieves all logs for a reminder, oldest first.
	ListByReminder(reminderID string) ([]models.CallLog, error)
}
