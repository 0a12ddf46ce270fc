package reminder

import (
	calllogRepo "remindcall/database/repository/calllog"
	reminderRepo "remindcall/database/repository/reminder"
	userRepo "remindcall/database/repository/user"
	"remindcall/models"
	"time"
)

// CreateReminderInput is the raw creation request before validation.
type CreateReminderInput struct {
	UserID      string
	PhoneNumber string
	Message     string
	ScheduledAt string
}

type ReminderService interface {
	// CreateReminder validates the input (E.164 phone number, strictly
	// future timestamp, existing user) and stores the reminder in the
	// "scheduled" state.
	CreateReminder(in CreateReminderInput) (*models.Reminder, error)
	// GetReminderDetail returns the reminder with its call logs; (nil, nil)
	// when absent.
	GetReminderDetail(id string) (*models.ReminderDetail, error)
	// ListUserReminders returns a page of a user's reminders, newest
	// scheduled first, optionally filtered by status.
	ListUserReminders(userID, status string, page, pageSize int) ([]models.Reminder, error)
}

// DefaultReminderService is the production implementation.
type DefaultReminderService struct {
	Repo     reminderRepo.ReminderRepository
	Users    userRepo.UserRepository
	CallLogs calllogRepo.CallLogRepository
	// Now is the clock used for the future-instant check; defaults to
	// time.Now when nil.
	Now func() time.Time
}
