package reminder

import (
	"fmt"
	"strings"
	"time"

	"remindcall/models"
	"remindcall/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ValidationError signals a client-supplied field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (s *DefaultReminderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateReminder validates and stores a new reminder in the scheduled state.
func (s *DefaultReminderService) CreateReminder(in CreateReminderInput) (*models.Reminder, error) {
	logger := utils.GetLogger()

	if in.UserID == "" {
		return nil, ValidationError{Field: "user_id", Reason: "required"}
	}
	if !utils.IsValidPhoneNumber(in.PhoneNumber) {
		return nil, ValidationError{Field: "phone_number", Reason: "must be E.164, e.g. +1234567890"}
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, ValidationError{Field: "message", Reason: "required"}
	}
	scheduledAt, ok := utils.ParseFutureTime(in.ScheduledAt, s.now())
	if !ok {
		return nil, ValidationError{Field: "scheduled_at", Reason: "must be a future RFC 3339 datetime"}
	}

	usr, err := s.Users.GetByID(in.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}
	if usr == nil {
		return nil, ValidationError{Field: "user_id", Reason: "user not found"}
	}

	rem := &models.Reminder{
		ID:          uuid.New().String(),
		UserID:      in.UserID,
		PhoneNumber: in.PhoneNumber,
		Message:     strings.TrimSpace(in.Message),
		ScheduledAt: scheduledAt,
		Status:      models.StatusScheduled,
	}
	if err := s.Repo.Create(rem); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	logger.Info("reminder created",
		zap.String("reminderId", rem.ID),
		zap.String("userId", rem.UserID),
		zap.Time("scheduledAt", rem.ScheduledAt))
	return rem, nil
}

// GetReminderDetail returns the reminder with its call logs.
func (s *DefaultReminderService) GetReminderDetail(id string) (*models.ReminderDetail, error) {
	rem, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rem == nil {
		return nil, nil
	}

	logs, err := s.CallLogs.ListByReminder(rem.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load call logs: %w", err)
	}
	return &models.ReminderDetail{Reminder: *rem, CallLogs: logs}, nil
}

// ListUserReminders returns a page of a user's reminders.
func (s *DefaultReminderService) ListUserReminders(userID, status string, page, pageSize int) ([]models.Reminder, error) {
	st := models.ReminderStatus(status)
	if status != "" && !st.Valid() {
		return nil, ValidationError{Field: "status", Reason: "unknown status"}
	}
	return s.Repo.ListByUser(userID, st, page, pageSize)
}
