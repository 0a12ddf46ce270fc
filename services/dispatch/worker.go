package dispatch

import (
	"context"
	"fmt"
	"time"

	calllogRepo "remindcall/database/repository/calllog"
	reminderRepo "remindcall/database/repository/reminder"
	"remindcall/models"
	"remindcall/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CallPlacer creates an outbound voice call for a reminder. Both provider
// clients (twilio, vapi) satisfy it.
type CallPlacer interface {
	PlaceCall(ctx context.Context, phoneNumber, message, reminderID string) (models.CallResult, error)
}

const (
	// DefaultBatchSize bounds how many due reminders one tick dispatches.
	DefaultBatchSize = 50
	// DefaultInterval is the polling period between ticks.
	DefaultInterval = 60 * time.Second
)

// Worker is the singleton dispatch loop: each tick scans for due reminders
// and places one call per reminder, earliest-due first.
type Worker struct {
	Reminders reminderRepo.ReminderRepository
	CallLogs  calllogRepo.CallLogRepository
	Caller    CallPlacer

	// BatchSize and Interval fall back to the defaults when zero.
	BatchSize int
	Interval  time.Duration
	// Now is the clock for the due comparison; defaults to time.Now.
	Now func() time.Time
}

func (w *Worker) batchSize() int {
	if w.BatchSize > 0 {
		return w.BatchSize
	}
	return DefaultBatchSize
}

func (w *Worker) interval() time.Duration {
	if w.Interval > 0 {
		return w.Interval
	}
	return DefaultInterval
}

func (w *Worker) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

// Run executes one tick immediately and then one per interval until ctx is
// cancelled. New reminders wait for the next tick; creation does not trigger
// dispatch.
func (w *Worker) Run(ctx context.Context) {
	logger := utils.GetLogger()
	logger.Info("dispatch worker started",
		zap.Duration("interval", w.interval()),
		zap.Int("batchSize", w.batchSize()))

	if err := w.RunTick(ctx); err != nil {
		logger.Error("dispatch tick failed", zap.Error(err))
	}

	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("dispatch worker stopped")
			return
		case <-ticker.C:
			if err := w.RunTick(ctx); err != nil {
				logger.Error("dispatch tick failed", zap.Error(err))
			}
		}
	}
}

// RunTick dispatches one batch of due reminders. A provider failure marks
// only the affected reminder failed and the batch continues; a store failure
// ends the tick early and is retried on the next one.
func (w *Worker) RunTick(ctx context.Context) error {
	logger := utils.GetLogger()

	now := w.now()
	due, err := w.Reminders.FindDue(now, w.batchSize())
	if err != nil {
		return fmt.Errorf("find due reminders: %w", err)
	}
	if len(due) == 0 {
		logger.Debug("dispatch tick: no due reminders")
		return nil
	}
	logger.Info("dispatch tick: found due reminders", zap.Int("count", len(due)))

	for _, rem := range due {
		if err := w.dispatch(ctx, rem, now); err != nil {
			return err
		}
	}
	return nil
}

// dispatch places the call for one reminder and records the attempt. The
// write order is call → log → status so that a reminder observed in
// "processing" always has its "created" call log.
func (w *Worker) dispatch(ctx context.Context, rem models.Reminder, now time.Time) error {
	logger := utils.GetLogger()

	result, err := w.Caller.PlaceCall(ctx, rem.PhoneNumber, rem.Message, rem.ID)
	if err != nil {
		logger.Error("call creation failed, marking reminder failed",
			zap.String("reminderId", rem.ID),
			zap.Error(err))
		if _, ferr := w.Reminders.UpdateStatusIf(rem.ID, models.StatusFailed, models.StatusScheduled); ferr != nil {
			return fmt.Errorf("mark reminder %s failed: %w", rem.ID, ferr)
		}
		return nil
	}

	if _, err := w.CallLogs.CreateIfAbsent(&models.CallLog{
		ID:             uuid.New().String(),
		ReminderID:     rem.ID,
		ExternalCallID: result.ExternalCallID,
		Provider:       result.Provider,
		Status:         "created",
		ReceivedAt:     now,
	}); err != nil {
		return fmt.Errorf("record call log for reminder %s: %w", rem.ID, err)
	}

	if err := w.Reminders.UpdateStatus(rem.ID, models.StatusProcessing, result.ExternalCallID); err != nil {
		return fmt.Errorf("advance reminder %s to processing: %w", rem.ID, err)
	}

	logger.Info("triggered call",
		zap.String("reminderId", rem.ID),
		zap.String("callId", result.ExternalCallID),
		zap.String("provider", string(result.Provider)))
	return nil
}
