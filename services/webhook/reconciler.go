package webhook

import (
	"context"
	"fmt"
	"time"

	calllogRepo "remindcall/database/repository/calllog"
	reminderRepo "remindcall/database/repository/reminder"
	"remindcall/models"
	"remindcall/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome classifies what a delivery did. Every outcome is acknowledged with
// success to the provider; only store errors bubble up.
type Outcome string

const (
	// OutcomeProcessed: first delivery for its idempotency key; a call log
	// was recorded and the reminder advanced where the mapping called for it.
	OutcomeProcessed Outcome = "processed"
	// OutcomeDuplicate: the (externalCallId, provider) pair was already
	// recorded; nothing was mutated.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeUnmapped: no reminder could be resolved for the event; nothing
	// was mutated. Acknowledged so the provider stops redelivering.
	OutcomeUnmapped Outcome = "unmapped"
)

const dedupTTL = 24 * time.Hour

// Reconciler applies provider delivery-status events to reminder state
// exactly once per distinct event.
type Reconciler struct {
	Reminders reminderRepo.ReminderRepository
	CallLogs  calllogRepo.CallLogRepository
	// Dedup is an optional Redis fast path in front of the authoritative
	// unique index; it is best-effort and may be nil.
	Dedup *redis.Client
	// Now is the clock for receivedAt stamps; defaults to time.Now.
	Now func() time.Time
}

func (r *Reconciler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Process consumes one provider-agnostic webhook event. The caller has
// already verified the delivery's signature.
func (r *Reconciler) Process(ctx context.Context, ev models.WebhookEvent) (Outcome, error) {
	logger := utils.GetLogger()

	// A key is cached only once a terminal transition settled the reminder,
	// so dropping the event here can never lose a pending transition.
	if r.seenInDedupCache(ctx, ev) {
		logger.Info("webhook duplicate (dedup cache)",
			zap.String("callId", ev.ExternalCallID),
			zap.String("provider", string(ev.Provider)))
		return OutcomeDuplicate, nil
	}

	rem, err := r.resolveReminder(ev)
	if err != nil {
		return "", err
	}
	if rem == nil {
		logger.Warn("webhook could not be mapped to a reminder",
			zap.String("callId", ev.ExternalCallID),
			zap.String("provider", string(ev.Provider)))
		return OutcomeUnmapped, nil
	}

	outcome := OutcomeProcessed
	existing, err := r.CallLogs.GetByExternalCallID(ev.ExternalCallID, ev.Provider)
	if err != nil {
		return "", err
	}
	if existing != nil {
		logger.Info("event already recorded for this call and provider",
			zap.String("callId", ev.ExternalCallID),
			zap.String("provider", string(ev.Provider)))
		outcome = OutcomeDuplicate
	} else {
		created, err := r.CallLogs.CreateIfAbsent(&models.CallLog{
			ID:             uuid.New().String(),
			ReminderID:     rem.ID,
			ExternalCallID: ev.ExternalCallID,
			Provider:       ev.Provider,
			Status:         ev.RawStatus,
			Transcript:     ev.Transcript,
			ReceivedAt:     r.now(),
		})
		if err != nil {
			return "", err
		}
		if !created {
			// Lost the race against a concurrent delivery of the same event.
			outcome = OutcomeDuplicate
		}
	}

	// The telephony key is consumed at dispatch time by the "created" log,
	// so its status callbacks always land here as duplicates; the mapping
	// still has to run for them. The transition guard keeps replays and
	// stale events from moving a terminal reminder.
	target := MapStatus(ev.Provider, ev.RawStatus)
	if err := r.applyTransition(rem, target); err != nil {
		return "", err
	}

	// Intermediate events stay uncached: a later terminal event with the
	// same key must reach the transition logic, not the cache fast path.
	if target.Terminal() {
		r.markInDedupCache(ctx, ev)
	}
	return outcome, nil
}

// resolveReminder prefers the explicit reminder id carried in provider
// metadata and falls back to the externalCallId join. The voice-AI call id
// may equal the telephony call id for the same underlying call.
func (r *Reconciler) resolveReminder(ev models.WebhookEvent) (*models.Reminder, error) {
	if ev.ReminderID != "" {
		rem, err := r.Reminders.GetByID(ev.ReminderID)
		if err != nil {
			return nil, err
		}
		if rem != nil {
			return rem, nil
		}
	}
	return r.Reminders.GetByExternalCallID(ev.ExternalCallID)
}

// applyTransition applies the mapped target status to the reminder, guarding
// so terminal states are never overwritten.
func (r *Reconciler) applyTransition(rem *models.Reminder, target models.ReminderStatus) error {
	logger := utils.GetLogger()

	if !target.Terminal() {
		// Intermediate event; the reminder stays where it is until a
		// terminal event from either provider arrives.
		return nil
	}

	applied, err := r.Reminders.UpdateStatusIf(rem.ID, target,
		models.StatusScheduled, models.StatusProcessing)
	if err != nil {
		return fmt.Errorf("update reminder %s to %s: %w", rem.ID, target, err)
	}
	if !applied {
		logger.Info("stale webhook ignored: reminder already terminal",
			zap.String("reminderId", rem.ID),
			zap.String("wanted", string(target)))
		return nil
	}

	logger.Info("reminder status updated",
		zap.String("reminderId", rem.ID),
		zap.String("status", string(target)))
	return nil
}

// MapStatus translates a provider status vocabulary into the reminder
// status domain. The telephony provider only ever reports connectivity, so
// even its "completed" keeps the reminder in processing until the voice-AI
// provider confirms the transcript.
func MapStatus(provider models.CallProvider, raw string) models.ReminderStatus {
	switch provider {
	case models.ProviderTwilio:
		switch raw {
		case "failed", "busy", "no-answer", "canceled":
			return models.StatusFailed
		default:
			return models.StatusProcessing
		}
	case models.ProviderVapi:
		switch raw {
		case "completed", "transcribed":
			return models.StatusCalled
		case "failed", "error", "busy", "no-answer", "canceled":
			return models.StatusFailed
		default:
			return models.StatusProcessing
		}
	}
	return models.StatusProcessing
}

func dedupKey(ev models.WebhookEvent) string {
	return fmt.Sprintf("webhook:%s:%s", ev.Provider, ev.ExternalCallID)
}

// seenInDedupCache is a best-effort read; cache trouble never blocks the
// authoritative path.
func (r *Reconciler) seenInDedupCache(ctx context.Context, ev models.WebhookEvent) bool {
	if r.Dedup == nil {
		return false
	}
	n, err := r.Dedup.Exists(ctx, dedupKey(ev)).Result()
	if err != nil {
		utils.GetLogger().Debug("dedup cache read failed", zap.Error(err))
		return false
	}
	return n > 0
}

func (r *Reconciler) markInDedupCache(ctx context.Context, ev models.WebhookEvent) {
	if r.Dedup == nil {
		return
	}
	if err := r.Dedup.Set(ctx, dedupKey(ev), 1, dedupTTL).Err(); err != nil {
		utils.GetLogger().Debug("dedup cache write failed", zap.Error(err))
	}
}
