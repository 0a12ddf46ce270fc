package models

import "time"

// ReminderStatus is the lifecycle state of a reminder.
type ReminderStatus string

const (
	StatusScheduled  ReminderStatus = "scheduled"
	StatusProcessing ReminderStatus = "processing"
	StatusCalled     ReminderStatus = "called"
	StatusFailed     ReminderStatus = "failed"
)

// Terminal reports whether no further transitions may leave this status.
func (s ReminderStatus) Terminal() bool {
	return s == StatusCalled || s == StatusFailed
}

// Valid reports whether s is one of the known reminder statuses.
func (s ReminderStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusProcessing, StatusCalled, StatusFailed:
		return true
	}
	return false
}

// CanTransition reports whether the edge from → to is legal:
// scheduled → processing, scheduled → failed (dispatch-time failure),
// processing → called, processing → failed. Terminal states have no
// outgoing edges.
func CanTransition(from, to ReminderStatus) bool {
	switch from {
	case StatusScheduled:
		return to == StatusProcessing || to == StatusFailed
	case StatusProcessing:
		return to == StatusCalled || to == StatusFailed
	}
	return false
}

// Reminder is a scheduled voice call to a phone number.
type Reminder struct {
	ID             string         `bson:"id" json:"id"`
	UserID         string         `bson:"userId" json:"userId"`
	PhoneNumber    string         `bson:"phoneNumber" json:"phoneNumber"`
	Message        string         `bson:"message" json:"message"`
	ScheduledAt    time.Time      `bson:"scheduledAt" json:"scheduledAt"`
	Status         ReminderStatus `bson:"status" json:"status"`
	ExternalCallID string         `bson:"externalCallId,omitempty" json:"externalCallId,omitempty"`
	CreatedAt      time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// ReminderDetail is a reminder together with the call logs recorded for it.
type ReminderDetail struct {
	Reminder `bson:",inline"`
	CallLogs []CallLog `json:"callLogs"`
}
