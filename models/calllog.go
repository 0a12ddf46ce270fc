package models

import "time"

// CallProvider identifies which external system produced a call event.
type CallProvider string

const (
	ProviderTwilio CallProvider = "twilio"
	ProviderVapi   CallProvider = "vapi"
)

// CallResult is what a provider returns when an outbound call is created.
type CallResult struct {
	ExternalCallID string
	Status         string
	Provider       CallProvider
}

// CallLog records one distinct event for an outbound call attempt. The pair
// (externalCallId, provider) is unique and acts as the idempotency key for
// webhook deliveries.
type CallLog struct {
	ID             string       `bson:"id" json:"id"`
	ReminderID     string       `bson:"reminderId" json:"reminderId"`
	ExternalCallID string       `bson:"externalCallId" json:"externalCallId"`
	Provider       CallProvider `bson:"provider" json:"provider"`
	Status         string       `bson:"status" json:"status"`
	Transcript     string       `bson:"transcript,omitempty" json:"transcript,omitempty"`
	ReceivedAt     time.Time    `bson:"receivedAt" json:"receivedAt"`
}
