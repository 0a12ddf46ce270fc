package models

// WebhookEvent is the provider-agnostic form of an inbound delivery-status
// callback. The twilio and vapi handlers each build one from their own wire
// format so the reconciler never sees transport differences.
type WebhookEvent struct {
	Provider       CallProvider
	ExternalCallID string
	RawStatus      string
	// Transcript is set only by the voice-AI provider.
	Transcript string
	// ReminderID is the explicit reminder reference carried in provider
	// metadata, when present. Preferred over the externalCallId join.
	ReminderID string
}
