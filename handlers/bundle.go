package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates the handler funcs the route registrar wires up.
type HandlerBundle struct {
	// User endpoints.
	CreateUserHandler gin.HandlerFunc
	GetUserHandler    gin.HandlerFunc
	ListUsersHandler  gin.HandlerFunc

	// Reminder endpoints.
	CreateReminderHandler    gin.HandlerFunc
	GetReminderHandler       gin.HandlerFunc
	ListUserRemindersHandler gin.HandlerFunc

	// Provider webhook endpoints.
	TwilioWebhookHandler gin.HandlerFunc
	VapiWebhookHandler   gin.HandlerFunc

	// Health endpoint.
	HealthHandler gin.HandlerFunc
}
