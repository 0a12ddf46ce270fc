package routes

import (
	"time"

	"remindcall/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers user endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("", hb.CreateUserHandler)
		api.GET("", hb.ListUsersHandler)
		api.GET("/:userId", hb.GetUserHandler)
		api.GET("/:userId/reminders", hb.ListUserRemindersHandler)
	}
}

// RegisterReminderRoutes registers reminder endpoints.
func RegisterReminderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reminders")
	{
		api.POST("", hb.CreateReminderHandler)
		api.GET("/:id", hb.GetReminderHandler)
	}
}

// RegisterWebhookRoutes registers the provider callback endpoints. These are
// authenticated by signature, not by middleware.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	wh := r.Group("/webhooks")
	{
		wh.POST("/twilio", hb.TwilioWebhookHandler)
		wh.POST("/vapi", hb.VapiWebhookHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterReminderRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
}
