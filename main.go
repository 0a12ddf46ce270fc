package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"remindcall/config"
	"remindcall/database"
	calllogRepoPkg "remindcall/database/repository/calllog"
	reminderRepoPkg "remindcall/database/repository/reminder"
	userRepoPkg "remindcall/database/repository/user"
	"remindcall/handlers"
	twilioClient "remindcall/integrations/twilio"
	vapiClient "remindcall/integrations/vapi"
	"remindcall/middleware"
	"remindcall/routes"
	"remindcall/services/dispatch"
	reminderSvc "remindcall/services/reminder"
	userSvc "remindcall/services/user"
	webhookSvc "remindcall/services/webhook"
	"remindcall/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitDedupCache()

	// Provider clients.
	twilio := twilioClient.New(
		config.AppConfig.TwilioAccountSID,
		config.AppConfig.TwilioAuthToken,
		config.AppConfig.TwilioFromNumber,
		config.AppConfig.PublicBaseURL+"/webhooks/twilio",
	)
	vapi := vapiClient.New(
		config.AppConfig.VapiBaseURL,
		config.AppConfig.VapiAPIKey,
		config.AppConfig.VapiWebhookSecret,
	)

	var caller dispatch.CallPlacer = twilio
	if config.AppConfig.CallProvider == "vapi" {
		caller = vapi
	}

	// Repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	reminderRepo := reminderRepoPkg.NewMongoReminderRepo()
	calllogRepo := calllogRepoPkg.NewMongoCallLogRepo()

	// Services.
	userService := &userSvc.DefaultUserService{Repo: userRepo}
	reminderService := &reminderSvc.DefaultReminderService{
		Repo:     reminderRepo,
		Users:    userRepo,
		CallLogs: calllogRepo,
	}
	reconciler := &webhookSvc.Reconciler{
		Reminders: reminderRepo,
		CallLogs:  calllogRepo,
		Dedup:     utils.GetDedupCacheClient(),
	}
	worker := &dispatch.Worker{
		Reminders: reminderRepo,
		CallLogs:  calllogRepo,
		Caller:    caller,
		BatchSize: config.AppConfig.WorkerBatchSize,
		Interval:  time.Duration(config.AppConfig.WorkerPollIntervalSeconds) * time.Second,
	}

	// Handlers.
	userHandler := handlers.NewUserHandler(userService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	webhookHandler := &handlers.WebhookHandler{
		Reconciler:    reconciler,
		Twilio:        twilio,
		Vapi:          vapi,
		PublicBaseURL: config.AppConfig.PublicBaseURL,
	}
	healthHandler := &handlers.HealthHandler{
		Mongo: database.MongoClient,
		Redis: utils.GetDedupCacheClient(),
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	handlerBundle := &handlers.HandlerBundle{
		CreateUserHandler: userHandler.CreateUserHandler,
		GetUserHandler:    userHandler.GetUserHandler,
		ListUsersHandler:  userHandler.ListUsersHandler,

		CreateReminderHandler:    reminderHandler.CreateReminderHandler,
		GetReminderHandler:       reminderHandler.GetReminderHandler,
		ListUserRemindersHandler: reminderHandler.ListUserRemindersHandler,

		TwilioWebhookHandler: webhookHandler.TwilioWebhookHandler,
		VapiWebhookHandler:   webhookHandler.VapiWebhookHandler,

		HealthHandler: healthHandler.Check,
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the dispatch worker.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	go worker.Run(workerCtx)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
