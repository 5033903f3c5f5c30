package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/voxloop/messaging-service/internal/db"
	"github.com/voxloop/messaging-service/internal/handlers"
	"github.com/voxloop/messaging-service/internal/logger"
	"github.com/voxloop/messaging-service/internal/middleware"
	"github.com/voxloop/messaging-service/internal/observability"
	"github.com/voxloop/messaging-service/internal/repos"
	"github.com/voxloop/messaging-service/internal/server"
	"github.com/voxloop/messaging-service/internal/services"
	"github.com/voxloop/messaging-service/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not loaded", "error", err)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Metrics
	metrics := observability.NewMetrics()

	// Repos
	log.Info("Setting up repos...")
	conversationRepo := repos.NewConversationRepo(thePG, log)
	messageRepo := repos.NewMessageRepo(thePG, log)

	// Services
	log.Info("Setting up services...")
	conversationService := services.NewConversationService(thePG, log, conversationRepo, metrics)
	messageService := services.NewMessageService(thePG, log, conversationService, messageRepo)

	// Handlers
	log.Info("Setting up handlers...")
	messageHandler := handlers.NewMessageHandler(log, messageService, metrics)
	conversationHandler := handlers.NewConversationHandler(log, messageService)

	// Middleware
	requestLog := middleware.NewRequestLogMiddleware(log)

	// Router
	log.Info("Setting up router...")
	router := server.NewRouter(server.RouterConfig{
		MessageHandler:      messageHandler,
		ConversationHandler: conversationHandler,
		RequestLog:          requestLog,
		Metrics:             metrics,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
