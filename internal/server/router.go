package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/voxloop/messaging-service/internal/handlers"
	"github.com/voxloop/messaging-service/internal/middleware"
	"github.com/voxloop/messaging-service/internal/observability"
)

type RouterConfig struct {
	MessageHandler      *handlers.MessageHandler
	ConversationHandler *handlers.ConversationHandler
	RequestLog          *middleware.RequestLogMiddleware
	Metrics             *observability.Metrics
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.RequestLog != nil {
		router.Use(cfg.RequestLog.LogRequests())
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With", "X-Request-ID"},
		AllowCredentials: false,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)
	if cfg.Metrics != nil {
		router.GET("/metrics", cfg.Metrics.Handler())
	}

	api := router.Group("/api")
	{
		api.POST("/messages/sms", cfg.MessageHandler.SendSmsMms)
		api.POST("/messages/email", cfg.MessageHandler.SendEmail)
		api.POST("/webhooks/sms", cfg.MessageHandler.ReceiveSmsMms)
		api.POST("/webhooks/email", cfg.MessageHandler.ReceiveEmail)
		api.GET("/conversations", cfg.ConversationHandler.ListConversations)
		api.GET("/conversations/:id/messages", cfg.ConversationHandler.ListMessages)
	}

	return router
}
