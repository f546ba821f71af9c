package routes

import (
	"water-features-api/internal/handlers"
	"water-features-api/internal/middleware"
	"water-features-api/internal/realtime"
	"water-features-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes assembles the router around the shared service and hub instances.
func SetupRoutes(svc *service.FeatureService, hub *realtime.Hub, adminToken string) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204) // This depends on the implementation of the frontend
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Water Features API is running in Health Check Endpoint",
		})
	})

	featureHandler := handlers.NewFeatureHandler(svc)
	eventsHandler := handlers.NewEventsHandler(hub)
	adminHandler := handlers.NewAdminHandler(svc)

	// Public read routes
	api := ginRouter.Group("/api")
	{
		api.GET("/features", featureHandler.ListFeatures)
		api.GET("/features/:id", featureHandler.GetFeatureByID)
		api.GET("/categories", featureHandler.GetCategories)
		// Live cache events
		api.GET("/events", eventsHandler.Subscribe)
	}

	// Admin routes (bearer token required when configured)
	adminRoutes := api.Group("/admin")
	adminRoutes.Use(middleware.AdminAuthMiddleware(adminToken))
	{
		adminRoutes.POST("/preload", adminHandler.TriggerPreload)
		adminRoutes.POST("/cache/clear", adminHandler.ClearCache)
	}

	return ginRouter
}
