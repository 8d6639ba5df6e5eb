package main

import (
	"net/http"

	"bitwill.backend/internal/interfaces/http/handlers"
	"bitwill.backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routeDeps struct {
	authHandler         *handlers.AuthHandler
	willHandler         *handlers.WillHandler
	subscriptionHandler *handlers.SubscriptionHandler
	authMiddleware      gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.Refresh)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
			auth.POST("/change-password", d.authMiddleware, d.authHandler.ChangePassword)
		}

		// Download works without a bearer token when a signed download
		// token is supplied as a query param
		v1.GET("/wills/:id/download", func(c *gin.Context) {
			if c.Query("token") != "" {
				c.Next()
				return
			}
			d.authMiddleware(c)
		}, d.willHandler.Download)

		// Will routes (protected)
		wills := v1.Group("/wills")
		wills.Use(d.authMiddleware)
		{
			wills.GET("/template", d.willHandler.Template)
			wills.POST("", middleware.IdempotencyMiddleware(), d.willHandler.Create)
			wills.GET("", d.willHandler.List)
			wills.GET("/:id", d.willHandler.Get)
			wills.PUT("/:id", d.willHandler.Update)
			wills.POST("/:id/generate", middleware.IdempotencyMiddleware(), d.willHandler.Generate)
			wills.DELETE("/:id", d.willHandler.Delete)
		}

		// Subscription routes (plan catalog is public)
		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.GET("/plans", d.subscriptionHandler.Plans)
			subscriptions.GET("/status", d.authMiddleware, d.subscriptionHandler.Status)
			subscriptions.POST("/checkout", d.authMiddleware, d.subscriptionHandler.Checkout)
			subscriptions.POST("/cancel", d.authMiddleware, d.subscriptionHandler.Cancel)
		}
	}
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key, X-Request-ID")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoutes(r *gin.Engine, pingDB func() error) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "bitwill-backend",
			"version": "0.1.0",
		})
	})
	r.GET("/health/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		if err := pingDB(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
