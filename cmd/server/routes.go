package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"techsavvy.backend/internal/interfaces/http/handlers"
)

type routeDeps struct {
	authHandler         *handlers.AuthHandler
	verificationHandler *handlers.VerificationHandler
	authMiddleware      gin.HandlerFunc
	edgeLimiter         gin.HandlerFunc
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public, edge rate-limited)
		auth := v1.Group("/auth")
		auth.Use(d.edgeLimiter)
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)

			auth.POST("/verify-email", d.verificationHandler.VerifyEmail)
			auth.POST("/resend-verification", d.verificationHandler.ResendVerification)
			auth.POST("/password-reset/request", d.verificationHandler.RequestPasswordReset)
			auth.POST("/password-reset/confirm", d.verificationHandler.ConfirmPasswordReset)

			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
			auth.POST("/change-password", d.authMiddleware, d.authHandler.ChangePassword)
		}
	}
}
