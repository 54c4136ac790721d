package api

import (
	"net/http"

	"pushgate-backend/internal/auth/delivery"
	authUsecase "pushgate-backend/internal/auth/usecase"
	"pushgate-backend/internal/mw"
	pushDelivery "pushgate-backend/internal/push/delivery"
	"pushgate-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, pushHandler *pushDelivery.PushHandler, cfg *config.Config) {
	authHandler := delivery.NewAuthHandler(authUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
		}

		// Push routes
		push := api.Group("/push")
		{
			// Token registration is open to anonymous devices; a bearer
			// token routes the mutation to the caller's session.
			push.POST("/update",
				mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst),
				delivery.OptionalAuthMiddleware(authUc),
				pushHandler.UpdateToken)

			// Sending is a backend-to-backend call, always authenticated.
			push.POST("/send", delivery.AuthMiddleware(authUc), pushHandler.SendNotification)
		}
	}
}
