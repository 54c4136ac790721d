package api

import (
	authUsecase "pushgate-backend/internal/auth/usecase"
	pushDelivery "pushgate-backend/internal/push/delivery"
	"pushgate-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase authUsecase.AuthUsecase
	pushHandler *pushDelivery.PushHandler
	config      *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, pushHandler *pushDelivery.PushHandler, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase: authUc,
		pushHandler: pushHandler,
		config:      cfg,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.pushHandler, h.config)

	return r.Run(addr)
}
