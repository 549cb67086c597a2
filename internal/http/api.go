package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"research-samples/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users   service.UserService
	auth    service.AuthService
	samples service.SampleService
	logger  logrus.FieldLogger
}

func NewHandler(users service.UserService, auth service.AuthService, samples service.SampleService, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:   users,
		auth:    auth,
		samples: samples,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	registerValidators()

	router.Use(requestLogger(h.logger), corsMiddleware())

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
	router.POST("/register", h.register)
	router.POST("/login", h.login)

	samples := router.Group("/samples", h.requireAuth())
	{
		samples.GET("", h.listSamples)
		samples.POST("", h.createSample)
		samples.GET("/:id", h.getSample)
		samples.PUT("/:id", h.updateSample)
		samples.DELETE("/:id", h.deleteSample)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
