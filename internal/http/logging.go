package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
		})
		if c.FullPath() == "" {
			entry = entry.WithField("path", c.Request.URL.Path)
		}
		if c.Writer.Status() >= 500 {
			entry.Error("request failed")
			return
		}
		entry.Debug("request served")
	}
}
