package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"research-samples/internal/service"
)

const wwwAuthenticate = "WWW-Authenticate"

// writeError maps service errors onto status codes. Unknown errors become a
// bare 500 and are logged, never echoed.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "username already registered"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.Header(wwwAuthenticate, "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrUnauthenticated):
		c.Header(wwwAuthenticate, "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrUnauthenticated.Error()})
	case errors.Is(err, service.ErrSampleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "sample not found"})
	case errors.Is(err, service.ErrSampleExists), errors.Is(err, service.ErrSampleConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// writeBindingError reports request shape problems per JSON field.
func writeBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[fieldName(fe)] = rule
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
}

func fieldName(fe validator.FieldError) string {
	if name := fe.Field(); name != "" {
		return name
	}
	ns := fe.Namespace()
	if i := strings.LastIndex(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
