package handler

import (
	"errors"
	"net/http"

	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/service"
	"github.com/higgsterrier/Novel-Publishing-App/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// statusFromErr maps the service error taxonomy onto HTTP status codes.
// Anything outside the taxonomy is an unexpected failure.
func statusFromErr(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrEmailInUse):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNovelNotFound),
		errors.Is(err, service.ErrChapterNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRatingNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError writes the error response. Taxonomy errors pass their
// message through; unexpected failures are logged with operation context and
// surface as an opaque 500.
func handleServiceError(c *gin.Context, log *logger.Logger, op string, err error, keysAndValues ...interface{}) {
	status := statusFromErr(err)
	if status == http.StatusInternalServerError {
		if log != nil {
			fields := append([]interface{}{"op", op, "error", err.Error()}, keysAndValues...)
			log.Error("unexpected failure", fields...)
		}
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
