package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/sirupsen/logrus"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// StatusForError maps a service error to its HTTP status.
func StatusForError(err error) int {
	var invalid *nutrition.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNoQuestionnaire), errors.Is(err, service.ErrImmutableState):
		return http.StatusConflict
	case errors.Is(err, service.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders the last error attached with c.Error when the handler
// did not write a response itself.
func ErrorHandler(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		last := c.Errors.Last()

		status := StatusForError(last.Err)
		if last.IsType(gin.ErrorTypeBind) {
			status = http.StatusBadRequest
		}

		resp := ErrorResponse{Error: last.Err.Error()}
		var invalid *nutrition.InvalidInputError
		if errors.As(last.Err, &invalid) {
			resp.Field = invalid.Field
		}

		entry := log.WithError(last.Err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": status,
		})
		if status >= http.StatusInternalServerError {
			entry.Error("Request failed")
			if status == http.StatusInternalServerError {
				resp.Error = "internal server error"
			}
		} else {
			entry.Debug("Request rejected")
		}

		c.AbortWithStatusJSON(status, resp)
	}
}
