package middleware

import (
	"net/http"

	"task-assignment/backend/internal/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponder turns the last error recorded on the context into a plain
// text response. It must be registered before the handlers it covers.
func ErrorResponder(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}

		err := last.Err
		status := apperrors.StatusCode(err)
		entry := log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"request_id": c.GetString(RequestIDKey),
		})

		switch {
		case apperrors.IsValidation(err), apperrors.IsNotFound(err):
			entry.WithError(err).Debug("request rejected")
		case status == http.StatusInternalServerError:
			entry.WithError(err).Error("unhandled request error")
		}

		if c.Writer.Written() {
			return
		}
		c.String(status, apperrors.PublicMessage(err))
	}
}
