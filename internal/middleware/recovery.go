package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func RecoveryWithLog(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.WithFields(logrus.Fields{
					"panic":      err,
					"path":       c.Request.URL.Path,
					"request_id": c.GetString(RequestIDKey),
				}).Errorf("panic recovered\n%s", debug.Stack())
				c.Abort()
				c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			}
		}()
		c.Next()
	}
}
