package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"task-assignment/backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestRequestID_GeneratesUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/", func(c *gin.Context) {
		seen = c.GetString(middleware.RequestIDKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	header := w.Header().Get(middleware.RequestIDHeader)
	_, err := uuid.FromString(header)
	assert.NoError(t, err)
	assert.Equal(t, header, seen)
}

func TestRequestID_EchoesClientValue(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "trace-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, "trace-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestRequestLogger_WritesEntry(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var logs bytes.Buffer
	log := logrus.New()
	log.SetOutput(&logs)
	log.SetFormatter(&logrus.JSONFormatter{})

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.RequestLogger(log))
	router.GET("/tasks", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/tasks?status=pending", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc")
	router.ServeHTTP(w, req)

	out := logs.String()
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"path":"/tasks?status=pending"`)
	assert.Contains(t, out, `"request_id":"abc"`)
	assert.Contains(t, out, `"level":"warning"`)
}
