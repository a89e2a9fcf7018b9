package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"task-assignment/backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func TestRecoveryWithLog_NoPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.RecoveryWithLog(logrus.New()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRecoveryWithLog_WithPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var logs bytes.Buffer
	log := logrus.New()
	log.SetOutput(&logs)

	router := gin.New()
	router.Use(middleware.RecoveryWithLog(log))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	req, _ := http.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	if w.Body.String() != "Internal Server Error" {
		t.Errorf("Expected error message %q, got %q", "Internal Server Error", w.Body.String())
	}

	if !strings.Contains(logs.String(), "test panic") {
		t.Errorf("Expected panic value to be logged, got %q", logs.String())
	}
}
