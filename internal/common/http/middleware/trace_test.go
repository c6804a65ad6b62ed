package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hwbot/internal/common/http/middleware"
	"hwbot/pkg/utils/contextkey"

	"github.com/gin-gonic/gin"
)

func newRouter(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.TraceContextMiddleware(), middleware.RequestLogger())
	router.GET("/trace", func(c *gin.Context) {
		if v, ok := c.Request.Context().Value(contextkey.TraceID).(string); ok {
			*seen = v
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestTraceMiddlewareGeneratesIDs(t *testing.T) {
	var seen string
	router := newRouter(&seen)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trace", nil))

	traceID := rec.Header().Get("X-Trace-Id")
	if traceID == "" {
		t.Fatalf("expected trace id header")
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
	if seen != traceID {
		t.Fatalf("expected trace id in request context, got %q want %q", seen, traceID)
	}
}

func TestTraceMiddlewarePreservesIncomingIDs(t *testing.T) {
	var seen string
	router := newRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/trace", nil)
	req.Header.Set("X-Trace-Id", "trace-1")
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-Id") != "req-123" {
		t.Fatalf("expected request id header to be preserved")
	}
	if seen != "trace-1" {
		t.Fatalf("expected incoming trace id, got %q", seen)
	}
}
