package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"classifieds-core/internal/redis"
	"classifieds-core/internal/services"
	market_errors "classifieds-core/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func whoAmI(c *gin.Context) {
	caller, _ := services.UserFromContext(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"id": caller.ID, "name": caller.Name, "admin": caller.Admin})
}

func TestAuthMiddleware(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	router := gin.New()
	router.GET("/me", AuthMiddleware(verifier), whoAmI)

	valid, err := verifier.Issue("u1", "Deniz", "", time.Hour)
	require.NoError(t, err)
	expired, err := verifier.Issue("u1", "", "", -time.Minute)
	require.NoError(t, err)
	foreign, err := NewTokenVerifier("other-secret").Issue("u1", "", "", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid token", header: "Bearer " + valid, want: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + valid, want: http.StatusOK},
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, want: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreign, want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer not-a-jwt", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+valid)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "u1", body["id"])
	assert.Equal(t, "Deniz", body["name"])
	assert.Equal(t, false, body["admin"])
}

func TestAdminOnly(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	router := gin.New()
	router.GET("/admin", AuthMiddleware(verifier), AdminOnly(), whoAmI)

	admin, _ := verifier.Issue("m1", "", RoleAdmin, time.Hour)
	user, _ := verifier.Issue("u1", "", "USER", time.Hour)

	for token, want := range map[string]int{admin: http.StatusOK, user: http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	calls := 0
	limit := func(_ context.Context, userID string) (*redis.RateLimitResult, error) {
		calls++
		return &redis.RateLimitResult{Allowed: calls <= 2, Remaining: 2 - calls, Limit: 2, ResetIn: time.Minute}, nil
	}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(services.WithUser(c.Request.Context(), services.Caller{ID: "u1"}))
		c.Next()
	})
	router.POST("/reports", RateLimit(limit, "slow down"), func(c *gin.Context) { c.Status(http.StatusCreated) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reports", nil))
		codes = append(codes, w.Code)
		if i == 2 {
			assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, "60", w.Header().Get("X-RateLimit-Reset"))
			assert.Contains(t, w.Body.String(), "RATE_LIMITED")
			assert.Contains(t, w.Body.String(), "slow down")
		}
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
}

func TestRateLimitedError(t *testing.T) {
	assert.ErrorIs(t, rateLimited(""), market_errors.ErrRateLimited)
	err := rateLimited("report rate limit exceeded")
	assert.ErrorIs(t, err, market_errors.ErrRateLimited)
	assert.Equal(t, "report rate limit exceeded", err.Error())
}

func TestRateLimitFailsOpen(t *testing.T) {
	limit := func(context.Context, string) (*redis.RateLimitResult, error) {
		return nil, errors.New("redis: connection refused")
	}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(services.WithUser(c.Request.Context(), services.Caller{ID: "u1"}))
		c.Next()
	})
	router.GET("/x", RateLimit(limit, "slow down"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestErrorHandler(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler(nil))
	router.GET("/conflict", func(c *gin.Context) { _ = c.Error(market_errors.ErrReportAlreadyResolved) })
	router.GET("/storage", func(c *gin.Context) { _ = c.Error(market_errors.StorageUnavailable(errors.New("dial tcp"))) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conflict", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "REPORT_ALREADY_RESOLVED")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/storage", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "dial tcp")
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
