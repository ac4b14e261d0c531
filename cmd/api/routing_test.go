package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/health"
	"bookcatalog/internal/httpx"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func testRouter(t *testing.T) (http.Handler, *book.MockRepository, *health.MockChecker) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := book.NewMockRepository(ctrl)
	checker := health.NewMockChecker(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	settings := config.Settings{RateLimitRPS: 100, RateLimitBurst: 100}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newRouter(settings, logger, repo, checker, httpx.NewRateLimitMiddleware(ctx, 100, 100)), repo, checker
}

func TestRouter_Routes(t *testing.T) {
	router, repo, checker := testRouter(t)

	t.Run("books listing", func(t *testing.T) {
		repo.EXPECT().List(gomock.Any(), book.DefaultQuery()).Return(book.Page{Page: 1, PageSize: 10}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/books", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("ping", func(t *testing.T) {
		checker.EXPECT().Check(gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("storage failure keeps request id", func(t *testing.T) {
		repo.EXPECT().List(gomock.Any(), gomock.Any()).
			Return(book.Page{}, &book.StorageError{Op: "count books", Err: errors.New("boom")})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
		req.Header.Set("X-Request-Id", "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), `"request_id":"req-123"`)
		assert.NotContains(t, w.Body.String(), "boom")
	})

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, newLogger(config.Settings{Env: "dev"}))
	assert.NotNil(t, newLogger(config.Settings{Env: "production"}))
}
