package health

import (
	"context"
	"log/slog"
	"net/http"

	"bookcatalog/internal/httpx"
)

//go:generate mockgen -source=health.go -destination=mock_checker.go -package=health

// Checker reports whether the store answers queries.
type Checker interface {
	Check(ctx context.Context) error
}

type Status struct {
	Status string `json:"status"`
}

type Handler struct {
	checker Checker
	logger  *slog.Logger
}

func NewHandler(checker Checker, logger *slog.Logger) *Handler {
	return &Handler{checker: checker, logger: logger}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/ping", h.Ping)
}

// Ping handles GET /api/ping. Unlike other endpoints the failure message
// carries the underlying database error.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	if err := h.checker.Check(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "database ping failed",
			"request_id", httpx.RequestIDFrom(r),
			"error", err,
		)
		httpx.JSONError(w, r, http.StatusInternalServerError, "DATABASE_UNAVAILABLE",
			"database connection error: "+err.Error(), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, Status{Status: "ok"})
}
