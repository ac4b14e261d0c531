package book

import (
	"errors"
	"log/slog"
	"net/http"

	"bookcatalog/internal/httpx"
	"bookcatalog/internal/validation"

	"github.com/google/uuid"
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/books", h.List)
	mux.HandleFunc("GET /api/v1/books/{id}", h.GetByID)
}

// List handles GET /api/v1/books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := ParseQuery(r.URL.Query())
	if err != nil {
		h.writeValidation(w, r, err)
		return
	}

	page, err := h.service.List(r.Context(), params)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list books failed",
			"request_id", httpx.RequestIDFrom(r),
			"error", err,
		)
		httpx.InternalError(w, r)
		return
	}

	httpx.JSON(w, http.StatusOK, page)
}

// GetByID handles GET /api/v1/books/{id}
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		var errs validation.Errors
		errs.Add("id", "id must be a valid UUID")
		httpx.ValidationError(w, r, &errs)
		return
	}

	item, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		h.logger.ErrorContext(r.Context(), "get book failed",
			"request_id", httpx.RequestIDFrom(r),
			"book_id", id.String(),
			"error", err,
		)
		httpx.InternalError(w, r)
		return
	}

	httpx.JSON(w, http.StatusOK, item)
}

func (h *HTTPHandler) writeValidation(w http.ResponseWriter, r *http.Request, err error) {
	var errs *validation.Errors
	if errors.As(err, &errs) {
		httpx.ValidationError(w, r, errs)
		return
	}
	httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
}
