package book

import (
	"context"

	"github.com/google/uuid"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the page of books matching the query. q must already be
// validated; storage errors are returned as they are.
func (s *Service) List(ctx context.Context, q Query) (Page, error) {
	return s.repo.List(ctx, q)
}

// GetByID returns a single book with its links.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Item, error) {
	return s.repo.GetByID(ctx, id)
}
