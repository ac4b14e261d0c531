package book

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, q Query) (Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (Item, error)
}
