package book

import (
	"errors"

	"bookcatalog/internal/entity"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// StorageError wraps a failure of the underlying store. The original error
// is kept intact for errors.Is / errors.As.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ContributorLink is a contributor together with the role it holds on a book.
type ContributorLink struct {
	ID       string                 `json:"id"`
	FullName string                 `json:"full_name"`
	Role     entity.ContributorRole `json:"role"`
}

// Item is the read representation of a book.
type Item struct {
	entity.Book
	GenreIDs     []string          `json:"genre_ids"`
	Contributors []ContributorLink `json:"contributors"`
}

// Page is one page of a listing plus the size of the whole filtered set.
type Page struct {
	Items    []Item `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// NewPage packages rows and pagination metadata. Items and their link slices
// are never nil so they encode as [] rather than null.
func NewPage(items []Item, total int, q Query) Page {
	if items == nil {
		items = []Item{}
	}
	normalizeLinks(items)
	return Page{
		Items:    items,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
}

func normalizeLinks(items []Item) {
	for i := range items {
		if items[i].GenreIDs == nil {
			items[i].GenreIDs = []string{}
		}
		if items[i].Contributors == nil {
			items[i].Contributors = []ContributorLink{}
		}
	}
}
