package entity

import (
	"errors"
	"strings"
	"time"
)

const (
	MinPublishedYear = 1450
	MaxPublishedYear = 2100
	MinRating        = 0.0
	MaxRating        = 10.0
)

var (
	ErrTitleRequired        = errors.New("title is required")
	ErrRatingOutOfRange     = errors.New("rating must be between 0.0 and 10.0")
	ErrPublishedYearInvalid = errors.New("published_year must be between 1450 and 2100")
)

// Book is a row of the book table. Rating, Description and PublishedYear are nullable.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Rating        *float64  `json:"rating"`
	Description   *string   `json:"description"`
	PublishedYear *int      `json:"published_year"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Validate checks the same ranges the book_year_range and book_rating_range
// constraints enforce in the database.
func (b Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrTitleRequired
	}
	if b.Rating != nil && !ValidRating(*b.Rating) {
		return ErrRatingOutOfRange
	}
	if b.PublishedYear != nil && !ValidPublishedYear(*b.PublishedYear) {
		return ErrPublishedYearInvalid
	}
	return nil
}

func ValidRating(r float64) bool {
	return r >= MinRating && r <= MaxRating
}

func ValidPublishedYear(y int) bool {
	return y >= MinPublishedYear && y <= MaxPublishedYear
}

// BookGenre links a book to a genre. The pair is the primary key.
type BookGenre struct {
	BookID    string    `json:"book_id"`
	GenreID   string    `json:"genre_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
