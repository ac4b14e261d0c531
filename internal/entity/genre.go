package entity

import (
	"errors"
	"strings"
	"time"
)

var ErrGenreNameRequired = errors.New("genre name is required")

type Genre struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (g Genre) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrGenreNameRequired
	}
	return nil
}
