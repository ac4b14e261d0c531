package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ContributorRole mirrors the contributor_role enum type in the database.
type ContributorRole string

const (
	RoleAuthor      ContributorRole = "author"
	RoleIllustrator ContributorRole = "illustrator"
	RoleEditor      ContributorRole = "editor"
)

var (
	ErrFullNameRequired = errors.New("contributor full name is required")
	ErrUnknownRole      = errors.New("unknown contributor role")
)

// ParseContributorRole maps a raw value onto a role. An empty value is an author.
func ParseContributorRole(s string) (ContributorRole, error) {
	switch ContributorRole(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleAuthor:
		return RoleAuthor, nil
	case RoleIllustrator:
		return RoleIllustrator, nil
	case RoleEditor:
		return RoleEditor, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r ContributorRole) Valid() bool {
	switch r {
	case RoleAuthor, RoleIllustrator, RoleEditor:
		return true
	}
	return false
}

type Contributor struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Contributor) Validate() error {
	if strings.TrimSpace(c.FullName) == "" {
		return ErrFullNameRequired
	}
	return nil
}

// BookContributor links a contributor to a book in one role. The same
// contributor may appear on a book once per role.
type BookContributor struct {
	BookID        string          `json:"book_id"`
	ContributorID string          `json:"contributor_id"`
	Role          ContributorRole `json:"role"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
