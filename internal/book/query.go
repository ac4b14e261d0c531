package book

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"bookcatalog/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type SortField string

const (
	SortTitle         SortField = "title"
	SortRating        SortField = "rating"
	SortPublishedYear SortField = "published_year"
)

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*page_size within int64 for every valid page_size.
	MaxPage = math.MaxInt32
)

// Query defines filters, ordering and pagination for listing books.
// Nil pointers and an empty Q mean the filter is not applied.
type Query struct {
	Page          int        `query:"page" validate:"gte=1,lte=2147483647"`
	PageSize      int        `query:"page_size" validate:"gte=1,lte=100"`
	Sort          SortField  `query:"sort" validate:"oneof=title rating published_year"`
	Order         Order      `query:"order" validate:"oneof=asc desc"`
	RatingMin     *float64   `query:"rating_min"`
	RatingMax     *float64   `query:"rating_max"`
	PublishedYear *int       `query:"published_year" validate:"omitempty,gt=0,gte=1450,lte=2100"`
	GenreID       *uuid.UUID `query:"genre_id"`
	Q             string     `query:"q"`
}

func init() {
	validation.RegisterStructValidation(validateRatingRange, Query{})
}

func validateRatingRange(sl validator.StructLevel) {
	q := sl.Current().Interface().(Query)
	if q.RatingMin != nil && q.RatingMax != nil && *q.RatingMax < *q.RatingMin {
		sl.ReportError(q.RatingMax, "rating_max", "RatingMax", "gtefield", "rating_min")
	}
}

// DefaultQuery returns the query used when no parameters are given.
func DefaultQuery() Query {
	return Query{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
		Sort:     SortTitle,
		Order:    OrderAsc,
	}
}

// Offset is the number of rows skipped before the current page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Validate checks field ranges, enum tokens and the rating_min/rating_max rule.
func (q Query) Validate() error {
	var errs validation.Errors
	errs.Fields = validation.Struct(q)
	return errs.Err()
}

// ParseQuery builds a Query from raw query string values. Every malformed or
// out-of-range field is reported in the returned *validation.Errors.
func ParseQuery(values url.Values) (Query, error) {
	q := DefaultQuery()
	var errs validation.Errors

	if s := values.Get("page"); s != "" {
		if n, err := strconv.Atoi(s); err != nil {
			errs.Add("page", "page must be an integer")
		} else {
			q.Page = n
		}
	}

	if s := values.Get("page_size"); s != "" {
		if n, err := strconv.Atoi(s); err != nil {
			errs.Add("page_size", "page_size must be an integer")
		} else {
			q.PageSize = n
		}
	}

	if s := values.Get("sort"); s != "" {
		q.Sort = SortField(s)
	}
	if s := values.Get("order"); s != "" {
		q.Order = Order(s)
	}

	q.RatingMin = parseDecimal(values, "rating_min", &errs)
	q.RatingMax = parseDecimal(values, "rating_max", &errs)

	if s := values.Get("published_year"); s != "" {
		if n, err := strconv.Atoi(s); err != nil {
			errs.Add("published_year", "published_year must be an integer")
		} else {
			q.PublishedYear = &n
		}
	}

	if s := values.Get("genre_id"); s != "" {
		if id, err := uuid.Parse(s); err != nil {
			errs.Add("genre_id", "genre_id must be a valid UUID")
		} else {
			q.GenreID = &id
		}
	}

	q.Q = values.Get("q")
	if !utf8.ValidString(q.Q) || strings.ContainsRune(q.Q, 0) {
		errs.Add("q", "q must be valid UTF-8 text without NUL bytes")
		q.Q = ""
	}

	errs.Fields = append(errs.Fields, validation.Struct(q)...)
	if err := errs.Err(); err != nil {
		return Query{}, err
	}
	return q, nil
}

func parseDecimal(values url.Values, key string, errs *validation.Errors) *float64 {
	s := values.Get(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		errs.Add(key, key+" must be a number")
		return nil
	}
	return &v
}
