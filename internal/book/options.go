package book

import (
	"log/slog"
	"time"
)

const defaultQueryTimeout = 3 * time.Second

type Option func(*PostgresRepo)

// WithTimeout bounds every repository call. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(r *PostgresRepo) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithSnapshotReads runs the count and the page fetch of a listing inside one
// REPEATABLE READ, READ ONLY transaction so total always matches the page.
func WithSnapshotReads(enabled bool) Option {
	return func(r *PostgresRepo) {
		r.snapshot = enabled
	}
}

// WithLogger enables debug logging of the generated SQL.
func WithLogger(logger *slog.Logger) Option {
	return func(r *PostgresRepo) {
		r.logger = logger
	}
}
