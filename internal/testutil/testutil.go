//go:build integration

// Package testutil starts a throwaway PostgreSQL with the catalog schema and
// inserts fixtures for integration tests.
package testutil

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// MigrationsDir returns the absolute path of db/migrations.
func MigrationsDir(t testing.TB) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file lives in internal/testutil/, so repo root is ../..
	repoRoot := filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", ".."))
	return filepath.Join(repoRoot, "db", "migrations")
}

// StartPostgres runs a PostgreSQL container, applies all migrations and
// returns a pool. The container is terminated when the test ends.
func StartPostgres(t testing.TB) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("catalog"),
		postgres.WithPassword("catalog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("goose dialect: %v", err)
	}
	if err := goose.Up(db, MigrationsDir(t)); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	return pool
}

// Truncate empties every catalog table.
func Truncate(t testing.TB, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), "TRUNCATE bookcontributor, bookgenre, contributor, genre, book")
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func InsertBook(t testing.TB, pool *pgxpool.Pool, title string, rating *float64, year *int) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(),
		`INSERT INTO book (title, rating, published_year) VALUES ($1, $2, $3) RETURNING id::text`,
		title, rating, year,
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert book %q: %v", title, err)
	}
	return id
}

func InsertGenre(t testing.TB, pool *pgxpool.Pool, name string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(),
		`INSERT INTO genre (name) VALUES ($1) RETURNING id::text`, name,
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert genre %q: %v", name, err)
	}
	return id
}

func InsertContributor(t testing.TB, pool *pgxpool.Pool, fullName string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(),
		`INSERT INTO contributor (full_name) VALUES ($1) RETURNING id::text`, fullName,
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert contributor %q: %v", fullName, err)
	}
	return id
}

func LinkGenre(t testing.TB, pool *pgxpool.Pool, bookID, genreID string) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO bookgenre (book_id, genre_id) VALUES ($1, $2)`, bookID, genreID)
	if err != nil {
		t.Fatalf("link genre: %v", err)
	}
}

func LinkContributor(t testing.TB, pool *pgxpool.Pool, bookID, contributorID, role string) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO bookcontributor (book_id, contributor_id, role) VALUES ($1, $2, $3::contributor_role)`,
		bookID, contributorID, role)
	if err != nil {
		t.Fatalf("link contributor: %v", err)
	}
}
