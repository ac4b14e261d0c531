package book

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"bookcatalog/internal/entity"
	"bookcatalog/internal/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

type PostgresRepo struct {
	db       postgres.DB
	timeout  time.Duration
	snapshot bool
	logger   *slog.Logger
}

func NewPostgresRepo(db postgres.DB, opts ...Option) *PostgresRepo {
	r := &PostgresRepo{db: db, timeout: defaultQueryTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// List runs the filtered count and the page fetch, then attaches genre and
// contributor links to the returned rows.
func (r *PostgresRepo) List(ctx context.Context, q Query) (Page, error) {
	countSQL, countArgs, err := buildCountQuery(q)
	if err != nil {
		return Page{}, err
	}
	pageSQL, pageArgs, err := buildPageQuery(q)
	if err != nil {
		return Page{}, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		items []Item
		total int
	)
	read := func(ctx context.Context, db postgres.Querier, concurrentLinks bool) error {
		start := time.Now()
		if err := db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
			return &StorageError{Op: "count books", Err: err}
		}
		r.logQuery(ctx, countSQL, time.Since(start))

		start = time.Now()
		var err error
		items, err = queryItems(ctx, db, pageSQL, pageArgs)
		if err != nil {
			return &StorageError{Op: "list books", Err: err}
		}
		r.logQuery(ctx, pageSQL, time.Since(start))

		return r.attachLinks(ctx, db, items, concurrentLinks)
	}

	if r.snapshot {
		err = postgres.ReadOnlySnapshot(timeoutCtx, r.db, func(tx pgx.Tx) error {
			return read(timeoutCtx, tx, false)
		})
		var storageErr *StorageError
		if err != nil && !errors.As(err, &storageErr) {
			err = &StorageError{Op: "snapshot read", Err: err}
		}
	} else {
		err = read(timeoutCtx, r.db, true)
	}
	if err != nil {
		return Page{}, err
	}

	return NewPage(items, total, q), nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id uuid.UUID) (Item, error) {
	sql, args, err := buildGetQuery(id.String())
	if err != nil {
		return Item{}, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	items, err := queryItems(timeoutCtx, r.db, sql, args)
	if err != nil {
		return Item{}, &StorageError{Op: "get book", Err: err}
	}
	if len(items) == 0 {
		return Item{}, ErrNotFound
	}
	if err := r.attachLinks(timeoutCtx, r.db, items, true); err != nil {
		return Item{}, err
	}

	normalizeLinks(items)
	return items[0], nil
}

func queryItems(ctx context.Context, db postgres.Querier, sql string, args []any) ([]Item, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Rating, &b.Description, &b.PublishedYear,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, Item{Book: b})
	}
	return out, rows.Err()
}

// attachLinks loads the genre and contributor links of items with one query
// per link table. Queries share a connection inside a transaction, so they
// only run concurrently against the pool.
func (r *PostgresRepo) attachLinks(ctx context.Context, db postgres.Querier, items []Item, concurrent bool) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	var (
		genres       map[string][]string
		contributors map[string][]ContributorLink
	)
	loadGenres := func(ctx context.Context) (err error) {
		genres, err = r.genreLinks(ctx, db, ids)
		return err
	}
	loadContributors := func(ctx context.Context) (err error) {
		contributors, err = r.contributorLinks(ctx, db, ids)
		return err
	}

	if concurrent {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return loadGenres(gctx) })
		g.Go(func() error { return loadContributors(gctx) })
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		if err := loadGenres(ctx); err != nil {
			return err
		}
		if err := loadContributors(ctx); err != nil {
			return err
		}
	}

	for i := range items {
		items[i].GenreIDs = genres[items[i].ID]
		items[i].Contributors = contributors[items[i].ID]
	}
	return nil
}

func (r *PostgresRepo) genreLinks(ctx context.Context, db postgres.Querier, bookIDs []string) (map[string][]string, error) {
	sql, args, err := buildGenreLinksQuery(bookIDs)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, &StorageError{Op: "load genre links", Err: err}
	}
	defer rows.Close()

	out := make(map[string][]string, len(bookIDs))
	for rows.Next() {
		var bookID, genreID string
		if err := rows.Scan(&bookID, &genreID); err != nil {
			return nil, &StorageError{Op: "scan genre link", Err: err}
		}
		out[bookID] = append(out[bookID], genreID)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "load genre links", Err: err}
	}
	r.logQuery(ctx, sql, time.Since(start))
	return out, nil
}

func (r *PostgresRepo) contributorLinks(ctx context.Context, db postgres.Querier, bookIDs []string) (map[string][]ContributorLink, error) {
	sql, args, err := buildContributorLinksQuery(bookIDs)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, &StorageError{Op: "load contributor links", Err: err}
	}
	defer rows.Close()

	out := make(map[string][]ContributorLink, len(bookIDs))
	for rows.Next() {
		var (
			bookID string
			link   ContributorLink
			role   string
		)
		if err := rows.Scan(&bookID, &link.ID, &link.FullName, &role); err != nil {
			return nil, &StorageError{Op: "scan contributor link", Err: err}
		}
		link.Role = entity.ContributorRole(role)
		out[bookID] = append(out[bookID], link)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "load contributor links", Err: err}
	}
	r.logQuery(ctx, sql, time.Since(start))
	return out, nil
}

func (r *PostgresRepo) logQuery(ctx context.Context, sql string, d time.Duration) {
	if r.logger == nil {
		return
	}
	r.logger.DebugContext(ctx, "executed sql", "query", sql, "duration_ms", d.Milliseconds())
}
