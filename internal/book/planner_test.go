package book

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestBuildCountQuery_NoFilters(t *testing.T) {
	sql, args, err := buildCountQuery(DefaultQuery())
	require.NoError(t, err)

	assert.Equal(t, `SELECT COUNT(*) FROM "book" AS "b"`, sql)
	assert.Empty(t, args)
}

func TestBuildCountQuery_FoldsFilters(t *testing.T) {
	genreID := uuid.New()
	q := DefaultQuery()
	q.Q = "dune"
	q.PublishedYear = ptr(1965)
	q.RatingMin = ptr(5.0)
	q.RatingMax = ptr(9.0)
	q.GenreID = &genreID

	sql, args, err := buildCountQuery(q)
	require.NoError(t, err)

	assert.Contains(t, sql, `SELECT COUNT(*) FROM "book" AS "b" WHERE`)
	assert.Contains(t, sql, `"b"."title" ILIKE`)
	assert.Contains(t, sql, `"b"."published_year" =`)
	assert.Contains(t, sql, `"b"."rating" >=`)
	assert.Contains(t, sql, `"b"."rating" <=`)
	assert.Contains(t, sql, `"b"."id" IN ((SELECT "bg"."book_id" FROM "bookgenre" AS "bg"`)
	assert.NotContains(t, sql, "JOIN")
	assert.NotContains(t, sql, "ORDER BY")
	assert.NotContains(t, sql, "LIMIT")

	assert.Contains(t, args, "%dune%")
	assert.Contains(t, args, int64(1965))
	assert.Contains(t, args, 5.0)
	assert.Contains(t, args, 9.0)
	assert.Contains(t, args, genreID.String())
}

func TestBuildCountQuery_EscapesLikeWildcards(t *testing.T) {
	q := DefaultQuery()
	q.Q = `50%_off\`

	_, args, err := buildCountQuery(q)
	require.NoError(t, err)

	assert.Contains(t, args, `%50\%\_off\\%`)
}

func TestBuildPageQuery_Ordering(t *testing.T) {
	testCases := []struct {
		sort  SortField
		order Order
		want  string
	}{
		{SortTitle, OrderAsc, `ORDER BY "b"."title" ASC NULLS LAST, "b"."id" ASC`},
		{SortRating, OrderDesc, `ORDER BY "b"."rating" DESC NULLS LAST, "b"."id" ASC`},
		{SortPublishedYear, OrderAsc, `ORDER BY "b"."published_year" ASC NULLS LAST, "b"."id" ASC`},
		{SortPublishedYear, OrderDesc, `ORDER BY "b"."published_year" DESC NULLS LAST, "b"."id" ASC`},
	}

	for _, tc := range testCases {
		t.Run(string(tc.sort)+"_"+string(tc.order), func(t *testing.T) {
			q := DefaultQuery()
			q.Sort = tc.sort
			q.Order = tc.order

			sql, _, err := buildPageQuery(q)
			require.NoError(t, err)
			assert.Contains(t, sql, tc.want)
		})
	}
}

func TestBuildPageQuery_Pagination(t *testing.T) {
	q := DefaultQuery()
	q.Page = 3
	q.PageSize = 20

	sql, _, err := buildPageQuery(q)
	require.NoError(t, err)

	assert.Contains(t, sql, `SELECT "b"."id", "b"."title", "b"."rating", "b"."description", "b"."published_year", "b"."created_at", "b"."updated_at" FROM "book" AS "b"`)
	assert.Contains(t, sql, "LIMIT")
	assert.Contains(t, sql, "OFFSET")
}

func TestBuildLinkQueries(t *testing.T) {
	ids := []string{uuid.NewString(), uuid.NewString()}

	sql, args, err := buildGenreLinksQuery(ids)
	require.NoError(t, err)
	assert.Contains(t, sql, `FROM "bookgenre" AS "bg"`)
	assert.Contains(t, sql, `"bg"."book_id" IN (`)
	assert.Len(t, args, 2)

	sql, args, err = buildContributorLinksQuery(ids)
	require.NoError(t, err)
	assert.Contains(t, sql, `INNER JOIN "contributor" AS "c"`)
	assert.Contains(t, sql, `CAST("bc"."role" AS TEXT)`)
	assert.Len(t, args, 2)
}

func TestWhereClause_OnlySetFilters(t *testing.T) {
	q := DefaultQuery()
	assert.Empty(t, whereClause(q))

	q.RatingMax = ptr(3.0)
	assert.Len(t, whereClause(q), 1)

	q.Q = "messiah"
	assert.Len(t, whereClause(q), 2)
}
