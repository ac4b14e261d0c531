package book

import (
	"errors"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
)

const (
	dialectPostgres = "postgres"

	tableBook            = "book"
	tableBookGenre       = "bookgenre"
	tableBookContributor = "bookcontributor"
	tableContributor     = "contributor"

	aliasBook            = "b"
	aliasBookGenre       = "bg"
	aliasBookContributor = "bc"
	aliasContributor     = "c"
)

var (
	ErrBuildingQueryFailed = errors.New("building query failed")

	dialect = goqu.Dialect(dialectPostgres)

	bookColumns = []any{
		goqu.I("b.id"),
		goqu.I("b.title"),
		goqu.I("b.rating"),
		goqu.I("b.description"),
		goqu.I("b.published_year"),
		goqu.I("b.created_at"),
		goqu.I("b.updated_at"),
	}

	sortColumns = map[SortField]exp.IdentifierExpression{
		SortTitle:         goqu.I("b.title"),
		SortRating:        goqu.I("b.rating"),
		SortPublishedYear: goqu.I("b.published_year"),
	}

	likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

// filterFunc returns the predicate for one optional filter, or nil when the
// query does not set it.
type filterFunc func(q Query) exp.Expression

// filters are folded, in order, onto the base query. New filters are added here.
var filters = []filterFunc{
	titleContains,
	publishedYearEquals,
	ratingAtLeast,
	ratingAtMost,
	inGenre,
}

func titleContains(q Query) exp.Expression {
	if q.Q == "" {
		return nil
	}
	return goqu.I("b.title").ILike("%" + likeEscaper.Replace(q.Q) + "%")
}

func publishedYearEquals(q Query) exp.Expression {
	if q.PublishedYear == nil {
		return nil
	}
	return goqu.I("b.published_year").Eq(*q.PublishedYear)
}

func ratingAtLeast(q Query) exp.Expression {
	if q.RatingMin == nil {
		return nil
	}
	return goqu.I("b.rating").Gte(*q.RatingMin)
}

func ratingAtMost(q Query) exp.Expression {
	if q.RatingMax == nil {
		return nil
	}
	return goqu.I("b.rating").Lte(*q.RatingMax)
}

// inGenre is a semi-join, so a book is returned and counted once no matter
// how many genre rows it has.
func inGenre(q Query) exp.Expression {
	if q.GenreID == nil {
		return nil
	}
	sub := dialect.
		From(goqu.T(tableBookGenre).As(aliasBookGenre)).
		Prepared(true).
		Select(goqu.I("bg.book_id")).
		Where(goqu.I("bg.genre_id").Eq(q.GenreID.String()))
	return goqu.I("b.id").In(sub)
}

func whereClause(q Query) []exp.Expression {
	where := make([]exp.Expression, 0, len(filters))
	for _, f := range filters {
		if e := f(q); e != nil {
			where = append(where, e)
		}
	}
	return where
}

func filteredBooks(q Query) *goqu.SelectDataset {
	ds := dialect.From(goqu.T(tableBook).As(aliasBook)).Prepared(true)
	if where := whereClause(q); len(where) > 0 {
		ds = ds.Where(goqu.And(where...))
	}
	return ds
}

// orderBy sorts by the requested column with NULLs last in both directions and
// breaks ties by id so pages never overlap.
func orderBy(q Query) []exp.OrderedExpression {
	col, ok := sortColumns[q.Sort]
	if !ok {
		col = sortColumns[SortTitle]
	}

	primary := col.Asc().NullsLast()
	if q.Order == OrderDesc {
		primary = col.Desc().NullsLast()
	}
	return []exp.OrderedExpression{primary, goqu.I("b.id").Asc()}
}

func buildCountQuery(q Query) (string, []any, error) {
	sql, args, err := filteredBooks(q).Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, err)
	}
	return sql, args, nil
}

func buildPageQuery(q Query) (string, []any, error) {
	sql, args, err := filteredBooks(q).
		Select(bookColumns...).
		Order(orderBy(q)...).
		Offset(uint(q.Offset())).
		Limit(uint(q.PageSize)).
		ToSQL()
	if err != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, err)
	}
	return sql, args, nil
}

func buildGetQuery(id string) (string, []any, error) {
	sql, args, err := dialect.
		From(goqu.T(tableBook).As(aliasBook)).
		Prepared(true).
		Select(bookColumns...).
		Where(goqu.I("b.id").Eq(id)).
		ToSQL()
	if err != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, err)
	}
	return sql, args, nil
}

func buildGenreLinksQuery(bookIDs []string) (string, []any, error) {
	sql, args, err := dialect.
		From(goqu.T(tableBookGenre).As(aliasBookGenre)).
		Prepared(true).
		Select(goqu.I("bg.book_id"), goqu.I("bg.genre_id")).
		Where(goqu.I("bg.book_id").In(bookIDs)).
		Order(goqu.I("bg.book_id").Asc(), goqu.I("bg.genre_id").Asc()).
		ToSQL()
	if err != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, err)
	}
	return sql, args, nil
}

func buildContributorLinksQuery(bookIDs []string) (string, []any, error) {
	sql, args, err := dialect.
		From(goqu.T(tableBookContributor).As(aliasBookContributor)).
		Prepared(true).
		InnerJoin(
			goqu.T(tableContributor).As(aliasContributor),
			goqu.On(goqu.I("c.id").Eq(goqu.I("bc.contributor_id"))),
		).
		Select(
			goqu.I("bc.book_id"),
			goqu.I("c.id"),
			goqu.I("c.full_name"),
			goqu.Cast(goqu.I("bc.role"), "TEXT"),
		).
		Where(goqu.I("bc.book_id").In(bookIDs)).
		Order(goqu.I("bc.book_id").Asc(), goqu.I("bc.role").Asc(), goqu.I("c.full_name").Asc()).
		ToSQL()
	if err != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, err)
	}
	return sql, args, nil
}
