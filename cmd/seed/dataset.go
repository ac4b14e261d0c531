package main

import (
	"fmt"
	"math"
	"math/rand"

	"bookcatalog/internal/entity"

	"github.com/google/uuid"
)

type dataset struct {
	genres           []entity.Genre
	contributors     []entity.Contributor
	books            []entity.Book
	genreLinks       []entity.BookGenre
	contributorLinks []entity.BookContributor
}

var genreNames = []string{
	"Science Fiction", "Fantasy", "History", "Science", "Mystery",
	"Biography", "Philosophy", "Poetry", "Children", "Romance",
}

var words = []string{
	"Ocean", "Mountain", "River", "Forest", "Desert", "City", "Village",
	"Castle", "Garden", "Bridge", "Tower", "Island", "Valley", "Lake",
}

type classic struct {
	title  string
	year   int
	rating float64
	author string
	genres []string
}

var classics = []classic{
	{"Dune", 1965, 9.0, "Frank Herbert", []string{"Science Fiction"}},
	{"Dune Messiah", 1969, 7.5, "Frank Herbert", []string{"Science Fiction"}},
	{"The Little Prince", 1943, 8.7, "Antoine de Saint-Exupéry", []string{"Children", "Philosophy"}},
	{"The Name of the Rose", 1980, 8.4, "Umberto Eco", []string{"Mystery", "History"}},
	{"Cosmos", 1980, 8.9, "Carl Sagan", []string{"Science"}},
}

// buildDataset returns the fixed classics followed by n generated books.
// Generated books leave rating or year empty now and then so that NULL
// ordering is visible in the listing.
func buildDataset(n int, rng *rand.Rand) dataset {
	var ds dataset

	genreIDs := make(map[string]string, len(genreNames))
	for _, name := range genreNames {
		g := entity.Genre{ID: uuid.NewString(), Name: name}
		genreIDs[name] = g.ID
		ds.genres = append(ds.genres, g)
	}

	authors := make(map[string]string)
	contributor := func(name string) string {
		if id, ok := authors[name]; ok {
			return id
		}
		c := entity.Contributor{ID: uuid.NewString(), FullName: name}
		authors[name] = c.ID
		ds.contributors = append(ds.contributors, c)
		return c.ID
	}

	for _, c := range classics {
		b := entity.Book{
			ID:            uuid.NewString(),
			Title:         c.title,
			Rating:        ptr(c.rating),
			PublishedYear: ptr(c.year),
		}
		ds.books = append(ds.books, b)
		for _, name := range c.genres {
			ds.genreLinks = append(ds.genreLinks, entity.BookGenre{BookID: b.ID, GenreID: genreIDs[name]})
		}
		ds.contributorLinks = append(ds.contributorLinks, entity.BookContributor{
			BookID: b.ID, ContributorID: contributor(c.author), Role: entity.RoleAuthor,
		})
	}

	illustrator := contributor("Jean Giraud")
	for i := 0; i < n; i++ {
		b := entity.Book{
			ID:          uuid.NewString(),
			Title:       fmt.Sprintf("The %s of %s %d", pick(rng, words), pick(rng, words), i+1),
			Description: ptr(fmt.Sprintf("A book about the %s.", pick(rng, words))),
		}
		if rng.Intn(8) != 0 {
			b.Rating = ptr(math.Round(rng.Float64()*100) / 10)
		}
		if rng.Intn(10) != 0 {
			b.PublishedYear = ptr(1900 + rng.Intn(125))
		}
		ds.books = append(ds.books, b)

		first := rng.Intn(len(genreNames))
		ds.genreLinks = append(ds.genreLinks, entity.BookGenre{BookID: b.ID, GenreID: ds.genres[first].ID})
		if rng.Intn(4) == 0 {
			second := (first + 1 + rng.Intn(len(genreNames)-1)) % len(genreNames)
			ds.genreLinks = append(ds.genreLinks, entity.BookGenre{BookID: b.ID, GenreID: ds.genres[second].ID})
		}

		author := contributor(fmt.Sprintf("Author %s %d", pick(rng, words), i%50))
		ds.contributorLinks = append(ds.contributorLinks, entity.BookContributor{
			BookID: b.ID, ContributorID: author, Role: entity.RoleAuthor,
		})
		if rng.Intn(6) == 0 {
			ds.contributorLinks = append(ds.contributorLinks, entity.BookContributor{
				BookID: b.ID, ContributorID: illustrator, Role: entity.RoleIllustrator,
			})
		}
	}
	return ds
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.Intn(len(from))]
}

func ptr[T any](v T) *T { return &v }
