package storefront

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"pustakbhandar/internal/model"
)

// drawnGenres includes near misses that must not match.
var drawnGenres = []string{"कथा", "निबन्ध", "उपन्यास", "इतिहास", "कविता", "विज्ञान कथा", "डरावनी", "रोमान्स", "Kathaa", "कथा "}

func bookGen() *rapid.Generator[model.Book] {
	return rapid.Custom(func(t *rapid.T) model.Book {
		return model.Book{
			ID:            uuid.New(),
			Title:         rapid.StringN(1, 20, -1).Draw(t, "title"),
			Genre:         rapid.SampledFrom(drawnGenres).Draw(t, "genre"),
			StockQuantity: rapid.IntRange(0, 5).Draw(t, "stock"),
		}
	})
}

func TestFilterByGenre_AllReturnsListUnchanged(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		books := rapid.SliceOf(bookGen()).Draw(t, "books")

		got := FilterByGenre(books, GenreAll)

		if len(got) != len(books) {
			t.Fatalf("expected %d books, got %d", len(books), len(got))
		}
		for i := range books {
			if got[i].ID != books[i].ID {
				t.Fatalf("order changed at %d", i)
			}
		}
	})
}

func TestFilterByGenre_ExactSubsetInOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		books := rapid.SliceOf(bookGen()).Draw(t, "books")
		genre := rapid.SampledFrom(Genres[1:]).Draw(t, "selected")

		got := FilterByGenre(books, genre)

		var want []uuid.UUID
		for _, b := range books {
			if b.Genre == genre {
				want = append(want, b.ID)
			}
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d matches, got %d", len(want), len(got))
		}
		for i, b := range got {
			if b.Genre != genre || b.ID != want[i] {
				t.Fatalf("unexpected book at %d: %+v", i, b)
			}
		}
	})
}

func TestFilterByGenre_NoMatchesIsEmpty(t *testing.T) {
	books := []model.Book{{Title: "क", Genre: "कथा"}, {Title: "ख", Genre: "कविता"}}

	got := FilterByGenre(books, "डरावनी")
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, FilterByGenre(nil, "कथा"))
}

func TestNormalizeGenre(t *testing.T) {
	assert.Equal(t, "कविता", NormalizeGenre("कविता"))
	assert.Equal(t, GenreAll, NormalizeGenre("poetry"))
	assert.Equal(t, GenreAll, NormalizeGenre(""))
	assert.True(t, IsGenre("विज्ञान कथा"))
	assert.False(t, IsGenre("विज्ञान"))
}
