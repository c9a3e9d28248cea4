package storefront

import "pustakbhandar/internal/model"

// GenreAll selects every book.
const GenreAll = "सबै"

// Genres lists the filter choices in display order, GenreAll first.
var Genres = []string{GenreAll, "कथा", "निबन्ध", "उपन्यास", "इतिहास", "कविता", "विज्ञान कथा", "डरावनी", "रोमान्स"}

// IsGenre reports whether g is one of Genres.
func IsGenre(g string) bool {
	for _, known := range Genres {
		if known == g {
			return true
		}
	}
	return false
}

// NormalizeGenre maps anything outside Genres to GenreAll.
func NormalizeGenre(g string) string {
	if IsGenre(g) {
		return g
	}
	return GenreAll
}

// FilterByGenre returns the books whose genre equals genre exactly, in their
// original order. GenreAll returns books as given.
func FilterByGenre(books []model.Book, genre string) []model.Book {
	if genre == GenreAll {
		return books
	}
	filtered := make([]model.Book, 0, len(books))
	for _, book := range books {
		if book.Genre == genre {
			filtered = append(filtered, book)
		}
	}
	return filtered
}
