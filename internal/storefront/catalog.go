package storefront

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pustakbhandar/internal/model"
)

// BookSource fetches the catalog.
type BookSource interface {
	FetchBooks(ctx context.Context) ([]model.Book, error)
}

// Catalog holds the last fetched book list and the selected genre.
type Catalog struct {
	source BookSource
	ui     UI
	logger zerolog.Logger

	books []model.Book
	genre string
}

func NewCatalog(source BookSource, ui UI, logger zerolog.Logger) *Catalog {
	return &Catalog{source: source, ui: ui, logger: logger, genre: GenreAll}
}

// Fetch replaces the list on success. On failure the shopper is told and the
// previous list stays.
func (c *Catalog) Fetch(ctx context.Context) error {
	books, err := c.source.FetchBooks(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("fetch books")
		c.ui.Toast(ToastBooksFailed)
		return err
	}
	if books == nil {
		books = []model.Book{}
	}
	c.books = books
	return nil
}

func (c *Catalog) SelectGenre(genre string) {
	c.genre = genre
}

func (c *Catalog) Genre() string {
	return c.genre
}

// Visible is the list filtered by the selected genre.
func (c *Catalog) Visible() []model.Book {
	return FilterByGenre(c.books, c.genre)
}

// Find looks a book up in the fetched list.
func (c *Catalog) Find(id uuid.UUID) (model.Book, bool) {
	for _, book := range c.books {
		if book.ID == id {
			return book, true
		}
	}
	return model.Book{}, false
}
