package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pustakbhandar/internal/model"
	"pustakbhandar/internal/repository"
)

// CatalogService maintains the book table for the self-hosted backend.
type CatalogService interface {
	// SeedBooks creates books that do not exist yet and refreshes the rest,
	// matching on title and author.
	SeedBooks(ctx context.Context, books []model.Book) (created int, updated int, err error)
}

type catalogService struct {
	repo repository.BookRepository
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.BookRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) SeedBooks(ctx context.Context, books []model.Book) (int, int, error) {
	created, updated := 0, 0
	for i := range books {
		book := books[i]
		if book.StockQuantity < 0 {
			return created, updated, fmt.Errorf("seed book %q: negative stock", book.Title)
		}

		existing, err := s.repo.FindByTitleAndAuthor(ctx, book.Title, book.Author)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, updated, fmt.Errorf("seed book %q: %w", book.Title, err)
		}

		if existing != nil {
			existing.Genre = book.Genre
			existing.Description = book.Description
			existing.Price = book.Price
			existing.StockQuantity = book.StockQuantity
			if err := s.repo.Update(ctx, existing); err != nil {
				return created, updated, fmt.Errorf("update book %q: %w", book.Title, err)
			}
			updated++
			continue
		}

		if err := s.repo.Create(ctx, &book); err != nil {
			return created, updated, fmt.Errorf("create book %q: %w", book.Title, err)
		}
		created++
	}
	return created, updated, nil
}
