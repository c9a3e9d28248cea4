package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pustakbhandar/internal/storefront"
)

func TestToBooksSkipsInvalidEntries(t *testing.T) {
	books, skipped := toBooks([]SeedBookData{
		{Title: " मुनामदन ", Author: "देवकोटा", Genre: "कविता", Price: "250.50", StockQuantity: 3},
		{Title: "", Author: "कोही", Price: "100"},
		{Title: "मूल्य छैन", Author: "कोही", Price: "free"},
		{Title: "ऋण", Author: "कोही", Price: "-1"},
		{Title: "स्टक", Author: "कोही", Price: "10", StockQuantity: -2},
	}, zerolog.Nop())

	assert.Equal(t, 4, skipped)
	require.Len(t, books, 1)
	assert.Equal(t, "मुनामदन", books[0].Title)
	assert.Equal(t, "250.5", books[0].Price.String())
}

func TestDefaultCatalogIsValid(t *testing.T) {
	books, skipped := toBooks(defaultCatalog, zerolog.Nop())
	assert.Zero(t, skipped)
	for _, book := range books {
		assert.True(t, storefront.IsGenre(book.Genre), book.Genre)
	}
}

func TestLoadSeedDataFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"बसाइँ","author":"क्षत्री","genre":"उपन्यास","price":"300","stock_quantity":2}]`), 0o600))

	entries, err := loadSeedData(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].StockQuantity)
}

func TestLoadSeedDataFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"title":"दोषी चश्मा","author":"कोइराला","price":"200"}]`))
	}))
	defer srv.Close()

	entries, err := loadSeedData(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "दोषी चश्मा", entries[0].Title)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	_, err = loadSeedData(failing.URL)
	assert.ErrorContains(t, err, "status code: 500")
}
