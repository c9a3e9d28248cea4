package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pustakbhandar/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func seedBook(t *testing.T, db *gorm.DB, title string, createdAt time.Time) model.Book {
	t.Helper()

	book := model.Book{
		Title:         title,
		Author:        "लेखक",
		Genre:         "कथा",
		Price:         decimal.RequireFromString("250.00"),
		StockQuantity: 3,
		CreatedAt:     createdAt,
	}
	require.NoError(t, db.Create(&book).Error)
	return book
}

func TestBookRepository_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookRepository(db)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	seedBook(t, db, "पुरानो", base)
	seedBook(t, db, "नयाँ", base.Add(48*time.Hour))
	seedBook(t, db, "बीचको", base.Add(24*time.Hour))

	books, err := repo.ListNewestFirst(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, []string{"नयाँ", "बीचको", "पुरानो"}, []string{books[0].Title, books[1].Title, books[2].Title})
}

func TestBookRepository_FindByTitleAndAuthor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookRepository(db)
	seeded := seedBook(t, db, "मुनामदन", time.Now())

	found, err := repo.FindByTitleAndAuthor(context.Background(), "मुनामदन", "लेखक")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)

	_, err = repo.FindByTitleAndAuthor(context.Background(), "मुनामदन", "अरू")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAccountRepository_CreateWithProfile(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountRepository(db)
	profiles := NewProfileRepository(db)
	ctx := context.Background()

	name := "सीता"
	account := &model.Account{Email: "sita@example.com", PasswordHash: "hash"}
	require.NoError(t, accounts.CreateWithProfile(ctx, account, &model.Profile{FullName: &name, Role: model.RoleCustomer}))

	byEmail, err := accounts.FindByEmail(ctx, "sita@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)

	byID, err := accounts.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "sita@example.com", byID.Email)

	profile, err := profiles.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "सीता", profile.DisplayName())
	assert.False(t, profile.IsAdmin())
}

func TestAccountRepository_CreateWithProfileRollsBackOnDuplicate(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountRepository(db)
	ctx := context.Background()

	require.NoError(t, accounts.CreateWithProfile(ctx, &model.Account{Email: "dup@example.com", PasswordHash: "x"}, &model.Profile{Role: model.RoleCustomer}))
	err := accounts.CreateWithProfile(ctx, &model.Account{Email: "dup@example.com", PasswordHash: "y"}, &model.Profile{Role: model.RoleCustomer})
	assert.Error(t, err)

	var profiles int64
	require.NoError(t, db.Model(&model.Profile{}).Count(&profiles).Error)
	assert.Equal(t, int64(1), profiles)
}

func TestProfileRepository_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewProfileRepository(db).FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartItemRepository_UpsertOverwritesExistingLine(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCartItemRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	book := seedBook(t, db, "शिरीषको फूल", time.Now())

	require.NoError(t, repo.Upsert(ctx, &model.CartItem{UserID: userID, BookID: book.ID, Quantity: 3}, model.CartItemConflictTarget))
	require.NoError(t, repo.Upsert(ctx, &model.CartItem{UserID: userID, BookID: book.ID, Quantity: 1}, model.CartItemConflictTarget))

	items, err := repo.FindByUserWithBooks(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
	require.NotNil(t, items[0].Book)
	assert.Equal(t, "शिरीषको फूल", items[0].Book.Title)
}

func TestCartItemRepository_FindByUserScopesRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCartItemRepository(db)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	first := seedBook(t, db, "एक", time.Now())
	second := seedBook(t, db, "दुई", time.Now())

	require.NoError(t, repo.Upsert(ctx, &model.CartItem{UserID: alice, BookID: first.ID, Quantity: 1}, model.CartItemConflictTarget))
	require.NoError(t, repo.Upsert(ctx, &model.CartItem{UserID: alice, BookID: second.ID, Quantity: 1}, model.CartItemConflictTarget))
	require.NoError(t, repo.Upsert(ctx, &model.CartItem{UserID: bob, BookID: first.ID, Quantity: 1}, model.CartItemConflictTarget))

	items, err := repo.FindByUserWithBooks(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = repo.FindByUserWithBooks(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartItemRepository_UpsertRejectsEmptyConflictTarget(t *testing.T) {
	db := setupTestDB(t)

	err := NewCartItemRepository(db).Upsert(context.Background(), &model.CartItem{UserID: uuid.New(), BookID: uuid.New(), Quantity: 1}, " , ")
	assert.ErrorContains(t, err, "empty conflict target")
}
