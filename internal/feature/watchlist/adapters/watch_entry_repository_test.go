package adapters

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock_alert_backend/internal/feature/watchlist/domain/entity"
	"stock_alert_backend/internal/feature/watchlist/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")
	require.NoError(t, db.AutoMigrate(&WatchEntryModel{}), "failed to migrate table")
	return db
}

func nd(s string) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.RequireFromString(s)) }

func TestWatchEntryRepository_CreateAndFind(t *testing.T) {
	repo := NewWatchEntryRepository(setupTestDB(t))
	ctx := context.Background()

	e := &entity.WatchEntry{OwnerID: 1, Symbol: "ACME", MinPrice: nd("40.00"), Active: true}
	require.NoError(t, repo.Create(ctx, e))
	assert.NotZero(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())

	got, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACME", got.Symbol)
	assert.True(t, got.MinPrice.Valid)
	assert.True(t, got.MinPrice.Decimal.Equal(decimal.RequireFromString("40")))
	assert.False(t, got.MaxPrice.Valid, "unset bound stays NULL")
	assert.True(t, got.Active)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, usecase.ErrWatchEntryNotFound)
}

func TestWatchEntryRepository_ActiveQueries(t *testing.T) {
	repo := NewWatchEntryRepository(setupTestDB(t))
	ctx := context.Background()

	a := &entity.WatchEntry{OwnerID: 1, Symbol: "AAA", MinPrice: nd("1"), Active: true}
	b := &entity.WatchEntry{OwnerID: 1, Symbol: "BBB", MaxPrice: nd("2"), Active: true}
	c := &entity.WatchEntry{OwnerID: 2, Symbol: "AAA", MinPrice: nd("3"), Active: true}
	for _, e := range []*entity.WatchEntry{a, b, c} {
		require.NoError(t, repo.Create(ctx, e))
	}
	b.Active = false
	require.NoError(t, repo.Update(ctx, b))

	t.Run("ListActive excludes deactivated entries", func(t *testing.T) {
		all, err := repo.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, a.ID, all[0].ID)
		assert.Equal(t, c.ID, all[1].ID)
	})

	t.Run("FindActiveByOwner", func(t *testing.T) {
		mine, err := repo.FindActiveByOwner(ctx, 1)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "AAA", mine[0].Symbol)
	})

	t.Run("ExistsActive", func(t *testing.T) {
		ok, err := repo.ExistsActive(ctx, 1, "AAA")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsActive(ctx, 1, "BBB")
		require.NoError(t, err)
		assert.False(t, ok, "deactivated entry does not block re-adding")
	})

	t.Run("deactivated row is kept", func(t *testing.T) {
		got, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.False(t, got.Active)
	})
}

func TestWatchEntryRepository_Update(t *testing.T) {
	repo := NewWatchEntryRepository(setupTestDB(t))
	ctx := context.Background()

	e := &entity.WatchEntry{OwnerID: 1, Symbol: "ACME", MinPrice: nd("40"), MaxPrice: nd("80"), Active: true}
	require.NoError(t, repo.Create(ctx, e))

	e.MinPrice = decimal.NullDecimal{}
	e.MaxPrice = nd("90.5")
	require.NoError(t, repo.Update(ctx, e))

	got, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, got.MinPrice.Valid, "min cleared to NULL")
	assert.True(t, got.MaxPrice.Decimal.Equal(decimal.RequireFromString("90.5")))

	missing := &entity.WatchEntry{ID: 999, MinPrice: nd("1"), Active: true}
	assert.ErrorIs(t, repo.Update(ctx, missing), usecase.ErrWatchEntryNotFound)
}
