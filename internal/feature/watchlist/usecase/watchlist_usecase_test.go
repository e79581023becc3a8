package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_alert_backend/internal/feature/watchlist/domain/entity"
)

// mockWatchEntryRepository is a mock implementation of the WatchEntryRepository interface.
type mockWatchEntryRepository struct {
	CreateFunc       func(e *entity.WatchEntry) error
	FindByIDFunc     func(id uint) (*entity.WatchEntry, error)
	ExistsActiveFunc func(ownerID uint, symbol string) (bool, error)
	UpdateFunc       func(e *entity.WatchEntry) error

	CreateCalls int
	UpdateCalls int
}

func (m *mockWatchEntryRepository) Create(_ context.Context, e *entity.WatchEntry) error {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(e)
	}
	e.ID = 1
	return nil
}

func (m *mockWatchEntryRepository) FindByID(_ context.Context, id uint) (*entity.WatchEntry, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(id)
	}
	return nil, ErrWatchEntryNotFound
}

func (m *mockWatchEntryRepository) FindActiveByOwner(_ context.Context, ownerID uint) ([]entity.WatchEntry, error) {
	return nil, nil
}

func (m *mockWatchEntryRepository) ExistsActive(_ context.Context, ownerID uint, symbol string) (bool, error) {
	if m.ExistsActiveFunc != nil {
		return m.ExistsActiveFunc(ownerID, symbol)
	}
	return false, nil
}

func (m *mockWatchEntryRepository) Update(_ context.Context, e *entity.WatchEntry) error {
	m.UpdateCalls++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(e)
	}
	return nil
}

func (m *mockWatchEntryRepository) ListActive(_ context.Context) ([]entity.WatchEntry, error) {
	return nil, nil
}

func nd(s string) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.RequireFromString(s)) }

var none = decimal.NullDecimal{}

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "aapl", want: "AAPL"},
		{in: " msft ", want: "MSFT"},
		{in: "A", want: "A"},
		{in: "GOOGL", want: "GOOGL"},
		{in: "TOOLONG", wantErr: true},
		{in: "", wantErr: true},
		{in: "BRK.B", wantErr: true},
		{in: "123", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeSymbol(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSymbol)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateThresholds(t *testing.T) {
	tests := []struct {
		name    string
		min     decimal.NullDecimal
		max     decimal.NullDecimal
		wantErr bool
	}{
		{name: "min only", min: nd("10")},
		{name: "max only", max: nd("10")},
		{name: "both ordered", min: nd("10"), max: nd("20")},
		{name: "smallest bound", min: nd("0.01")},
		{name: "neither", wantErr: true},
		{name: "below 0.01", min: nd("0.009"), wantErr: true},
		{name: "zero max", max: nd("0"), wantErr: true},
		{name: "equal bounds", min: nd("10"), max: nd("10"), wantErr: true},
		{name: "inverted", min: nd("20"), max: nd("10"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThresholds(tt.min, tt.max)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidThresholds)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWatchlistUsecase_Add(t *testing.T) {
	t.Run("success: symbol normalized and entry active", func(t *testing.T) {
		repo := &mockWatchEntryRepository{}
		e, err := NewWatchlistUsecase(repo).Add(context.Background(), 3, "acme", nd("40.00"), none)

		require.NoError(t, err)
		assert.Equal(t, "ACME", e.Symbol)
		assert.Equal(t, uint(3), e.OwnerID)
		assert.True(t, e.Active)
		assert.False(t, e.HasMax())
		assert.Equal(t, 1, repo.CreateCalls)
	})

	t.Run("failure: already watching", func(t *testing.T) {
		repo := &mockWatchEntryRepository{ExistsActiveFunc: func(ownerID uint, symbol string) (bool, error) {
			return symbol == "ACME", nil
		}}
		_, err := NewWatchlistUsecase(repo).Add(context.Background(), 3, "ACME", nd("40"), none)

		assert.ErrorIs(t, err, ErrAlreadyWatching)
		assert.Equal(t, 0, repo.CreateCalls)
	})

	t.Run("failure: invalid input never reaches the repository", func(t *testing.T) {
		repo := &mockWatchEntryRepository{}
		uc := NewWatchlistUsecase(repo)

		_, err := uc.Add(context.Background(), 3, "bad symbol", nd("40"), none)
		assert.ErrorIs(t, err, ErrInvalidSymbol)
		_, err = uc.Add(context.Background(), 3, "ACME", nd("50"), nd("40"))
		assert.ErrorIs(t, err, ErrInvalidThresholds)
		assert.Equal(t, 0, repo.CreateCalls)
	})

	t.Run("failure: repository error is returned", func(t *testing.T) {
		dbErr := errors.New("db down")
		repo := &mockWatchEntryRepository{CreateFunc: func(e *entity.WatchEntry) error { return dbErr }}
		_, err := NewWatchlistUsecase(repo).Add(context.Background(), 3, "ACME", nd("40"), none)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestWatchlistUsecase_UpdateAndDeactivate(t *testing.T) {
	stored := func() *entity.WatchEntry {
		return &entity.WatchEntry{ID: 9, OwnerID: 3, Symbol: "ACME", MinPrice: nd("40"), Active: true}
	}

	t.Run("update replaces both bounds", func(t *testing.T) {
		var saved *entity.WatchEntry
		repo := &mockWatchEntryRepository{
			FindByIDFunc: func(id uint) (*entity.WatchEntry, error) { return stored(), nil },
			UpdateFunc:   func(e *entity.WatchEntry) error { saved = e; return nil },
		}
		e, err := NewWatchlistUsecase(repo).Update(context.Background(), 3, 9, none, nd("100"))

		require.NoError(t, err)
		assert.False(t, e.HasMin(), "min is cleared")
		assert.True(t, saved.MaxPrice.Decimal.Equal(decimal.NewFromInt(100)))
	})

	t.Run("update of someone else's entry is forbidden", func(t *testing.T) {
		repo := &mockWatchEntryRepository{FindByIDFunc: func(id uint) (*entity.WatchEntry, error) { return stored(), nil }}
		_, err := NewWatchlistUsecase(repo).Update(context.Background(), 4, 9, nd("1"), none)

		assert.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, 0, repo.UpdateCalls)
	})

	t.Run("update of unknown entry", func(t *testing.T) {
		_, err := NewWatchlistUsecase(&mockWatchEntryRepository{}).Update(context.Background(), 3, 99, nd("1"), none)
		assert.ErrorIs(t, err, ErrWatchEntryNotFound)
	})

	t.Run("deactivate flips active and keeps the row", func(t *testing.T) {
		var saved *entity.WatchEntry
		repo := &mockWatchEntryRepository{
			FindByIDFunc: func(id uint) (*entity.WatchEntry, error) { return stored(), nil },
			UpdateFunc:   func(e *entity.WatchEntry) error { saved = e; return nil },
		}
		require.NoError(t, NewWatchlistUsecase(repo).Deactivate(context.Background(), 3, 9))
		assert.False(t, saved.Active)
		assert.Equal(t, "ACME", saved.Symbol)
	})

	t.Run("deactivate twice is a no-op", func(t *testing.T) {
		repo := &mockWatchEntryRepository{FindByIDFunc: func(id uint) (*entity.WatchEntry, error) {
			e := stored()
			e.Active = false
			return e, nil
		}}
		require.NoError(t, NewWatchlistUsecase(repo).Deactivate(context.Background(), 3, 9))
		assert.Equal(t, 0, repo.UpdateCalls)
	})

	t.Run("deactivate of someone else's entry is forbidden", func(t *testing.T) {
		repo := &mockWatchEntryRepository{FindByIDFunc: func(id uint) (*entity.WatchEntry, error) { return stored(), nil }}
		assert.ErrorIs(t, NewWatchlistUsecase(repo).Deactivate(context.Background(), 4, 9), ErrForbidden)
	})
}
