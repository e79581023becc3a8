package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"stock_alert_backend/internal/feature/watchlist/domain/entity"
)

// minThreshold is the smallest accepted bound.
var minThreshold = decimal.RequireFromString("0.01")

var symbolPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// WatchEntryRepository abstracts the persistence layer for watch entries.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type WatchEntryRepository interface {
	// Create persists a new entry and fills its ID and CreatedAt.
	Create(ctx context.Context, e *entity.WatchEntry) error

	// FindByID returns ErrWatchEntryNotFound when no entry has the ID.
	FindByID(ctx context.Context, id uint) (*entity.WatchEntry, error)

	// FindActiveByOwner returns the owner's active entries, newest first.
	FindActiveByOwner(ctx context.Context, ownerID uint) ([]entity.WatchEntry, error)

	// ExistsActive reports whether the owner has an active entry for symbol.
	ExistsActive(ctx context.Context, ownerID uint, symbol string) (bool, error)

	// Update saves thresholds and the active flag of an existing entry.
	Update(ctx context.Context, e *entity.WatchEntry) error

	// ListActive returns every active entry across all owners.
	ListActive(ctx context.Context) ([]entity.WatchEntry, error)
}

// WatchlistUsecase manages the watch entries of each user.
type WatchlistUsecase struct {
	repo WatchEntryRepository
}

// NewWatchlistUsecase creates a new WatchlistUsecase.
func NewWatchlistUsecase(repo WatchEntryRepository) *WatchlistUsecase {
	return &WatchlistUsecase{repo: repo}
}

// NormalizeSymbol upper-cases and trims symbol, then checks its format.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	return s, nil
}

// ValidateThresholds checks that at least one bound is set, each set bound is
// at least 0.01, and min < max when both are set.
func ValidateThresholds(minPrice, maxPrice decimal.NullDecimal) error {
	if !minPrice.Valid && !maxPrice.Valid {
		return fmt.Errorf("%w: at least one of min or max is required", ErrInvalidThresholds)
	}
	if minPrice.Valid && minPrice.Decimal.LessThan(minThreshold) {
		return fmt.Errorf("%w: min must be at least %s", ErrInvalidThresholds, minThreshold)
	}
	if maxPrice.Valid && maxPrice.Decimal.LessThan(minThreshold) {
		return fmt.Errorf("%w: max must be at least %s", ErrInvalidThresholds, minThreshold)
	}
	if minPrice.Valid && maxPrice.Valid && minPrice.Decimal.GreaterThanOrEqual(maxPrice.Decimal) {
		return fmt.Errorf("%w: min must be less than max", ErrInvalidThresholds)
	}
	return nil
}

// Add starts watching symbol for ownerID.
func (u *WatchlistUsecase) Add(ctx context.Context, ownerID uint, symbol string, minPrice, maxPrice decimal.NullDecimal) (*entity.WatchEntry, error) {
	s, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if err := ValidateThresholds(minPrice, maxPrice); err != nil {
		return nil, err
	}

	exists, err := u.repo.ExistsActive(ctx, ownerID, s)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyWatching
	}

	e := &entity.WatchEntry{
		OwnerID:  ownerID,
		Symbol:   s,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Active:   true,
	}
	if err := u.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListForOwner returns the owner's active entries.
func (u *WatchlistUsecase) ListForOwner(ctx context.Context, ownerID uint) ([]entity.WatchEntry, error) {
	return u.repo.FindActiveByOwner(ctx, ownerID)
}

// Update replaces the thresholds of an entry owned by ownerID.
func (u *WatchlistUsecase) Update(ctx context.Context, ownerID, id uint, minPrice, maxPrice decimal.NullDecimal) (*entity.WatchEntry, error) {
	e, err := u.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateThresholds(minPrice, maxPrice); err != nil {
		return nil, err
	}

	e.MinPrice = minPrice
	e.MaxPrice = maxPrice
	if err := u.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Deactivate soft-deletes an entry owned by ownerID.
func (u *WatchlistUsecase) Deactivate(ctx context.Context, ownerID, id uint) error {
	e, err := u.owned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !e.Active {
		return nil
	}
	e.Active = false
	return u.repo.Update(ctx, e)
}

// ListActive returns every active entry. It is the registry read used by the monitoring scheduler.
func (u *WatchlistUsecase) ListActive(ctx context.Context) ([]entity.WatchEntry, error) {
	return u.repo.ListActive(ctx)
}

func (u *WatchlistUsecase) owned(ctx context.Context, ownerID, id uint) (*entity.WatchEntry, error) {
	e, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return e, nil
}
