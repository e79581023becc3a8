// Package usecase implements the alert log: recording crossings and the
// owner-facing read operations.
package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"stock_alert_backend/internal/feature/alerts/domain/entity"
)

const (
	// DefaultPageSize is used when a listing asks for a non-positive size.
	DefaultPageSize = 20
	// MaxPageSize caps a single page.
	MaxPageSize = 100
)

// AlertRepository abstracts the persistence layer for alerts.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type AlertRepository interface {
	// Create persists a new alert and fills its ID.
	Create(ctx context.Context, a *entity.Alert) error

	// FindByOwner returns the owner's alerts ordered by TriggeredAt descending.
	FindByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]entity.Alert, error)

	// FindUnreadByOwner returns the owner's unread alerts ordered by TriggeredAt descending.
	FindUnreadByOwner(ctx context.Context, ownerID uint) ([]entity.Alert, error)

	// CountUnreadByOwner returns the number of unread alerts of the owner.
	CountUnreadByOwner(ctx context.Context, ownerID uint) (int64, error)

	// MarkRead flips the owner's alerts with the given ids to read and returns
	// how many rows changed. Ids of other owners are ignored.
	MarkRead(ctx context.Context, ownerID uint, ids []uint) (int64, error)
}

// RecordInput carries one crossing to be written to the log.
type RecordInput struct {
	OwnerID        uint
	WatchEntryID   uint
	Symbol         string
	CurrentPrice   decimal.Decimal
	ThresholdPrice decimal.Decimal
	Kind           entity.Kind
	// TriggeredAt defaults to the current time when zero.
	TriggeredAt time.Time
}

// AlertUsecase is the alert log.
type AlertUsecase struct {
	repo AlertRepository
	now  func() time.Time
}

// NewAlertUsecase creates a new AlertUsecase.
func NewAlertUsecase(repo AlertRepository) *AlertUsecase {
	return &AlertUsecase{repo: repo, now: time.Now}
}

// Record always creates a new alert. It never merges with or suppresses an
// earlier alert for the same entry and kind.
func (u *AlertUsecase) Record(ctx context.Context, in RecordInput) (*entity.Alert, error) {
	if !in.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, in.Kind)
	}
	triggeredAt := in.TriggeredAt
	if triggeredAt.IsZero() {
		triggeredAt = u.now()
	}
	a := &entity.Alert{
		OwnerID:        in.OwnerID,
		WatchEntryID:   in.WatchEntryID,
		Symbol:         in.Symbol,
		CurrentPrice:   in.CurrentPrice,
		ThresholdPrice: in.ThresholdPrice,
		Kind:           in.Kind,
		TriggeredAt:    triggeredAt,
	}
	if err := u.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}
	return a, nil
}

// ListForOwner returns one page of the owner's alerts, newest first.
// page is zero-based.
func (u *AlertUsecase) ListForOwner(ctx context.Context, ownerID uint, page, size int) ([]entity.Alert, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	// page*size must not overflow
	if maxPage := math.MaxInt / size; page > maxPage {
		page = maxPage
	}
	return u.repo.FindByOwner(ctx, ownerID, page*size, size)
}

// ListUnreadForOwner returns all unread alerts of the owner, newest first.
func (u *AlertUsecase) ListUnreadForOwner(ctx context.Context, ownerID uint) ([]entity.Alert, error) {
	return u.repo.FindUnreadByOwner(ctx, ownerID)
}

// CountUnread returns the owner's unread alert count.
func (u *AlertUsecase) CountUnread(ctx context.Context, ownerID uint) (int64, error) {
	return u.repo.CountUnreadByOwner(ctx, ownerID)
}

// MarkRead marks the owner's alerts as read. Unknown ids and ids owned by
// someone else are silently ignored.
func (u *AlertUsecase) MarkRead(ctx context.Context, ownerID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := u.repo.MarkRead(ctx, ownerID, ids); err != nil {
		return fmt.Errorf("mark alerts read: %w", err)
	}
	return nil
}
