// Package adapters はwatchlistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stock_alert_backend/internal/feature/watchlist/domain/entity"
	"stock_alert_backend/internal/feature/watchlist/usecase"
)

// watchEntryRepository はWatchEntryRepositoryインターフェースのGORM実装です。
type watchEntryRepository struct {
	db *gorm.DB
}

// watchEntryRepositoryがWatchEntryRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.WatchEntryRepository = (*watchEntryRepository)(nil)

// NewWatchEntryRepository は指定されたDB接続でwatchEntryRepositoryの新しいインスタンスを生成します。
func NewWatchEntryRepository(db *gorm.DB) *watchEntryRepository {
	return &watchEntryRepository{db: db}
}

// WatchEntryModel はwatch_entriesテーブルの行を表します。
type WatchEntryModel struct {
	ID        uint                `gorm:"primaryKey"`
	OwnerID   uint                `gorm:"not null;index:idx_watch_owner_symbol,priority:1"`
	Symbol    string              `gorm:"size:8;not null;index:idx_watch_owner_symbol,priority:2"`
	MinPrice  decimal.NullDecimal `gorm:"type:decimal(19,4)"`
	MaxPrice  decimal.NullDecimal `gorm:"type:decimal(19,4)"`
	Active    bool                `gorm:"column:is_active;not null;index"`
	CreatedAt time.Time
}

func (WatchEntryModel) TableName() string {
	return "watch_entries"
}

func toModel(e *entity.WatchEntry) WatchEntryModel {
	return WatchEntryModel{
		ID:        e.ID,
		OwnerID:   e.OwnerID,
		Symbol:    e.Symbol,
		MinPrice:  e.MinPrice,
		MaxPrice:  e.MaxPrice,
		Active:    e.Active,
		CreatedAt: e.CreatedAt,
	}
}

func toEntity(m WatchEntryModel) entity.WatchEntry {
	return entity.WatchEntry{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Symbol:    m.Symbol,
		MinPrice:  m.MinPrice,
		MaxPrice:  m.MaxPrice,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
	}
}

func toEntities(rows []WatchEntryModel) []entity.WatchEntry {
	out := make([]entity.WatchEntry, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out
}

// Create はウォッチエントリを追加し、採番されたIDと作成日時をエンティティに反映します。
func (r *watchEntryRepository) Create(ctx context.Context, e *entity.WatchEntry) error {
	m := toModel(e)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	e.ID = m.ID
	e.CreatedAt = m.CreatedAt
	return nil
}

// FindByID はIDでウォッチエントリを取得します。
// 存在しない場合、usecase.ErrWatchEntryNotFoundを返します。
func (r *watchEntryRepository) FindByID(ctx context.Context, id uint) (*entity.WatchEntry, error) {
	var m WatchEntryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrWatchEntryNotFound
		}
		return nil, err
	}
	e := toEntity(m)
	return &e, nil
}

// FindActiveByOwner はユーザーのアクティブなエントリを作成日時の降順で返します。
func (r *watchEntryRepository) FindActiveByOwner(ctx context.Context, ownerID uint) ([]entity.WatchEntry, error) {
	var rows []WatchEntryModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// ExistsActive は同じユーザーが同じ銘柄をアクティブに監視しているかを返します。
func (r *watchEntryRepository) ExistsActive(ctx context.Context, ownerID uint, symbol string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&WatchEntryModel{}).
		Where("owner_id = ? AND symbol = ? AND is_active = ?", ownerID, symbol, true).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Update は閾値とアクティブフラグを更新します。
// Selectで列を明示し、ゼロ値（false / NULL）も書き込まれるようにしています。
func (r *watchEntryRepository) Update(ctx context.Context, e *entity.WatchEntry) error {
	m := toModel(e)
	res := r.db.WithContext(ctx).
		Model(&WatchEntryModel{ID: e.ID}).
		Select("min_price", "max_price", "is_active").
		Updates(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrWatchEntryNotFound
	}
	return nil
}

// ListActive は全ユーザーのアクティブなエントリをID順で返します。
func (r *watchEntryRepository) ListActive(ctx context.Context) ([]entity.WatchEntry, error) {
	var rows []WatchEntryModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}
