// Package adapters はalertsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stock_alert_backend/internal/feature/alerts/domain/entity"
	"stock_alert_backend/internal/feature/alerts/usecase"
)

type alertRepository struct {
	db *gorm.DB
}

var _ usecase.AlertRepository = (*alertRepository)(nil)

// NewAlertRepository は指定されたDB接続でalertRepositoryの新しいインスタンスを生成します。
func NewAlertRepository(db *gorm.DB) *alertRepository {
	return &alertRepository{db: db}
}

// AlertModel はalertsテーブルの行を表します。
// watch_entry_idは参照のみで、エントリ側が論理削除されても行は残ります。
type AlertModel struct {
	ID             uint            `gorm:"primaryKey"`
	OwnerID        uint            `gorm:"not null;index:idx_alerts_owner_read,priority:1"`
	WatchEntryID   uint            `gorm:"not null;index"`
	Symbol         string          `gorm:"size:8;not null"`
	CurrentPrice   decimal.Decimal `gorm:"type:decimal(19,4);not null"`
	ThresholdPrice decimal.Decimal `gorm:"type:decimal(19,4);not null"`
	Kind           string          `gorm:"size:16;not null"`
	TriggeredAt    time.Time       `gorm:"not null;index"`
	Read           bool            `gorm:"column:is_read;not null;index:idx_alerts_owner_read,priority:2"`
}

func (AlertModel) TableName() string {
	return "alerts"
}

func toModel(a *entity.Alert) AlertModel {
	return AlertModel{
		ID:             a.ID,
		OwnerID:        a.OwnerID,
		WatchEntryID:   a.WatchEntryID,
		Symbol:         a.Symbol,
		CurrentPrice:   a.CurrentPrice,
		ThresholdPrice: a.ThresholdPrice,
		Kind:           string(a.Kind),
		TriggeredAt:    a.TriggeredAt,
		Read:           a.Read,
	}
}

func toEntities(rows []AlertModel) []entity.Alert {
	out := make([]entity.Alert, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.Alert{
			ID:             m.ID,
			OwnerID:        m.OwnerID,
			WatchEntryID:   m.WatchEntryID,
			Symbol:         m.Symbol,
			CurrentPrice:   m.CurrentPrice,
			ThresholdPrice: m.ThresholdPrice,
			Kind:           entity.Kind(m.Kind),
			TriggeredAt:    m.TriggeredAt,
			Read:           m.Read,
		})
	}
	return out
}

// Create はアラートを1行追加します。重複チェックは行いません。
func (r *alertRepository) Create(ctx context.Context, a *entity.Alert) error {
	m := toModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	a.ID = m.ID
	return nil
}

// FindByOwner はユーザーのアラートを発火日時の降順でページ取得します。
func (r *alertRepository) FindByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]entity.Alert, error) {
	var rows []AlertModel
	q := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("triggered_at DESC, id DESC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// FindUnreadByOwner は未読アラートを発火日時の降順で返します。
func (r *alertRepository) FindUnreadByOwner(ctx context.Context, ownerID uint) ([]entity.Alert, error) {
	var rows []AlertModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_read = ?", ownerID, false).
		Order("triggered_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// CountUnreadByOwner は未読アラート数を返します。
func (r *alertRepository) CountUnreadByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&AlertModel{}).
		Where("owner_id = ? AND is_read = ?", ownerID, false).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// MarkRead は所有者が一致し、かつ未読のアラートだけを既読にします。
// 戻り値は実際に更新された行数です。
func (r *alertRepository) MarkRead(ctx context.Context, ownerID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&AlertModel{}).
		Where("owner_id = ? AND is_read = ? AND id IN ?", ownerID, false, ids).
		Update("is_read", true)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
