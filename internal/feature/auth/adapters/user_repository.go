// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"stock_alert_backend/internal/feature/auth/domain/entity"
	"stock_alert_backend/internal/feature/auth/usecase"
)

// UserModel は users テーブルの行です。
type UserModel struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"column:password;size:255;not null"`
	Enabled      bool   `gorm:"column:is_enabled;not null"`
	CreatedAt    time.Time
}

// TableName はテーブル名を返します。
func (UserModel) TableName() string { return "users" }

func (m UserModel) toEntity() *entity.User {
	return &entity.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Enabled:      m.Enabled,
		CreatedAt:    m.CreatedAt,
	}
}

// userRepository はUserRepositoryインターフェースのGORM実装です。
type userRepository struct {
	db *gorm.DB
}

// userRepositoryがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userRepository)(nil)

// NewUserRepository は指定されたgorm.DB接続でuserRepositoryを生成します。
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

// Create はユーザーをデータベースに追加します。
// ユーザー名かメールアドレスが重複する場合、usecase.ErrUserAlreadyExistsを返します。
func (r *userRepository) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("nil user")
	}
	m := UserModel{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Enabled:      u.Enabled,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		// TranslateError 有効時は一意制約違反が ErrDuplicatedKey になる
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return usecase.ErrUserAlreadyExists
		}
		return err
	}
	u.ID = m.ID
	u.CreatedAt = m.CreatedAt
	return nil
}

// FindByUsername はユーザー名でユーザーを取得します。
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return m.toEntity(), nil
}

// FindByID はIDでユーザーを取得します。
func (r *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return m.toEntity(), nil
}
