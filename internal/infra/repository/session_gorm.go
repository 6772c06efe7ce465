package repository

import (
	"context"
	"time"

	"threadshop/internal/domain/model"
	repo "threadshop/internal/repository"

	"gorm.io/gorm"
)

type sessionGormRepository struct {
	db *gorm.DB //DB接続（GORM）
}

// GORM実装
func NewSessionGormRepository(db *gorm.DB) repo.SessionRepository {
	return &sessionGormRepository{db: db}
}

// セッションを保存
func (r *sessionGormRepository) Create(ctx context.Context, s model.Session) error {
	//タイムアウトやキャンセルをDB処理に伝える
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return err
	}
	return nil
}

// idで1件検索
func (r *sessionGormRepository) FindByID(ctx context.Context, id string) (model.Session, error) {
	var s model.Session

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return model.Session{}, translate(err)
	}
	return s, nil
}

// revoked_atをセットして無効。
func (r *sessionGormRepository) Revoke(ctx context.Context, id string, revokedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", &revokedAt)

	if result.Error != nil {
		return result.Error
	}
	// 更新件数が0なら「すでに無効/存在しない」
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// exceptID以外の有効なセッションを全部無効
func (r *sessionGormRepository) RevokeAllByUserID(ctx context.Context, userID int64, exceptID string, revokedAt time.Time) error {
	q := r.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	return q.Update("revoked_at", &revokedAt).Error
}

// 指定IDのセッションを削除。
func (r *sessionGormRepository) DeleteByID(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Session{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 指定ユーザーのセッションを全削除します。
func (r *sessionGormRepository) DeleteAllByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Session{}).Error
}
