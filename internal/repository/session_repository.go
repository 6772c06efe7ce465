package repository

import (
	"context"
	"time"

	"threadshop/internal/domain/model"
)

// サーバー側セッションの保存・取得・失効
type SessionRepository interface {
	Create(ctx context.Context, s model.Session) error
	FindByID(ctx context.Context, id string) (model.Session, error)
	Revoke(ctx context.Context, id string, revokedAt time.Time) error
	// exceptIDのセッション以外を失効（パスワード変更時）
	RevokeAllByUserID(ctx context.Context, userID int64, exceptID string, revokedAt time.Time) error
	DeleteByID(ctx context.Context, id string) error
	DeleteAllByUserID(ctx context.Context, userID int64) error
}
