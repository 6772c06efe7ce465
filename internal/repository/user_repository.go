package repository

import (
	"context"
	"threadshop/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成。usernameが重複したらErrDuplicate
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//ユーザー名からユーザーを一件取得する。
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Exists(ctx context.Context, userID int64) (bool, error)
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error
	Delete(ctx context.Context, userID int64) error
}
