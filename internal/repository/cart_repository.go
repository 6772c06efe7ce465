package repository

import (
	"context"

	"threadshop/internal/domain/model"
)

// カート明細の保存・取得
type CartRepository interface {
	// 商品情報をjoinした明細（product_id順）
	ListLines(ctx context.Context, userID int64) ([]model.CartLine, error)
	// ListLinesと同じ明細を cart_items の行ロック付きで返す（tx内専用）
	ListLinesForUpdate(ctx context.Context, userID int64) ([]model.CartLine, error)
	FindItem(ctx context.Context, userID, productID int64) (model.CartItem, error)

	// 数量を上書き（なければ作成）
	SetQuantity(ctx context.Context, userID, productID, qty int64) error
	// 数量を加算（なければ作成）
	AddQuantity(ctx context.Context, userID, productID, qty int64) error

	DeleteItem(ctx context.Context, userID, productID int64) error
	// 削除した行数を返す
	Clear(ctx context.Context, userID int64) (int64, error)
}
