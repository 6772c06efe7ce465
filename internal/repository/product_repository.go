package repository

import (
	"context"
	"threadshop/internal/domain/model"
)

// 商品の取得だけを約束。
type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error)

	// 行ロック付き（Tx内で使う）。id順にロックする
	FindByIDsForUpdate(ctx context.Context, ids []int64) ([]model.Product, error)

	// 名前で作成 or 更新（seed用）
	UpsertByName(ctx context.Context, p model.Product) (model.Product, error)
}
