package repository

import (
	"context"

	"threadshop/internal/domain/model"
)

type OrderProductRepository interface {
	CreateBulk(ctx context.Context, orderID int64, lines []model.OrderProduct) error
	ListLinesByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error)
}
