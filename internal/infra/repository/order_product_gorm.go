package repository

import (
	"context"

	"threadshop/internal/domain/model"

	"gorm.io/gorm"
)

type OrderProductGormRepository struct {
	db *gorm.DB
}

func NewOrderProductGormRepository(db *gorm.DB) *OrderProductGormRepository {
	return &OrderProductGormRepository{db: db}
}

func (r *OrderProductGormRepository) CreateBulk(ctx context.Context, orderID int64, lines []model.OrderProduct) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].OrderID = orderID
	}
	if err := r.db.WithContext(ctx).Create(&lines).Error; err != nil {
		return err
	}
	return nil
}

// 商品名・画像をjoinした注文明細
func (r *OrderProductGormRepository) ListLinesByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	lines := []model.OrderLine{}
	err := r.db.WithContext(ctx).
		Table("orders_products").
		Select("orders_products.order_id, orders_products.product_id, products.name, products.image, orders_products.unit_cost AS cost, orders_products.quantity").
		Joins("JOIN products ON products.id = orders_products.product_id").
		Where("orders_products.order_id = ?", orderID).
		Order("orders_products.product_id asc").
		Scan(&lines).Error
	if err != nil {
		return []model.OrderLine{}, err
	}
	return lines, nil
}
