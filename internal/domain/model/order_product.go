package model

import "github.com/shopspring/decimal"

// 注文明細。チェックアウト時点のカートのスナップショット
type OrderProduct struct {
	OrderID   int64           `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	ProductID int64           `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Quantity  int64           `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitCost  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_cost"`
}

func (OrderProduct) TableName() string { return "orders_products" }

// 注文明細に商品名・画像をjoinしたもの
type OrderLine struct {
	OrderID   int64
	ProductID int64
	Name      string
	Image     string
	Cost      Money
	Quantity  int64
}
