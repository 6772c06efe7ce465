package model

import "time"

// カートの明細
// (user_id, product_id) で1行。数量0の行は存在しない。
type CartItem struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ProductID int64     `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Quantity  int64     `gorm:"not null;check:quantity > 0" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 商品情報をjoinしたカート行（表示用）
type CartLine struct {
	ProductID  int64
	Name       string
	Cost       Money
	Image      string
	Quantity   int64
	StockCount int64
}
