package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文（作成後は変更しない）
type Order struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64           `gorm:"not null;index" json:"user_id"`
	Date      time.Time       `gorm:"not null" json:"date"`
	TotalCost decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_cost"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
