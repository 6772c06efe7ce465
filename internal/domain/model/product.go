package model

import (
	"github.com/shopspring/decimal"
)

// 商品は参照専用（在庫だけチェックアウトで減る）
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Cost        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"cost"`
	StockCount  int64           `gorm:"not null;default:0;check:stock_count >= 0" json:"stock_count"`

	//S3のオブジェクトキー（最大3枚）
	Image  string `gorm:"type:varchar(255)" json:"image"`
	Image2 string `gorm:"type:varchar(255)" json:"image2"`
	Image3 string `gorm:"type:varchar(255)" json:"image3"`
}

// 空でない画像キーを順番どおりに返す
func (p Product) ImageKeys() []string {
	keys := make([]string, 0, 3)
	for _, k := range []string{p.Image, p.Image2, p.Image3} {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
