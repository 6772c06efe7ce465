package model

import (
	"math"

	"github.com/shopspring/decimal"
)

type Money = decimal.Decimal

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// 最小通貨単位（ペンス）に変換
// int64に収まるかは FitsMinorUnits で先に確認する
func MinorUnits(m Money) int64 {
	return m.Shift(2).Round(0).IntPart()
}

// ペンスにしてint64に収まるか
func FitsMinorUnits(m Money) bool {
	return m.Shift(2).Round(0).LessThan(maxMinorUnits)
}
