package model

// マイグレーション対象
func All() []interface{} {
	return []interface{}{
		&User{},
		&Product{},
		&CartItem{},
		&Order{},
		&OrderProduct{},
		&Session{},
		&InventoryAdjustment{},
		&AuditLog{},
	}
}
