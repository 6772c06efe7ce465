package repository

import (
	"context"

	"threadshop/internal/domain/model"
	repo "threadshop/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// 商品をjoinしてカート明細を返す
func (r *CartGormRepository) ListLines(ctx context.Context, userID int64) ([]model.CartLine, error) {
	return r.listLines(r.lineQuery(ctx, userID))
}

// SELECT ... FOR UPDATE OF cart_items
// products の行ロックは FindByIDsForUpdate 側で取る
func (r *CartGormRepository) ListLinesForUpdate(ctx context.Context, userID int64) ([]model.CartLine, error) {
	q := r.lineQuery(ctx, userID).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "cart_items"}})
	return r.listLines(q)
}

func (r *CartGormRepository) lineQuery(ctx context.Context, userID int64) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.product_id, products.name, products.cost, products.image, cart_items.quantity, products.stock_count").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.product_id ASC")
}

func (r *CartGormRepository) listLines(q *gorm.DB) ([]model.CartLine, error) {
	lines := []model.CartLine{}
	if err := q.Scan(&lines).Error; err != nil {
		return []model.CartLine{}, err
	}
	return lines, nil
}

// 明細を取得
func (r *CartGormRepository) FindItem(ctx context.Context, userID, productID int64) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return model.CartItem{}, translate(err)
	}
	return item, nil
}

// 同一商品は数量を上書き
func (r *CartGormRepository) SetQuantity(ctx context.Context, userID, productID, qty int64) error {
	return r.upsert(ctx, userID, productID, qty, clause.AssignmentColumns([]string{"quantity", "updated_at"}))
}

// 同一商品は数量加算
func (r *CartGormRepository) AddQuantity(ctx context.Context, userID, productID, qty int64) error {
	return r.upsert(ctx, userID, productID, qty, clause.Assignments(map[string]interface{}{
		"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
		"updated_at": gorm.Expr("excluded.updated_at"),
	}))
}

// (user_id, product_id) の1行だけを保つ
func (r *CartGormRepository) upsert(ctx context.Context, userID, productID, qty int64, set clause.Set) error {
	item := model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: set,
		}).
		Create(&item).Error
	return translate(err)
}

// 明細を削除
func (r *CartGormRepository) DeleteItem(ctx context.Context, userID, productID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItem{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ユーザーのカートを空にする
func (r *CartGormRepository) Clear(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
