package repository

import (
	"context"

	"threadshop/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 全商品をid順に返す
func (r *ProductGormRepository) List(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	if err := r.db.WithContext(ctx).Order("id asc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	products := []model.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// SELECT ... FOR UPDATE
// ロック順をid順にそろえてデッドロックを避ける
func (r *ProductGormRepository) FindByIDsForUpdate(ctx context.Context, ids []int64) ([]model.Product, error) {
	products := []model.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id asc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// 同名の商品があれば更新、無ければ作成
func (r *ProductGormRepository) UpsertByName(ctx context.Context, p model.Product) (model.Product, error) {
	var out model.Product
	err := r.db.WithContext(ctx).
		Where("name = ?", p.Name).
		Assign(map[string]interface{}{
			"description": p.Description,
			"cost":        p.Cost,
			"stock_count": p.StockCount,
			"image":       p.Image,
			"image2":      p.Image2,
			"image3":      p.Image3,
		}).
		FirstOrCreate(&out, model.Product{Name: p.Name}).Error
	if err != nil {
		return model.Product{}, err
	}
	return out, nil
}
