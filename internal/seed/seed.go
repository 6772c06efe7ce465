// Package seed は商品カタログ（YAML）をDBに反映する。
package seed

import (
	"context"
	"fmt"
	"io"

	"threadshop/internal/domain/model"
	repo "threadshop/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Catalog struct {
	Products []CatalogProduct `yaml:"products"`
}

type CatalogProduct struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Cost        string   `yaml:"cost"`
	StockCount  int64    `yaml:"stock_count"`
	Images      []string `yaml:"images"`
}

func Parse(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	return c, nil
}

// 名前で1件ずつupsert。再実行しても重複しない
func Apply(ctx context.Context, products repo.ProductRepository, c Catalog, log logrus.FieldLogger) (int, error) {
	n := 0
	for i, cp := range c.Products {
		p, err := cp.toModel()
		if err != nil {
			return n, fmt.Errorf("product #%d (%q): %w", i+1, cp.Name, err)
		}

		saved, err := products.UpsertByName(ctx, p)
		if err != nil {
			return n, fmt.Errorf("upsert %q: %w", cp.Name, err)
		}
		log.WithFields(logrus.Fields{"id": saved.ID, "name": saved.Name}).Info("seeded product")
		n++
	}
	return n, nil
}

func (cp CatalogProduct) toModel() (model.Product, error) {
	if cp.Name == "" {
		return model.Product{}, fmt.Errorf("name is required")
	}
	cost, err := decimal.NewFromString(cp.Cost)
	if err != nil {
		return model.Product{}, fmt.Errorf("cost must be decimal: %w", err)
	}
	if cost.IsNegative() {
		return model.Product{}, fmt.Errorf("cost must not be negative")
	}
	if cp.StockCount < 0 {
		return model.Product{}, fmt.Errorf("stock_count must not be negative")
	}
	if len(cp.Images) > 3 {
		return model.Product{}, fmt.Errorf("at most 3 images")
	}

	p := model.Product{
		Name:        cp.Name,
		Description: cp.Description,
		Cost:        cost.Round(2),
		StockCount:  cp.StockCount,
	}
	slots := []*string{&p.Image, &p.Image2, &p.Image3}
	for i, key := range cp.Images {
		*slots[i] = key
	}
	return p, nil
}
