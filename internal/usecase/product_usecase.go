package usecase

import (
	"context"
	"errors"

	"threadshop/internal/domain/model"
	repo "threadshop/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// 画像キー -> 期限付きURL（実装はinfra/storage）
// ok=false なら画像URLを出さない
type ImageSigner interface {
	SignedURL(ctx context.Context, key string) (url string, ok bool, err error)
}

type ProductUsecase struct {
	productRepo repo.ProductRepository
	images      *imageURLs
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, signer ImageSigner, log logrus.FieldLogger) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		images:      &imageURLs{signer: signer, log: log},
	}
}

// 画像はURLに変換済み。署名できなかった画像は出さない
type ProductOutput struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
	StockCount  int64           `json:"stock_count"`
	Image       string          `json:"image,omitempty"`
	Image2      string          `json:"image2,omitempty"`
	Image3      string          `json:"image3,omitempty"`
}

func (u *ProductUsecase) List(ctx context.Context) ([]ProductOutput, error) {
	products, err := u.productRepo.List(ctx)
	if err != nil {
		return []ProductOutput{}, internal(err)
	}

	out := make([]ProductOutput, 0, len(products))
	for _, p := range products {
		out = append(out, u.toOutput(ctx, p))
	}
	return out, nil
}

func (u *ProductUsecase) Get(ctx context.Context, id int64) (ProductOutput, error) {
	if id <= 0 {
		return ProductOutput{}, NewError(KindNotFound, "Invalid product ID")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, NewError(KindNotFound, "Invalid product ID")
	}
	if err != nil {
		return ProductOutput{}, internal(err)
	}
	return u.toOutput(ctx, p), nil
}

func (u *ProductUsecase) toOutput(ctx context.Context, p model.Product) ProductOutput {
	return ProductOutput{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Cost:        p.Cost,
		StockCount:  p.StockCount,
		Image:       u.images.url(ctx, p.Image),
		Image2:      u.images.url(ctx, p.Image2),
		Image3:      u.images.url(ctx, p.Image3),
	}
}

// 署名に失敗したらログだけ出して空文字
type imageURLs struct {
	signer ImageSigner
	log    logrus.FieldLogger
}

func (i *imageURLs) url(ctx context.Context, key string) string {
	if key == "" || i.signer == nil {
		return ""
	}
	url, ok, err := i.signer.SignedURL(ctx, key)
	if err != nil {
		i.log.WithError(err).WithField("image_key", key).Warn("sign image url failed")
		return ""
	}
	if !ok {
		return ""
	}
	return url
}
