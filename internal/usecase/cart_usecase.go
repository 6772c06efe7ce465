package usecase

import (
	"context"
	"errors"

	repo "threadshop/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const invalidCartRequest = "Invalid cart request"

// CartUsecase は /cart の業務ロジックです。
// カートは (user_id, product_id) ごとの数量だけを持つ。
type CartUsecase struct {
	tx          repo.TransactionManager
	userRepo    repo.UserRepository
	cartRepo    repo.CartRepository
	productRepo repo.ProductRepository
	images      *imageURLs
}

func NewCartUsecase(
	tx repo.TransactionManager,
	userRepo repo.UserRepository,
	cartRepo repo.CartRepository,
	productRepo repo.ProductRepository,
	signer ImageSigner,
	log logrus.FieldLogger,
) *CartUsecase {
	return &CartUsecase{
		tx:          tx,
		userRepo:    userRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		images:      &imageURLs{signer: signer, log: log},
	}
}

// idは商品ID
type CartItemOutput struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Cost     decimal.Decimal `json:"cost"`
	Image    string          `json:"image"`
	Quantity int64           `json:"quantity"`
}

type CartLineInput struct {
	ProductID int64
	Quantity  int64
}

// カート取得
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) ([]CartItemOutput, error) {
	lines, err := u.cartRepo.ListLines(ctx, userID)
	if err != nil {
		return []CartItemOutput{}, internal(err)
	}

	out := make([]CartItemOutput, 0, len(lines))
	for _, l := range lines {
		out = append(out, CartItemOutput{
			ID:       l.ProductID,
			Name:     l.Name,
			Cost:     l.Cost,
			Image:    u.images.url(ctx, l.Image),
			Quantity: l.Quantity,
		})
	}
	return out, nil
}

// 数量を上書き（0なら削除）
func (u *CartUsecase) SetItem(ctx context.Context, userID int64, in CartLineInput) ([]CartItemOutput, error) {
	if err := validateLine(in, false); err != nil {
		return []CartItemOutput{}, err
	}
	if err := setLine(ctx, u.userRepo, u.cartRepo, u.productRepo, userID, in); err != nil {
		return []CartItemOutput{}, err
	}
	return u.GetCart(ctx, userID)
}

// 数量を加算（1行のまま）
func (u *CartUsecase) IncrementItem(ctx context.Context, userID int64, in CartLineInput) ([]CartItemOutput, error) {
	if err := validateLine(in, true); err != nil {
		return []CartItemOutput{}, err
	}
	if err := ensureUser(ctx, u.userRepo, userID); err != nil {
		return []CartItemOutput{}, err
	}
	if err := ensureProduct(ctx, u.productRepo, in.ProductID); err != nil {
		return []CartItemOutput{}, err
	}

	if err := u.cartRepo.AddQuantity(ctx, userID, in.ProductID, in.Quantity); err != nil {
		return []CartItemOutput{}, internal(err)
	}
	return u.GetCart(ctx, userID)
}

// ログイン前のローカルカートをまとめて反映（1トランザクション）
func (u *CartUsecase) ReplaceItems(ctx context.Context, userID int64, items []CartLineInput) ([]CartItemOutput, error) {
	for _, in := range items {
		if err := validateLine(in, false); err != nil {
			return []CartItemOutput{}, err
		}
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := ensureUser(ctx, r.Users(), userID); err != nil {
			return err
		}
		for _, in := range items {
			if err := setLine(ctx, nil, r.Carts(), r.Products(), userID, in); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return []CartItemOutput{}, internal(err)
	}
	return u.GetCart(ctx, userID)
}

// 既存の明細の数量変更（0なら削除）
func (u *CartUsecase) UpdateItem(ctx context.Context, userID int64, in CartLineInput) ([]CartItemOutput, error) {
	if err := validateLine(in, false); err != nil {
		return []CartItemOutput{}, err
	}
	if err := ensureUser(ctx, u.userRepo, userID); err != nil {
		return []CartItemOutput{}, err
	}

	_, err := u.cartRepo.FindItem(ctx, userID, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return []CartItemOutput{}, NewError(KindNotFound, invalidCartRequest)
	}
	if err != nil {
		return []CartItemOutput{}, internal(err)
	}

	if in.Quantity == 0 {
		err = u.cartRepo.DeleteItem(ctx, userID, in.ProductID)
	} else {
		err = u.cartRepo.SetQuantity(ctx, userID, in.ProductID, in.Quantity)
	}
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return []CartItemOutput{}, internal(err)
	}
	return u.GetCart(ctx, userID)
}

// 明細を削除（無くてもエラーにしない）
func (u *CartUsecase) RemoveItem(ctx context.Context, userID, productID int64) error {
	if productID <= 0 {
		return NewError(KindValidation, "Invalid product ID")
	}
	if err := ensureUser(ctx, u.userRepo, userID); err != nil {
		return err
	}
	if err := u.cartRepo.DeleteItem(ctx, userID, productID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return internal(err)
	}
	return nil
}

// カートを空にする
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) error {
	if err := ensureUser(ctx, u.userRepo, userID); err != nil {
		return err
	}
	if _, err := u.cartRepo.Clear(ctx, userID); err != nil {
		return internal(err)
	}
	return nil
}

func validateLine(in CartLineInput, positive bool) error {
	if in.ProductID <= 0 {
		return NewError(KindValidation, "Invalid product ID")
	}
	if in.Quantity < 0 || (positive && in.Quantity == 0) {
		return NewError(KindValidation, "Invalid quantity")
	}
	return nil
}

// usersがnilなら呼び出し側で確認済み
func setLine(ctx context.Context, users repo.UserRepository, carts repo.CartRepository, products repo.ProductRepository, userID int64, in CartLineInput) error {
	if users != nil {
		if err := ensureUser(ctx, users, userID); err != nil {
			return err
		}
	}

	if in.Quantity == 0 {
		if err := carts.DeleteItem(ctx, userID, in.ProductID); err != nil && !errors.Is(err, repo.ErrNotFound) {
			return internal(err)
		}
		return nil
	}

	if err := ensureProduct(ctx, products, in.ProductID); err != nil {
		return err
	}
	if err := carts.SetQuantity(ctx, userID, in.ProductID, in.Quantity); err != nil {
		return internal(err)
	}
	return nil
}

func ensureUser(ctx context.Context, users repo.UserRepository, userID int64) error {
	ok, err := users.Exists(ctx, userID)
	if err != nil {
		return internal(err)
	}
	if !ok {
		return NewError(KindNotFound, invalidCartRequest)
	}
	return nil
}

func ensureProduct(ctx context.Context, products repo.ProductRepository, productID int64) error {
	_, err := products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewError(KindNotFound, invalidCartRequest)
	}
	if err != nil {
		return internal(err)
	}
	return nil
}
