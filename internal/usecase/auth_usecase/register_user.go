package auth

import (
	"context"
	"errors"

	"threadshop/internal/domain/model"
	"threadshop/internal/repository"
	"threadshop/internal/usecase"
)

// 会員登録の入力
type RegisterUserInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// 会員登録の出力
type RegisterUserOutput struct {
	UserID int64
}

type RegisterValidator interface {
	ValidateRegister(username string, password string) error
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo  repository.UserRepository
	hasher    PasswordHasher
	validator RegisterValidator
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	validator RegisterValidator,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo:  userRepo,
		hasher:    hasher,
		validator: validator,
	}
}

// 会員登録実行
// 重複チェックはINSERTの一意制約に任せる
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	if err := u.validator.ValidateRegister(in.Username, in.Password); err != nil {
		return out, err
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	user := &model.User{
		Username:     in.Username,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}

	// DBへ保存
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return out, usecase.NewError(usecase.KindConflict, "Username already in use")
		}
		return out, err
	}

	out.UserID = user.ID
	return out, nil
}
