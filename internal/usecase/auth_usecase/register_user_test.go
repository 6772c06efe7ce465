package auth_test

import (
	"context"
	"testing"

	"threadshop/internal/domain/model"
	repo "threadshop/internal/repository"
	"threadshop/internal/repository/mocks"
	"threadshop/internal/usecase"
	auth "threadshop/internal/usecase/auth_usecase"
	"threadshop/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterUserUsecase_Execute_Success(t *testing.T) {
	users := new(mocks.UserRepoMock)
	h := new(hasherMock)
	uc := auth.NewRegisterUserUsecase(users, h, validator.NewAuthValidator())

	h.On("Hash", "password1").Return("hashed", nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Username == "alice" && u.PasswordHash == "hashed" &&
			u.FirstName == "Alice" && u.LastName == "Liddell" && !u.IsAdmin
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 3
	}).Return(nil)

	out, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Username: "alice", Password: "password1", FirstName: "Alice", LastName: "Liddell",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.UserID)

	users.AssertExpectations(t)
	h.AssertExpectations(t)
}

// 同じusernameの2回目は一意制約で失敗する
func TestRegisterUserUsecase_Execute_Duplicate(t *testing.T) {
	users := new(mocks.UserRepoMock)
	h := new(hasherMock)
	uc := auth.NewRegisterUserUsecase(users, h, validator.NewAuthValidator())

	h.On("Hash", "password1").Return("hashed", nil)
	users.On("Create", mock.Anything, mock.Anything).Return(repo.ErrDuplicate)

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{Username: "alice", Password: "password1"})

	require.Error(t, err)
	assert.True(t, usecase.IsKind(err, usecase.KindConflict))
	//事前の存在チェックはしない
	users.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
}

func TestRegisterUserUsecase_Execute_InvalidInput(t *testing.T) {
	users := new(mocks.UserRepoMock)
	uc := auth.NewRegisterUserUsecase(users, new(hasherMock), validator.NewAuthValidator())

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{Username: "al", Password: "password1"})

	assert.True(t, usecase.IsKind(err, usecase.KindValidation))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
