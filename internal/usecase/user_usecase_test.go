package usecase_test

import (
	"context"
	"testing"
	"time"

	"threadshop/internal/access"
	"threadshop/internal/domain/model"
	repo "threadshop/internal/repository"
	"threadshop/internal/repository/mocks"
	"threadshop/internal/usecase"
	"threadshop/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var userNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newUserUsecase() (*usecase.UserUsecase, *mocks.TxRepos, *mocks.TxManagerMock, *mocks.UserRepoMock, *hasherMock) {
	r := mocks.NewTxRepos()
	tx := mocks.NewTxManagerMock(r)
	users := new(mocks.UserRepoMock)
	h := new(hasherMock)
	uc := usecase.NewUserUsecase(tx, users, new(mocks.AuditLogRepoMock), h, validator.NewAuthValidator(), fixedClock{userNow})
	return uc, r, tx, users, h
}

func TestUserUsecase_Get_NotFound(t *testing.T) {
	uc, _, _, users, _ := newUserUsecase()
	users.On("FindByID", mock.Anything, int64(3)).Return(nil, repo.ErrNotFound)

	_, err := uc.Get(context.Background(), 3)

	assertKind(t, err, usecase.KindNotFound)
	e, _ := usecase.AsError(err)
	assert.Equal(t, "Invalid user ID", e.Message)
}

func TestUserUsecase_Get_HidesPassword(t *testing.T) {
	uc, _, _, users, _ := newUserUsecase()
	users.On("FindByID", mock.Anything, int64(3)).
		Return(&model.User{ID: 3, Username: "alice", PasswordHash: "secret-hash", FirstName: "Alice"}, nil)

	out, err := uc.Get(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, usecase.UserDTO{ID: 3, Username: "alice", FirstName: "Alice"}, out)
}

// 本人の変更は今のセッションを残し、監査ログは書かない
func TestUserUsecase_ChangePassword_Self(t *testing.T) {
	uc, r, tx, _, h := newUserUsecase()
	self := access.Principal{UserID: 3, SessionID: "current"}

	h.On("Hash", "new-password").Return("new-hash", nil)
	r.UserRepo.On("UpdatePasswordHash", mock.Anything, int64(3), "new-hash").Return(nil)
	r.SessionRepo.On("RevokeAllByUserID", mock.Anything, int64(3), "current", userNow).Return(nil)

	require.NoError(t, uc.ChangePassword(context.Background(), self, 3, "new-password"))

	assert.Equal(t, 1, tx.Committed)
	r.AuditLogRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	r.AssertExpectations(t)
}

func TestUserUsecase_ChangePassword_AdminOnOtherUser(t *testing.T) {
	uc, r, _, _, h := newUserUsecase()
	admin := access.Principal{UserID: 1, IsAdmin: true, SessionID: "admin"}

	h.On("Hash", "new-password").Return("new-hash", nil)
	r.UserRepo.On("UpdatePasswordHash", mock.Anything, int64(3), "new-hash").Return(nil)
	r.SessionRepo.On("RevokeAllByUserID", mock.Anything, int64(3), "", userNow).Return(nil)
	r.AuditLogRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == 1 && l.TargetUserID == 3 &&
			l.Action == model.AuditActionChangePassword && l.CreatedAt.Equal(userNow)
	})).Return(nil)

	require.NoError(t, uc.ChangePassword(context.Background(), admin, 3, "new-password"))
	r.AssertExpectations(t)
}

func TestUserUsecase_ChangePassword_ShortPassword(t *testing.T) {
	uc, _, tx, _, h := newUserUsecase()

	err := uc.ChangePassword(context.Background(), access.Principal{UserID: 3}, 3, "short")

	assertKind(t, err, usecase.KindValidation)
	assert.Equal(t, 0, tx.Calls)
	h.AssertNotCalled(t, "Hash", mock.Anything)
}

func TestUserUsecase_ChangePassword_UnknownUser(t *testing.T) {
	uc, r, tx, _, h := newUserUsecase()
	h.On("Hash", "new-password").Return("new-hash", nil)
	r.UserRepo.On("UpdatePasswordHash", mock.Anything, int64(3), "new-hash").Return(repo.ErrNotFound)

	err := uc.ChangePassword(context.Background(), access.Principal{UserID: 1, IsAdmin: true}, 3, "new-password")

	assertKind(t, err, usecase.KindNotFound)
	assert.Equal(t, 0, tx.Committed)
}

func TestUserUsecase_Delete(t *testing.T) {
	uc, r, tx, _, _ := newUserUsecase()
	r.CartRepo.On("Clear", mock.Anything, int64(3)).Return(int64(0), nil)
	r.SessionRepo.On("DeleteAllByUserID", mock.Anything, int64(3)).Return(nil)
	r.UserRepo.On("Delete", mock.Anything, int64(3)).Return(nil)

	require.NoError(t, uc.Delete(context.Background(), access.Principal{UserID: 3}, 3))

	assert.Equal(t, 1, tx.Committed)
	r.AssertExpectations(t)
}

func TestUserUsecase_Delete_UnknownUserRollsBack(t *testing.T) {
	uc, r, tx, _, _ := newUserUsecase()
	r.CartRepo.On("Clear", mock.Anything, int64(3)).Return(int64(0), nil)
	r.SessionRepo.On("DeleteAllByUserID", mock.Anything, int64(3)).Return(nil)
	r.UserRepo.On("Delete", mock.Anything, int64(3)).Return(repo.ErrNotFound)

	err := uc.Delete(context.Background(), access.Principal{UserID: 1, IsAdmin: true}, 3)

	assertKind(t, err, usecase.KindNotFound)
	assert.Equal(t, 0, tx.Committed)
	r.AuditLogRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserUsecase_ListAuditLogs_InvalidPaging(t *testing.T) {
	uc, _, _, _, _ := newUserUsecase()

	_, err := uc.ListAuditLogs(context.Background(), -1, 0)
	assertKind(t, err, usecase.KindValidation)
}
