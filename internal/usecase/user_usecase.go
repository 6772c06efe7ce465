package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"threadshop/internal/access"
	"threadshop/internal/domain/model"
	repo "threadshop/internal/repository"
)

const invalidUserID = "Invalid user ID"

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type PasswordValidator interface {
	ValidatePassword(password string) error
}

// passwordは返さない
type UserDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsAdmin   bool   `json:"isAdmin"`
}

// アカウント管理（本人か管理者）
type UserUsecase struct {
	tx        repo.TransactionManager
	users     repo.UserRepository
	auditLogs repo.AuditLogRepository
	hasher    PasswordHasher
	validator PasswordValidator
	clock     Clock
}

func NewUserUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	auditLogs repo.AuditLogRepository,
	hasher PasswordHasher,
	validator PasswordValidator,
	clock Clock,
) *UserUsecase {
	return &UserUsecase{
		tx:        tx,
		users:     users,
		auditLogs: auditLogs,
		hasher:    hasher,
		validator: validator,
		clock:     clock,
	}
}

func (u *UserUsecase) List(ctx context.Context) ([]UserDTO, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return []UserDTO{}, internal(err)
	}
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, toUserDTO(&users[i]))
	}
	return out, nil
}

func (u *UserUsecase) Get(ctx context.Context, userID int64) (UserDTO, error) {
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return UserDTO{}, NewError(KindNotFound, invalidUserID)
	}
	if err != nil {
		return UserDTO{}, internal(err)
	}
	return toUserDTO(user), nil
}

// パスワード変更。今のセッション以外は失効させる
func (u *UserUsecase) ChangePassword(ctx context.Context, actor access.Principal, userID int64, password string) error {
	if err := u.validator.ValidatePassword(password); err != nil {
		return err
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return internal(err)
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Users().UpdatePasswordHash(ctx, userID, hashed); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewError(KindNotFound, invalidUserID)
			}
			return internal(err)
		}

		keep := ""
		if !actor.ActsOnBehalfOf(userID) {
			keep = actor.SessionID
		}
		now := u.clock.Now()
		if err := r.Sessions().RevokeAllByUserID(ctx, userID, keep, now); err != nil {
			return internal(err)
		}

		return audit(ctx, r.AuditLogs(), actor, userID, model.AuditActionChangePassword, now)
	})
	return internal(err)
}

// カート・セッション・ユーザーをまとめて削除
func (u *UserUsecase) Delete(ctx context.Context, actor access.Principal, userID int64) error {
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Carts().Clear(ctx, userID); err != nil {
			return internal(err)
		}
		if err := r.Sessions().DeleteAllByUserID(ctx, userID); err != nil {
			return internal(err)
		}
		if err := r.Users().Delete(ctx, userID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewError(KindNotFound, invalidUserID)
			}
			return internal(err)
		}
		return audit(ctx, r.AuditLogs(), actor, userID, model.AuditActionDeleteUser, u.clock.Now())
	})
	return internal(err)
}

func (u *UserUsecase) ListAuditLogs(ctx context.Context, limit, offset int) ([]model.AuditLog, error) {
	if limit < 0 || offset < 0 {
		return []model.AuditLog{}, NewError(KindValidation, "Invalid limit or offset")
	}
	logs, err := u.auditLogs.List(ctx, repo.AuditLogFilter{Limit: limit, Offset: offset})
	if err != nil {
		return []model.AuditLog{}, internal(err)
	}
	return logs, nil
}

// 管理者が他人のアカウントを操作したときだけ残す
func audit(ctx context.Context, logs repo.AuditLogRepository, actor access.Principal, target int64, action model.AuditAction, at time.Time) error {
	if !actor.ActsOnBehalfOf(target) {
		return nil
	}
	detail, _ := json.Marshal(map[string]interface{}{"session_id": actor.SessionID})
	err := logs.Create(ctx, model.AuditLog{
		ActorUserID:  actor.UserID,
		Action:       action,
		ResourceType: model.AuditResourceUser,
		ResourceID:   target,
		TargetUserID: target,
		DetailJSON:   string(detail),
		CreatedAt:    at,
	})
	return internal(err)
}

// model.UserをAPI返却用DTOに変換。
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
	}
}
