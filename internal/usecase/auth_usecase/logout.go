package auth

import (
	"context"
	"errors"

	"threadshop/internal/repository"
)

type LogoutUsecase struct {
	sessionRepo repository.SessionRepository
	codec       *SessionTokenCodec
	clock       Clock
}

func NewLogoutUsecase(sessionRepo repository.SessionRepository, codec *SessionTokenCodec, clock Clock) *LogoutUsecase {
	return &LogoutUsecase{sessionRepo: sessionRepo, codec: codec, clock: clock}
}

// セッションを失効させる
// cookieが無い・壊れている・失効済みでもエラーにしない
func (u *LogoutUsecase) Execute(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}

	tok, err := u.codec.Parse(rawToken)
	if err != nil {
		return nil
	}

	err = u.sessionRepo.Revoke(ctx, tok.SessionID, u.clock.Now())
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}
