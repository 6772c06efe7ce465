package auth

import (
	"context"
	"errors"

	"threadshop/internal/access"
	"threadshop/internal/repository"
)

// cookieの値からPrincipalを復元する
type SessionAuthenticator struct {
	sessionRepo repository.SessionRepository
	codec       *SessionTokenCodec
	clock       Clock
}

func NewSessionAuthenticator(sessionRepo repository.SessionRepository, codec *SessionTokenCodec, clock Clock) *SessionAuthenticator {
	return &SessionAuthenticator{sessionRepo: sessionRepo, codec: codec, clock: clock}
}

// 無効なセッションは (nil, nil)。エラーはDB障害のときだけ
func (a *SessionAuthenticator) Authenticate(ctx context.Context, rawToken string) (*access.Principal, error) {
	tok, err := a.codec.Parse(rawToken)
	if err != nil {
		return nil, nil
	}

	s, err := a.sessionRepo.FindByID(ctx, tok.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	//署名済みの値とDBの行が食い違うものは使わない
	if s.UserID != tok.UserID || s.RevokedAt != nil {
		return nil, nil
	}

	//期限切れはここで消す
	if !s.ActiveAt(a.clock.Now()) {
		if err := a.sessionRepo.DeleteByID(ctx, s.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, nil
	}

	return &access.Principal{
		UserID:    s.UserID,
		IsAdmin:   s.IsAdmin,
		SessionID: s.ID,
	}, nil
}
