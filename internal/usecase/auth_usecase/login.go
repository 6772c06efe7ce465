package auth

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"threadshop/internal/domain/model"
	"threadshop/internal/repository"
	"threadshop/internal/usecase"

	"golang.org/x/crypto/bcrypt"
)

const invalidCredentialsMessage = "Incorrect username or password."

// ユーザーが存在しないときも同じだけbcryptの計算をする
var dummyPasswordHash = sync.OnceValue(func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("threadshop-dummy-password"), PasswordCost)
	if err != nil {
		return ""
	}
	return string(h)
})

// handlerからusecaseに渡す入力
type LoginInput struct {
	Username  string
	Password  string
	UserAgent string
}

// handlerがJSONとcookieにして返す
type LoginOutput struct {
	UserID       int64
	Username     string
	SessionToken string
	ExpiresAt    time.Time
}

type LoginValidator interface {
	ValidateLogin(username string, password string) error
}

type LoginUsecase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	verifier    PasswordVerifier
	codec       *SessionTokenCodec
	validator   LoginValidator
	idGen       IDGenerator
	clock       Clock
	sessionTTL  time.Duration
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	verifier PasswordVerifier,
	codec *SessionTokenCodec,
	validator LoginValidator,
	idGen IDGenerator,
	clock Clock,
	sessionTTL time.Duration,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		verifier:    verifier,
		codec:       codec,
		validator:   validator,
		idGen:       idGen,
		clock:       clock,
		sessionTTL:  sessionTTL,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	if err := u.validator.ValidateLogin(in.Username, in.Password); err != nil {
		return out, err
	}

	//usernameでユーザー取得
	user, err := u.userRepo.FindByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			//存在しない場合もパスワード照合と同じ時間をかける
			u.verifier.Verify(in.Password, dummyPasswordHash())
			return out, usecase.NewError(usecase.KindAuthenticationFailed, invalidCredentialsMessage)
		}
		return out, err
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return out, usecase.NewError(usecase.KindAuthenticationFailed, invalidCredentialsMessage)
	}

	//セッション作成
	now := u.clock.Now()
	session := model.Session{
		ID:        u.idGen.NewID(),
		UserID:    user.ID,
		IsAdmin:   user.IsAdmin,
		UserAgent: truncate(in.UserAgent, 255),
		ExpiresAt: now.Add(u.sessionTTL),
	}
	if err := u.sessionRepo.Create(ctx, session); err != nil {
		return out, err
	}

	token, err := u.codec.Issue(session.ID, user.ID, now, session.ExpiresAt)
	if err != nil {
		return out, err
	}

	out.UserID = user.ID
	out.Username = user.Username
	out.SessionToken = token
	out.ExpiresAt = session.ExpiresAt
	return out, nil
}

// nバイト以内に切る（マルチバイト文字の途中では切らない）
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
