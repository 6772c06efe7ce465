package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidSessionToken = errors.New("invalid session token")

// cookieに入れる値（署名付き）
type sessionClaims struct {
	jwt.RegisteredClaims
}

// 署名済みトークンから取り出した値
type SessionToken struct {
	SessionID string
	UserID    int64
	ExpiresAt time.Time
}

// HS256でセッションIDに署名する
type SessionTokenCodec struct {
	secret []byte
}

func NewSessionTokenCodec(secret string) *SessionTokenCodec {
	return &SessionTokenCodec{secret: []byte(secret)}
}

func (c *SessionTokenCodec) Issue(sessionID string, userID int64, issuedAt, expiresAt time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// 署名と期限を検証する
func (c *SessionTokenCodec) Parse(raw string) (SessionToken, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return SessionToken{}, ErrInvalidSessionToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 || claims.ID == "" || claims.ExpiresAt == nil {
		return SessionToken{}, ErrInvalidSessionToken
	}

	return SessionToken{
		SessionID: claims.ID,
		UserID:    userID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
