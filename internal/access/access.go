// Package access はルートごとの認可判定。
// 判定はリクエストごとに行い、結果はキャッシュしない。
package access

// ログイン中のユーザー（セッションから復元）
type Principal struct {
	UserID    int64
	IsAdmin   bool
	SessionID string
}

// 判定の入力
type Request struct {
	Principal    *Principal
	TargetUserID *int64
}

type Kind string

const (
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
)

type Decision struct {
	Allowed bool
	Kind    Kind
	Reason  string
}

type Guard func(Request) Decision

func allow() Decision { return Decision{Allowed: true} }

func deny(kind Kind, reason string) Decision {
	return Decision{Allowed: false, Kind: kind, Reason: reason}
}

// ログイン必須
func RequireSession(req Request) Decision {
	if req.Principal == nil {
		return deny(KindAuthentication, "Log in required")
	}
	return allow()
}

// 本人か管理者
func OwnerOrAdmin(req Request) Decision {
	if d := RequireSession(req); !d.Allowed {
		return d
	}
	if req.Principal.IsAdmin {
		return allow()
	}
	if req.TargetUserID == nil || *req.TargetUserID != req.Principal.UserID {
		return deny(KindAuthorization, "Unauthorized access")
	}
	return allow()
}

// 管理者のみ
func AdminOnly(req Request) Decision {
	if d := RequireSession(req); !d.Allowed {
		return d
	}
	if !req.Principal.IsAdmin {
		return deny(KindAuthorization, "Unauthorized access")
	}
	return allow()
}

// 最初に拒否したguardの結果を返す
func Evaluate(req Request, guards ...Guard) Decision {
	for _, g := range guards {
		if d := g(req); !d.Allowed {
			return d
		}
	}
	return allow()
}

// 本人以外への操作か（監査ログ用）
func (p Principal) ActsOnBehalfOf(userID int64) bool {
	return p.UserID != userID
}
