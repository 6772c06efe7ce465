package repository

import "errors"

// 見つからない・一意制約違反を統一
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)
