package model

import "time"

// サーバー側セッション。認可に必要な最小限の情報だけ持つ
type Session struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	UserID    int64      `gorm:"not null;index"`
	IsAdmin   bool       `gorm:"not null;default:false"`
	UserAgent string     `gorm:"type:varchar(255)"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	RevokedAt *time.Time `gorm:"index"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime"`
}

// 有効か（失効・期限切れでない）
func (s Session) ActiveAt(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
