package model

import "time"

// 管理者が他人のアカウントに対して行った操作
type AuditAction string

const (
	AuditActionChangePassword AuditAction = "CHANGE_PASSWORD"
	AuditActionDeleteUser     AuditAction = "DELETE_USER"
	AuditActionCheckout       AuditAction = "CHECKOUT"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceUser  AuditResourceType = "user"
	AuditResourceOrder AuditResourceType = "order"
)

// 監査ログ
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した管理者のID。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID int64 `gorm:"not null;index" json:"resource_id"`

	//対象ユーザー
	TargetUserID int64 `gorm:"not null;index" json:"target_user_id"`

	//JSON文字列
	DetailJSON string `gorm:"type:text" json:"detail_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
