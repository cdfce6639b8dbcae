package model

import "time"

// 支払いステータス更新、グループ削除など。
type AuditAction string

const (
	//支払いステータスを更新した操作。
	AuditActionUpdatePaymentStatus AuditAction = "UPDATE_PAYMENT_STATUS"
	//グループステータスを更新した操作。
	AuditActionUpdateGroupStatus AuditAction = "UPDATE_GROUP_STATUS"
	//グループを削除した操作。
	AuditActionDeleteGroup AuditAction = "DELETE_GROUP"
)

// 何に対する操作か
type AuditResourceType string

const (
	//グループに対する操作。
	AuditResourceGroup AuditResourceType = "group"

	//注文に対する操作。
	AuditResourceOrder AuditResourceType = "order"
)

// 監査ログ（作成者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザーのID。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	//Actionは操作の種類。
	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	//対象の種類（group / order）。
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	//対象のID。
	ResourceID int64 `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`

	//JSON文字列で保存する。
	AfterJSON string `gorm:"type:text" json:"after_json"`

	//作成時刻
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
