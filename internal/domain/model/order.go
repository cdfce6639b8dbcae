package model

import "time"

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

// 1ユーザーにつき1グループに注文は1つ
type Order struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID       int64         `gorm:"not null;uniqueIndex:idx_group_member" json:"group_id"`
	UserID        int64         `gorm:"not null;uniqueIndex:idx_group_member;index" json:"user_id"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null" json:"payment_status"`
	CreatedAt     time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
