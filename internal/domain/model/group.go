package model

import "time"

type GroupStatus string

const (
	GroupStatusOpen   GroupStatus = "OPEN"
	GroupStatusClosed GroupStatus = "CLOSED"
)

type Group struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string      `gorm:"type:varchar(255);not null" json:"title"`
	StartTime time.Time   `gorm:"not null" json:"start_time"`
	EndTime   time.Time   `gorm:"not null" json:"end_time"`
	Status    GroupStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatorID int64       `gorm:"not null;index" json:"creator_id"`
	CreatedAt time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
