package model

import "time"

// 友達関係は双方向（A→BとB→Aの2行で1組）
type Friendship struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_friend_edge" json:"user_id"`
	FriendID  int64     `gorm:"not null;uniqueIndex:idx_friend_edge" json:"friend_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
