package model

import (
	"time"
)

// Follow 关注关系（Follower 关注 Followee）
type Follow struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	FollowerID uint   `gorm:"not null;index:idx_follow_follower;index:idx_follow_pair,unique"`
	Follower   User   `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE;"`
	FolloweeID uint   `gorm:"not null;index:idx_follow_followee;index:idx_follow_pair,unique"`
	Followee   User   `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE;"`
	// 复合唯一键，避免重复关注
	// idx_follow_pair = (follower_id, followee_id)
	CreatedAt time.Time
}

func (Follow) TableName() string { return "follows" }
