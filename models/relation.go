package models

import "time"

// Follow - подписка follower -> user, уникальна для пары
type Follow struct {
	ID              int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Follower        string   `gorm:"size:150;uniqueIndex:ux_follow_pair;index" json:"follower"`
	User            string   `gorm:"column:followee;size:150;uniqueIndex:ux_follow_pair;index" json:"user"`
	FollowerProfile *Profile `gorm:"-" json:"follower_profile"`
	UserProfile     *Profile `gorm:"-" json:"user_profile"`
}

func (Follow) TableName() string {
	return "follows"
}

// Block - blocker скрыл blocked, уникальна для пары
type Block struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Blocker        string    `gorm:"size:150;uniqueIndex:ux_block_pair;index" json:"blocker"`
	Blocked        string    `gorm:"size:150;uniqueIndex:ux_block_pair;index" json:"blocked"`
	BlockerProfile *Profile  `gorm:"-" json:"blocker_profile"`
	BlockedProfile *Profile  `gorm:"-" json:"blocked_profile"`
	Timestamp      time.Time `json:"timestamp"`
}

func (Block) TableName() string {
	return "blocks"
}

const (
	FollowStatusFollowed   = "followed"
	FollowStatusUnfollowed = "unfollowed"
	BlockStatusBlocked     = "blocked"
	BlockStatusUnblocked   = "unblocked"
)

// ToggleFollowRequest is the body of POST /followers/toggle/.
type ToggleFollowRequest struct {
	User string `json:"user"`
}

// ToggleBlockRequest is the body of POST /blocks/toggle/.
type ToggleBlockRequest struct {
	Blocked string `json:"blocked"`
}
