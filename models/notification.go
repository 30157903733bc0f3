package models

import (
	"time"
)

type NotifType string

const (
	NotifLike    NotifType = "like"
	NotifFollow  NotifType = "follow"
	NotifPost    NotifType = "post"
	NotifComment NotifType = "comment"
)

// Notification адресовано to_user; отмечается прочитанным только получателем
type Notification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ToUser    string    `gorm:"size:150;index" json:"to_user"`
	Actor     string    `gorm:"size:150" json:"actor"`
	Verb      string    `gorm:"size:255" json:"verb"`
	NotifType NotifType `gorm:"size:20" json:"notif_type"`
	PostID    *string   `gorm:"type:varchar(36)" json:"post_id"`
	URL       string    `gorm:"size:500" json:"url"`
	Read      bool      `gorm:"default:false;index" json:"read"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationEvent is pushed to connected clients when a notification is created.
type NotificationEvent struct {
	Event        string       `json:"event"`
	Notification Notification `json:"notification"`
}

const EventNotificationCreated = "notification_created"

// CountUnread returns how many notifications are not read yet.
func CountUnread(list []Notification) int {
	n := 0
	for _, item := range list {
		if !item.Read {
			n++
		}
	}
	return n
}
