package models

import "time"

// Post - пост пользователя; вычисляемые поля заполняются на каждый запрос
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	User      string    `gorm:"column:author;size:150;index" json:"user"`
	Image     string    `gorm:"size:255" json:"image"`
	Caption   string    `gorm:"type:text" json:"caption"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	NoOfLikes int       `gorm:"not null;default:0" json:"no_of_likes"`

	UserProfile   *Profile `gorm:"-" json:"user_profile"`
	ImageURL      string   `gorm:"-" json:"image_url,omitempty"`
	IsLiked       bool     `gorm:"-" json:"is_liked"`
	CommentsCount int64    `gorm:"-" json:"comments_count"`
}

func (Post) TableName() string {
	return "posts"
}

type LikePost struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID   string `gorm:"type:varchar(36);uniqueIndex:ux_like_post_user" json:"post_id"`
	Username string `gorm:"size:150;uniqueIndex:ux_like_post_user" json:"username"`
}

func (LikePost) TableName() string {
	return "like_posts"
}

// LikeResult is the body of the like/unlike endpoints.
type LikeResult struct {
	Status string `json:"status"`
	Likes  int    `json:"likes"`
}

const (
	LikeStatusLiked   = "liked"
	LikeStatusUnliked = "unliked"
)

type Comment struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PostID      string    `gorm:"column:post_id;type:varchar(36);index" json:"post"`
	User        string    `gorm:"column:author;size:150" json:"user"`
	UserProfile *Profile  `gorm:"-" json:"user_profile"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
}

func (Comment) TableName() string {
	return "comments"
}
