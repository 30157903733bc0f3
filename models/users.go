package models

import (
	"time"
)

type User struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username    string    `gorm:"size:150;uniqueIndex" json:"username"`
	Email       string    `gorm:"size:254;uniqueIndex" json:"email"`
	FirstName   string    `gorm:"size:150" json:"first_name"`
	LastName    string    `gorm:"size:150" json:"last_name"`
	Password    string    `gorm:"size:255" json:"-"`
	IsSuperuser bool      `gorm:"default:false" json:"is_superuser"`
	CreatedAt   time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Profile - публичная карточка пользователя, ровно одна на User
type Profile struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64  `gorm:"column:id_user;uniqueIndex" json:"id_user"`
	User          *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Username      string `gorm:"-" json:"username"`
	Bio           string `gorm:"type:text" json:"bio"`
	ProfileImg    string `gorm:"column:profileimg;size:255" json:"profileimg"`
	ProfileImgURL string `gorm:"-" json:"profileimg_url,omitempty"`
	Location      string `gorm:"size:100" json:"location"`
}

func (Profile) TableName() string {
	return "profiles"
}

const DefaultProfileImage = "blank-profile-picture.png"

type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by signup, login and "who am I".
type AuthResponse struct {
	Message string   `json:"message,omitempty"`
	User    *User    `json:"user"`
	Profile *Profile `json:"profile"`
}

// StatusResponse covers the small acknowledgement bodies ({"status": ...} / {"message": ...}).
type StatusResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}
