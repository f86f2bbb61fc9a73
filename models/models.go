package models

import (
	"net/url"
	"time"
)

// AvatarGeneratorURL сервис, который рисует аватар по имени пользователя
const AvatarGeneratorURL = "https://api.multiavatar.com/"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// gorm.Model не используем: у него soft delete, а удаленный пост не должен занимать уникальный title
type User struct {
	ID        uint   `gorm:"primary_key"`
	Email     string `gorm:"type:varchar(100);unique;not null"`
	Password  string `gorm:"type:varchar(100)"`
	Name      string `gorm:"type:varchar(100);not null"`
	Role      Role   `gorm:"type:varchar(20);not null;default:'member'"`
	CreatedAt time.Time
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) AvatarURL() string {
	return AvatarGeneratorURL + url.PathEscape(u.Name) + ".svg"
}

type BlogPost struct {
	ID        uint   `gorm:"primary_key"`
	AuthorID  uint   `gorm:"index"`
	Title     string `gorm:"type:varchar(250);unique;not null"`
	Subtitle  string `gorm:"type:varchar(250);not null"`
	Date      string `gorm:"type:varchar(250);not null"`
	Body      string `gorm:"type:text;not null"`
	ImgURL    string `gorm:"column:img_url;type:varchar(250);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Comment struct {
	ID        uint `gorm:"primary_key"`
	AuthorID  uint `gorm:"index"`
	PostID    uint `gorm:"index"`
	Text      string
	CreatedAt time.Time
}
