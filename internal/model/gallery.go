package model

import (
	"time"
)

// GalleryPost 画廊帖子
type GalleryPost struct {
	ID            uint64    `gorm:"primaryKey"`
	UserID        uint64    `gorm:"not null;index:idx_gallery_user" json:"user_id"`
	PainterID     *uint64   `gorm:"index:idx_gallery_painter" json:"painter_id"`
	Title         string    `gorm:"type:varchar(255)" json:"title"`
	Content       string    `gorm:"type:varchar(2000)" json:"content"`
	Style         string    `gorm:"type:varchar(50);index:idx_gallery_style" json:"style"`
	ImageURL      string    `gorm:"type:varchar(512);not null" json:"image_url"`
	LikesCount    int       `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int       `gorm:"not null;default:0" json:"comments_count"`
	IsDeleted     bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

func (GalleryPost) TableName() string {
	return "gallery_posts"
}

type GalleryLike struct {
	UserID    uint64    `gorm:"primaryKey" json:"user_id"`
	PostID    uint64    `gorm:"primaryKey;index:idx_gallery_like_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (GalleryLike) TableName() string {
	return "gallery_likes"
}

type GalleryComment struct {
	ID        uint64    `gorm:"primaryKey"`
	PostID    uint64    `gorm:"not null;index:idx_gallery_comment_post" json:"post_id"`
	UserID    uint64    `gorm:"not null" json:"user_id"`
	Content   string    `gorm:"type:varchar(500);not null" json:"content"`
	IsDeleted bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

func (GalleryComment) TableName() string {
	return "gallery_comments"
}
