package dto

import "time"

// GalleryPostCreateDTO 发布画廊帖子
type GalleryPostCreateDTO struct {
	Title     string  `json:"title" validate:"omitempty,max=100"`
	Content   string  `json:"content" validate:"omitempty,max=2000"`
	Style     string  `json:"style" validate:"omitempty,max=50"`
	PainterID *uint64 `json:"painter_id,omitempty"`
	ImageURL  string  `json:"image_url" binding:"required" validate:"required,max=512"`
}

// GalleryPostDTO 画廊帖子响应
type GalleryPostDTO struct {
	ID            uint64    `json:"id"`
	UserID        uint64    `json:"user_id"`
	PainterID     *uint64   `json:"painter_id,omitempty"`
	Nickname      string    `json:"nickname"`
	AvatarURL     string    `json:"avatar_url"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Style         string    `json:"style,omitempty"`
	ImageURL      string    `json:"image_url"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	Liked         bool      `json:"liked"`
	CreatedAt     time.Time `json:"created_at"`
}

// GalleryCommentCreateDTO 发表评论
type GalleryCommentCreateDTO struct {
	Content string `json:"content" binding:"required" validate:"required,min=1,max=500"`
}

// GalleryCommentDTO 评论响应
type GalleryCommentDTO struct {
	ID        uint64    `json:"id"`
	PostID    uint64    `json:"post_id"`
	UserID    uint64    `json:"user_id"`
	Nickname  string    `json:"nickname"`
	AvatarURL string    `json:"avatar_url"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
