package dto

import "time"

// ReviewCreateDTO 提交评价
type ReviewCreateDTO struct {
	Rating  uint8  `json:"rating" binding:"required" validate:"required,min=1,max=5"`
	Content string `json:"content" validate:"omitempty,max=1000"`
}

// ReviewDTO 评价响应
type ReviewDTO struct {
	ID        uint64    `json:"id"`
	PainterID uint64    `json:"painter_id"`
	UserID    uint64    `json:"user_id"`
	Nickname  string    `json:"nickname"`
	AvatarURL string    `json:"avatar_url"`
	Rating    uint8     `json:"rating"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
