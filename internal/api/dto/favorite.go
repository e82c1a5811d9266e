package dto

import "time"

// FavoriteDTO 收藏列表项
type FavoriteDTO struct {
	PainterID uint64    `json:"painter_id"`
	Nickname  string    `json:"nickname"`
	AvatarURL string    `json:"avatar_url"`
	Level     string    `json:"level"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
