package model

import "time"

// Favorite 学生收藏画师
type Favorite struct {
	UserID    uint64    `gorm:"primaryKey" json:"user_id"`
	PainterID uint64    `gorm:"primaryKey;index:idx_favorite_painter" json:"painter_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}
