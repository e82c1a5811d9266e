package es

import "time"

// PainterES 写入 ES 的画师文档
type PainterES struct {
	ID            uint64    `json:"id"`
	UserID        uint64    `json:"user_id"`
	Nickname      string    `json:"nickname"`
	Avatar        string    `json:"avatar"`
	Bio           string    `json:"bio"`
	Location      string    `json:"location"`
	Availability  string    `json:"availability"`
	Styles        []string  `json:"styles"`
	Level         string    `json:"level"`
	PriceMin      uint      `json:"price_min"`
	PriceMax      uint      `json:"price_max"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	FavoriteCount int       `json:"favorite_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
