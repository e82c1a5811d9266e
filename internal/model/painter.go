package model

import (
	"time"
)

// Painter 画师档案，Status 为审核状态
type Painter struct {
	ID            uint64  `gorm:"primaryKey"`
	UserID        uint64  `gorm:"not null;uniqueIndex:idx_painter_user" json:"user_id"`
	Bio           string  `gorm:"type:varchar(1000)" json:"bio"`
	Location      string  `gorm:"type:varchar(100);not null" json:"location"`
	Availability  string  `gorm:"type:varchar(100)" json:"availability"`
	Level         string  `gorm:"type:varchar(30);not null" json:"level"`
	PriceMin      uint    `gorm:"not null;default:0" json:"price_min"`
	PriceMax      uint    `gorm:"not null;default:0" json:"price_max"`
	Status        string  `gorm:"type:varchar(20);not null;default:'pending';index:idx_painter_status" json:"status"`
	RejectReason  *string `gorm:"type:varchar(255)" json:"reject_reason"`
	Rating        float64 `gorm:"not null;default:0" json:"rating"`
	ReviewCount   int     `gorm:"not null;default:0" json:"review_count"`
	FavoriteCount int     `gorm:"not null;default:0" json:"favorite_count"`
	// ES 外部版本号，档案每次变更递增
	Version   int64     `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User      User             `gorm:"foreignKey:UserID;references:ID"`
	Styles    []PainterStyle   `gorm:"foreignKey:PainterID;references:ID"`
	Portfolio []PortfolioImage `gorm:"foreignKey:PainterID;references:ID"`
}

func (Painter) TableName() string {
	return "painters"
}

type PainterStyle struct {
	PainterID uint64 `gorm:"primaryKey" json:"painter_id"`
	Style     string `gorm:"primaryKey;type:varchar(50)" json:"style"`
}

func (PainterStyle) TableName() string {
	return "painter_styles"
}

// PortfolioImage 画师作品集图片
type PortfolioImage struct {
	ID        uint64    `gorm:"primaryKey"`
	PainterID uint64    `gorm:"not null;index:idx_portfolio_painter" json:"painter_id"`
	URL       string    `gorm:"type:varchar(512);not null" json:"url"`
	Title     string    `gorm:"type:varchar(100)" json:"title"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

func (PortfolioImage) TableName() string {
	return "portfolio_images"
}
