package dto

import "time"

// PainterApplyDTO 画师入驻申请
type PainterApplyDTO struct {
	Bio          string   `json:"bio" binding:"required" validate:"required,max=1000"`
	Location     string   `json:"location" binding:"required" validate:"required,max=100"`
	Availability string   `json:"availability" validate:"omitempty,max=100"`
	Level        string   `json:"level" binding:"required" validate:"required,max=30"`
	Styles       []string `json:"styles" binding:"required" validate:"required,min=1,max=10"`
	PriceMin     uint     `json:"price_min"`
	PriceMax     uint     `json:"price_max"`
	Portfolio    []string `json:"portfolio" validate:"omitempty,max=20"`
}

// PainterUpdateDTO 画师档案更新
type PainterUpdateDTO struct {
	Bio          *string  `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Location     *string  `json:"location,omitempty" validate:"omitempty,max=100"`
	Availability *string  `json:"availability,omitempty" validate:"omitempty,max=100"`
	Level        *string  `json:"level,omitempty" validate:"omitempty,max=30"`
	Styles       []string `json:"styles,omitempty" validate:"omitempty,max=10"`
	PriceMin     *uint    `json:"price_min,omitempty"`
	PriceMax     *uint    `json:"price_max,omitempty"`
}

// PainterModerateDTO 管理员审核
type PainterModerateDTO struct {
	Approve bool    `json:"approve"`
	Reason  *string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

// PainterSearchDTO 画师搜索条件
type PainterSearchDTO struct {
	Keyword  string `form:"keyword"`
	Style    string `form:"style"`
	Level    string `form:"level"`
	PriceMax uint   `form:"price_max"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// PainterDTO 画师档案响应
type PainterDTO struct {
	ID            uint64              `json:"id"`
	UserID        uint64              `json:"user_id"`
	Nickname      string              `json:"nickname"`
	AvatarURL     string              `json:"avatar_url"`
	Bio           string              `json:"bio"`
	Location      string              `json:"location"`
	Availability  string              `json:"availability,omitempty"`
	Level         string              `json:"level"`
	Styles        []string            `json:"styles"`
	PriceMin      uint                `json:"price_min"`
	PriceMax      uint                `json:"price_max"`
	Status        string              `json:"status,omitempty"`
	RejectReason  *string             `json:"reject_reason,omitempty"`
	Rating        float64             `json:"rating"`
	ReviewCount   int                 `json:"review_count"`
	FavoriteCount int                 `json:"favorite_count"`
	Portfolio     []PortfolioImageDTO `json:"portfolio,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// PortfolioImageDTO 作品集图片
type PortfolioImageDTO struct {
	ID    uint64 `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// PainterDashboardDTO 画师工作台统计
type PainterDashboardDTO struct {
	Views         int64   `json:"views"`
	Favorites     int     `json:"favorites"`
	Reviews       int     `json:"reviews"`
	Conversations int64   `json:"conversations"`
	Rating        float64 `json:"rating"`
}
