package model

import "time"

// Review 学生对画师的评价，一人一评
type Review struct {
	ID        uint64    `gorm:"primaryKey"`
	PainterID uint64    `gorm:"not null;uniqueIndex:idx_review_pair;index:idx_review_painter" json:"painter_id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_review_pair" json:"user_id"`
	Rating    uint8     `gorm:"not null" json:"rating"` // 1-5
	Content   string    `gorm:"type:varchar(1000)" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

func (Review) TableName() string {
	return "reviews"
}
