package model

import "time"

// Conversation 画师与学生的一对一会话
// (painter_id, student_id) 唯一，并发创建由唯一索引兜底
type Conversation struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PainterID      uint64    `gorm:"not null;uniqueIndex:idx_pair" json:"painterId"`
	PainterUserID  uint64    `gorm:"not null;index:idx_conv_painter_user" json:"painterUserId"`
	StudentID      uint64    `gorm:"not null;uniqueIndex:idx_pair;index:idx_conv_student" json:"studentId"`
	MaxMsgSeq      uint64    `gorm:"not null;default:0" json:"maxMsgSeq"` // 消息序列号
	LastMsgContent string    `gorm:"type:varchar(255)" json:"lastMsgContent"`
	LastSenderID   uint64    `gorm:"not null;default:0" json:"lastSenderId"`
	LastMessageAt  time.Time `gorm:"index" json:"lastMessageAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Conversation) TableName() string { return "conversations" }
