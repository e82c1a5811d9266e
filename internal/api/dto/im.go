package dto

import "time"

// SendMessageReq 发送消息请求体
// Content 与 Attachment 至少一项非空
type SendMessageReq struct {
	ConversationID uint64         `json:"conversation_id"`
	PainterID      uint64         `json:"painter_id"` // 未带会话 ID 时按画师创建/复用会话
	Content        string         `json:"content"`
	Attachment     *AttachmentDTO `json:"attachment,omitempty"`
}

// AttachmentDTO 消息附件
type AttachmentDTO struct {
	URL      string `json:"url" binding:"required"`
	MimeType string `json:"mime_type"`
	Name     string `json:"name"`
}

// MessageDTO 消息明细响应
type MessageDTO struct {
	ID             string         `json:"id,omitempty"`
	ConversationID uint64         `json:"conversation_id"`
	SenderID       uint64         `json:"sender_id"`
	Content        string         `json:"content,omitempty"`
	Attachment     *AttachmentDTO `json:"attachment,omitempty"`
	Read           bool           `json:"read"`
	Seq            uint64         `json:"seq"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ConversationDTO 会话列表项响应
type ConversationDTO struct {
	ConversationID uint64    `json:"conversation_id"`
	PainterID      uint64    `json:"painter_id"`
	PeerID         uint64    `json:"peer_id"` // 对手方用户ID
	PeerNickname   string    `json:"peer_nickname"`
	PeerAvatarURL  string    `json:"peer_avatar_url"`
	LastMsgContent string    `json:"last_msg_content"`
	LastSenderID   uint64    `json:"last_sender_id"`
	LastMessageAt  time.Time `json:"last_message_at"`
	UnreadCount    int64     `json:"unread_count"`
}

// ReadReceiptDTO 已读回执推送
type ReadReceiptDTO struct {
	Type           string `json:"type"`
	ConversationID uint64 `json:"conversation_id"`
	UserID         uint64 `json:"user_id"` // 执行已读的一方
	ReadCount      int64  `json:"read_count"`
}

// TypingEventDTO 键入状态推送
type TypingEventDTO struct {
	Type           string `json:"type"`
	ConversationID uint64 `json:"conversation_id"`
	UserID         uint64 `json:"user_id"`
	Typing         bool   `json:"typing"`
}

// MessagePushDTO 新消息推送
type MessagePushDTO struct {
	Type    string      `json:"type"`
	Message *MessageDTO `json:"message"`
}
