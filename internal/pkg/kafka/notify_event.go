package kafka

import (
	"time"
)

// NotifyEvent 通知事件，生产者写入 Kafka，消费者落库
type NotifyEvent struct {
	ReceiverID uint64    `json:"receiver_id"`
	SenderID   uint64    `json:"sender_id"`
	Type       int8      `json:"type"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Link       string    `json:"link"`
	CreatedAt  time.Time `json:"created_at"`
}
