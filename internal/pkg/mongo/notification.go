package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationModel 站内通知模型
type NotificationModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"` // 通知接收者ID
	SenderID   uint64             `bson:"sender_id" json:"senderId"`     // 动作发起者ID (系统通知为0)
	Type       int8               `bson:"type" json:"type"`              // 通知类型，见 consts.NotifyType*
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`
	Link       string             `bson:"link,omitempty" json:"link"` // 回跳深链，如 /messages/{id}
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
