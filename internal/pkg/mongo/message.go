package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message MongoDB 消息明细模型
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID uint64             `bson:"conversation_id" json:"conversationId"` // 关联 MySQL 的会话 ID
	SenderID       uint64             `bson:"sender_id" json:"senderId"`             // 发送者 UID
	Content        string             `bson:"content,omitempty" json:"content"`      // 文本内容，可为空（纯附件消息）
	Attachment     *Attachment        `bson:"attachment,omitempty" json:"attachment"`
	Read           bool               `bson:"read" json:"read"`           // 对端是否已读，只允许 false -> true
	Seq            uint64             `bson:"seq" json:"seq"`             // 会话内绝对序号 (来自 MySQL 定序)
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
}

// Attachment 单个附件描述，只保存对象存储返回的 URL 与声明的元信息
type Attachment struct {
	URL      string `bson:"url" json:"url"`
	MimeType string `bson:"mime_type" json:"mime_type"`
	Name     string `bson:"name" json:"name"`
}
