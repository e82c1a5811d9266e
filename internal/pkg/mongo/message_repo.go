package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo interface {
	SaveMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, convID uint64) ([]*Message, error)
	SyncMessages(ctx context.Context, convID uint64, afterSeq uint64, limit int) ([]*Message, error)
	MarkConversationRead(ctx context.Context, convID uint64, readerID uint64) (int64, error)
	CountUnread(ctx context.Context, convID uint64, readerID uint64) (int64, error)
}

type messageRepoImpl struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepo {
	return &messageRepoImpl{
		col: db.Collection("message"),
	}
}

// SaveMessage 将消息存入 MongoDB
func (s *messageRepoImpl) SaveMessage(ctx context.Context, msg *Message) error {
	_, err := s.col.InsertOne(ctx, msg)
	return err
}

// ListMessages 拉取会话全量消息，按 seq 升序（渲染顺序）
func (s *messageRepoImpl) ListMessages(ctx context.Context, convID uint64) ([]*Message, error) {
	filter := bson.M{"conversation_id": convID}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "seq", Value: 1}})

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var messages []*Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// SyncMessages 增量拉取，用于断线重连后的状态校准
// afterSeq 为客户端已持有的最大序号
func (s *messageRepoImpl) SyncMessages(ctx context.Context, convID uint64, afterSeq uint64, limit int) ([]*Message, error) {
	filter := bson.M{
		"conversation_id": convID,
		"seq":             bson.M{"$gt": afterSeq},
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "seq", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var messages []*Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// MarkConversationRead 批量已读：只翻转非本人发送且未读的消息，返回受影响条数
// read 标记单向迁移，重复调用第二次必然命中 0 条
func (s *messageRepoImpl) MarkConversationRead(ctx context.Context, convID uint64, readerID uint64) (int64, error) {
	filter := bson.M{
		"conversation_id": convID,
		"read":            false,
		"sender_id":       bson.M{"$ne": readerID},
	}
	update := bson.M{"$set": bson.M{"read": true}}

	result, err := s.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// CountUnread 统计对端发来且未读的消息数，用于列表角标
func (s *messageRepoImpl) CountUnread(ctx context.Context, convID uint64, readerID uint64) (int64, error) {
	filter := bson.M{
		"conversation_id": convID,
		"read":            false,
		"sender_id":       bson.M{"$ne": readerID},
	}
	return s.col.CountDocuments(ctx, filter)
}
