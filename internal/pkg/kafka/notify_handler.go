package kafka

import (
	"Atelier/internal/pkg/mongo"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
)

// NotifyHandler 消费通知事件并写入用户收件箱
type NotifyHandler struct {
	notificationRepo mongo.NotificationRepo
}

func NewNotifyHandler(notificationRepo mongo.NotificationRepo) *NotifyHandler {
	return &NotifyHandler{
		notificationRepo: notificationRepo,
	}
}

func (s *NotifyHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("notify consumer setup")
	return nil
}

func (s *NotifyHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("notify consumer cleanup")
	return nil
}

func (s *NotifyHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-notify consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-notify process batch error", "err", err)
		return err
	}
	return nil
}

func (s *NotifyHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, err := ToNotifyEvent(msg)
	if err != nil {
		// 脏消息直接跳过，重试也不会变好
		return nil
	}

	if event.ReceiverID == 0 {
		return nil
	}

	notification := &mongo.NotificationModel{
		ReceiverID: event.ReceiverID,
		SenderID:   event.SenderID,
		Type:       event.Type,
		Title:      event.Title,
		Content:    event.Content,
		Link:       event.Link,
		IsRead:     false,
		CreatedAt:  event.CreatedAt,
	}

	if err = s.notificationRepo.CreateNotification(ctx, notification); err != nil {
		log.ErrorContext(ctx, "save notification error", "receiverID", event.ReceiverID, "err", err)
		return errors.New("保存通知失败")
	}

	log.InfoContext(ctx, "notification saved", "receiverID", event.ReceiverID, "type", event.Type)
	return nil
}
