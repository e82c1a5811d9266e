package kafka

import (
	"Atelier/internal/api/config"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// NotifyProducer 通知事件生产者，投递失败只记录日志
type NotifyProducer interface {
	Send(ctx context.Context, event *NotifyEvent)
	Close() error
}

type NotifyProducerImpl struct {
	producer sarama.AsyncProducer
	topic    string
}

func NewNotifyProducer(cfg *config.Config) (NotifyProducer, error) {
	saramaCfg := newProducerConfig(cfg.Kafka)

	producer, err := sarama.NewAsyncProducer(cfg.Kafka.Brokers, saramaCfg)
	if err != nil {
		return nil, err
	}

	p := &NotifyProducerImpl{
		producer: producer,
		topic:    cfg.NotifyConsume.Topic,
	}

	// 异步投递的错误只消费不中断
	go func() {
		for err := range producer.Errors() {
			log.Error("notify event delivery failed", "err", err)
		}
	}()

	return p, nil
}

func (p *NotifyProducerImpl) Send(ctx context.Context, event *NotifyEvent) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		log.ErrorContext(ctx, "marshal notify event error", "err", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(uint64ToStr(event.ReceiverID)),
		Value: sarama.ByteEncoder(value),
	}

	select {
	case p.producer.Input() <- msg:
	case <-ctx.Done():
		log.WarnContext(ctx, "notify event dropped, context canceled", "receiverID", event.ReceiverID)
	}
}

func (p *NotifyProducerImpl) Close() error {
	return p.producer.Close()
}
