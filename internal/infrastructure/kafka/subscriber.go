package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaSubscriber struct {
	brokers []string
}

func NewDefaultKafkaSubscriber(brokers []string) *DefaultKafkaSubscriber {
	return &DefaultKafkaSubscriber{brokers: brokers}
}

// Subscribe streams messages until ctx is done or the reader fails; the
// channel is closed either way.
func (k *DefaultKafkaSubscriber) Subscribe(ctx context.Context, topic, groupID string) (<-chan domain.Message, error) {
	if len(k.brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: k.brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	out := make(chan domain.Message)
	go func() {
		defer close(out)
		defer reader.Close()
		for {
			m, err := reader.ReadMessage(ctx)
			if err != nil {
				return
			}
			select {
			case out <- domain.Message{Key: m.Key, Value: m.Value}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func DecodeNotificationEvent(m domain.Message) (NotificationEvent, error) {
	var event NotificationEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		return NotificationEvent{}, fmt.Errorf("decode notification event: %w", err)
	}
	return event, nil
}
