package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

type KafkaConfig struct {
	Brokers   []string
	Topic     string
	Username  string
	Password  string
	Mechanism string
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func saslMechanism(cfg KafkaConfig) (sasl.Mechanism, error) {
	if cfg.Username == "" {
		return nil, nil
	}
	switch strings.ToUpper(cfg.Mechanism) {
	case "", "PLAIN":
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	}
	return nil, fmt.Errorf("unsupported sasl mechanism %q", cfg.Mechanism)
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, fmt.Errorf("kafka brokers and topic are required")
	}
	mechanism, err := saslMechanism(cfg)
	if err != nil {
		return nil, err
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
			Transport:    &kafka.Transport{SASL: mechanism},
		},
	}, nil
}

func (k *KafkaPublisher) Publish(ctx context.Context, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
		})
	}

	if err := k.writer.WriteMessages(ctx, km...); err != nil {
		return fmt.Errorf("failed to write messages: %w", err)
	}
	return nil
}

// Notify publishes one notification keyed by recipient, so every user's
// events stay ordered within a partition.
func (k *KafkaPublisher) Notify(ctx context.Context, n domain.Notification) error {
	v, err := json.Marshal(NewNotificationEvent(n))
	if err != nil {
		return err
	}
	return k.Publish(ctx, domain.Message{Key: []byte(n.UserID), Value: v})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
