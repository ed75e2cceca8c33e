package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/internal/config"
	"github.com/khoahotran/devfolio/pkg/logger"
)

type KafkaProducerClient struct {
	OwnerEventsWriter *kafka.Writer
	logger            logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}

	log.Info("Initialize Kafka Producer successfully.")
	return &KafkaProducerClient{OwnerEventsWriter: writer, logger: log}, nil
}

// Publish keys messages by owner id so that events of one owner stay ordered
// within a partition.
func (c *KafkaProducerClient) Publish(ctx context.Context, evt service.OwnerEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode owner event: %w", err)
	}
	return c.OwnerEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.OwnerID.String()),
		Value: value,
		Time:  evt.OccurredAt,
	})
}

func (c *KafkaProducerClient) Close() {
	if c.OwnerEventsWriter != nil {
		if err := c.OwnerEventsWriter.Close(); err != nil {
			c.logger.Error("Failed to close Kafka producer", err)
			return
		}
	}
	c.logger.Info("Closed Kafka Producer")
}

// NoopPublisher drops events. It is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, service.OwnerEvent) error { return nil }

var (
	_ service.EventPublisher = (*KafkaProducerClient)(nil)
	_ service.EventPublisher = NoopPublisher{}
)
