package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/internal/config"
	"github.com/khoahotran/devfolio/pkg/logger"
)

// OwnerEventHandler processes one decoded event. Returning an error leaves
// the message uncommitted so it is delivered again.
type OwnerEventHandler func(ctx context.Context, evt service.OwnerEvent) error

type KafkaConsumer struct {
	reader *kafka.Reader
	logger logger.Logger
}

func NewKafkaConsumer(cfg config.Config, groupID string, log logger.Logger) (*KafkaConsumer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    cfg.Kafka.Topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &KafkaConsumer{reader: reader, logger: log}, nil
}

// Run reads until ctx is cancelled. Malformed messages are committed and
// skipped.
func (c *KafkaConsumer) Run(ctx context.Context, handle OwnerEventHandler) error {
	c.logger.Info("Worker listening", zap.String("topic", c.reader.Config().Topic))

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			continue
		}

		evt, err := DecodeOwnerEvent(msg)
		if err != nil {
			c.logger.Warn("Skipping malformed event", zap.String("key", string(msg.Key)), zap.Error(err))
			c.commit(ctx, msg)
			continue
		}

		c.logger.Debug("Processing event",
			zap.String("type", evt.Type), zap.String("owner_id", evt.OwnerID.String()))
		if err := handle(ctx, evt); err != nil {
			c.logger.Error("Failed to process event", err,
				zap.String("type", evt.Type), zap.String("owner_id", evt.OwnerID.String()))
			continue
		}
		c.commit(ctx, msg)
	}
}

func (c *KafkaConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("Failed to commit message", err)
	}
}

func (c *KafkaConsumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("Failed to close Kafka consumer", err)
		return
	}
	c.logger.Info("Closed Kafka Consumer")
}

func DecodeOwnerEvent(msg kafka.Message) (service.OwnerEvent, error) {
	var evt service.OwnerEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return evt, fmt.Errorf("decode owner event: %w", err)
	}
	if evt.Type == "" {
		return evt, errors.New("owner event without type")
	}
	return evt, nil
}
