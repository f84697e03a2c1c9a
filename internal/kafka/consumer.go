package kafka

import (
	"context"
	"time"

	"github.com/blacktie/storefront/internal/domain"
	json "github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	reader MessageReader
	log    *zap.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	})
	return newConsumer(reader, log.With(zap.String("topic", topic)))
}

func newConsumer(reader MessageReader, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{reader: reader, log: log}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// ConsumeOrders passes each confirmed order to handle. Undecodable messages
// and other event types are skipped.
func (c *Consumer) ConsumeOrders(ctx context.Context, handle func(context.Context, domain.ConfirmedOrder) error) error {
	return c.consume(ctx, func(ctx context.Context, msg kafka.Message) error {
		var event OrderEvent
		if !c.decode(msg, &event) {
			return nil
		}
		if event.Type != EventOrderConfirmed {
			c.log.Debug("skipping order event", zap.String("type", event.Type))
			return nil
		}
		return handle(ctx, event.Order)
	})
}

// ConsumeHeroEvents passes each hero media change to handle.
func (c *Consumer) ConsumeHeroEvents(ctx context.Context, handle func(context.Context, HeroEvent) error) error {
	return c.consume(ctx, func(ctx context.Context, msg kafka.Message) error {
		var event HeroEvent
		if !c.decode(msg, &event) {
			return nil
		}
		if event.Type != EventHeroMediaChanged {
			c.log.Debug("skipping hero event", zap.String("type", event.Type))
			return nil
		}
		return handle(ctx, event)
	})
}

// consume blocks until ctx ends, the reader fails, or handler fails.
func (c *Consumer) consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
}

func (c *Consumer) decode(msg kafka.Message, v any) bool {
	if err := json.Unmarshal(msg.Value, v); err != nil {
		c.log.Warn("skipping undecodable message",
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return false
	}
	return true
}
