package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/blacktie/storefront/internal/domain"
	json "github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventOrderConfirmed   = "order_confirmed"
	EventHeroMediaChanged = "hero_media_changed"
)

type OrderEvent struct {
	Type  string                `json:"type"`
	Order domain.ConfirmedOrder `json:"order"`
}

type HeroEvent struct {
	Type      string                  `json:"type"`
	Current   domain.CurrentHeroMedia `json:"current"`
	ChangedAt time.Time               `json:"changed_at"`
}

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer      MessageWriter
	log         *zap.Logger
	ordersTopic string
	heroTopic   string
	maxRetries  int
	backoff     time.Duration
}

func NewProducer(brokers []string, ordersTopic, heroTopic string, log *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return newProducer(writer, ordersTopic, heroTopic, log)
}

func newProducer(writer MessageWriter, ordersTopic, heroTopic string, log *zap.Logger) *Producer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Producer{
		writer:      writer,
		log:         log,
		ordersTopic: ordersTopic,
		heroTopic:   heroTopic,
		maxRetries:  3,
		backoff:     500 * time.Millisecond,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	p.log.Debug("published to kafka", zap.String("topic", topic), zap.String("key", key))
	return nil
}

func (p *Producer) PublishWithRetry(ctx context.Context, topic, key string, payload interface{}) error {
	var lastErr error
	for i := 0; i < p.maxRetries; i++ {
		err := p.Publish(ctx, topic, key, payload)
		if err == nil {
			return nil
		}
		lastErr = err
		p.log.Warn("kafka publish attempt failed", zap.Int("attempt", i+1), zap.String("topic", topic), zap.Error(err))

		if i < p.maxRetries-1 {
			select {
			case <-time.After(time.Duration(i+1) * p.backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("failed after %d retries: %w", p.maxRetries, lastErr)
}

// PublishOrder hands a confirmed order to the receipt side, keyed by order id.
func (p *Producer) PublishOrder(ctx context.Context, order domain.ConfirmedOrder) error {
	return p.PublishWithRetry(ctx, p.ordersTopic, order.OrderID, OrderEvent{Type: EventOrderConfirmed, Order: order})
}

// NotifyHeroChanged tells homepage renderers to reload the current media.
func (p *Producer) NotifyHeroChanged(ctx context.Context, current domain.CurrentHeroMedia) error {
	if p.heroTopic == "" {
		return nil
	}
	return p.Publish(ctx, p.heroTopic, "hero", HeroEvent{Type: EventHeroMediaChanged, Current: current, ChangedAt: time.Now().UTC()})
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
