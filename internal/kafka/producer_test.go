package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blacktie/storefront/internal/domain"
	json "github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func TestProducer_PublishOrder(t *testing.T) {
	writer := &MockWriter{}
	producer := newProducer(writer, "orders", "hero", nil)
	ctx := context.Background()

	order := domain.ConfirmedOrder{
		OrderID:        "o-1",
		EventRef:       "1",
		TicketQuantity: 3,
		Pricing:        domain.Pricing{Subtotal: 267, Fees: 27, Total: 294},
		ConfirmedAt:    time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
	}

	var sent kafka.Message
	writer.On("WriteMessages", ctx, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message)[0] }).
		Return(nil).Once()

	require.NoError(t, producer.PublishOrder(ctx, order))

	assert.Equal(t, "orders", sent.Topic)
	assert.Equal(t, []byte("o-1"), sent.Key)

	var event OrderEvent
	require.NoError(t, json.Unmarshal(sent.Value, &event))
	assert.Equal(t, EventOrderConfirmed, event.Type)
	assert.Equal(t, order, event.Order)
	writer.AssertExpectations(t)
}

func TestProducer_PublishOrderRetries(t *testing.T) {
	writer := &MockWriter{}
	producer := newProducer(writer, "orders", "hero", nil)
	producer.backoff = time.Millisecond
	ctx := context.Background()

	writer.On("WriteMessages", ctx, mock.Anything).Return(errors.New("leader not available")).Twice()
	writer.On("WriteMessages", ctx, mock.Anything).Return(nil).Once()

	require.NoError(t, producer.PublishOrder(ctx, domain.ConfirmedOrder{OrderID: "o-2"}))
	writer.AssertNumberOfCalls(t, "WriteMessages", 3)
}

func TestProducer_PublishOrderGivesUp(t *testing.T) {
	writer := &MockWriter{}
	producer := newProducer(writer, "orders", "hero", nil)
	producer.backoff = time.Millisecond
	ctx := context.Background()

	writer.On("WriteMessages", ctx, mock.Anything).Return(errors.New("broker down"))

	err := producer.PublishOrder(ctx, domain.ConfirmedOrder{OrderID: "o-3"})
	assert.Error(t, err)
	writer.AssertNumberOfCalls(t, "WriteMessages", 3)
}

func TestProducer_NotifyHeroChanged(t *testing.T) {
	writer := &MockWriter{}
	producer := newProducer(writer, "orders", "hero", nil)
	ctx := context.Background()

	var sent kafka.Message
	writer.On("WriteMessages", ctx, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message)[0] }).
		Return(nil).Once()

	current := domain.CurrentHeroMedia{ImageURL: "a.jpg", VideoURL: "b.mp4"}
	require.NoError(t, producer.NotifyHeroChanged(ctx, current))

	assert.Equal(t, "hero", sent.Topic)
	var event HeroEvent
	require.NoError(t, json.Unmarshal(sent.Value, &event))
	assert.Equal(t, EventHeroMediaChanged, event.Type)
	assert.Equal(t, current, event.Current)
}

func TestProducer_NotifyHeroChangedWithoutTopic(t *testing.T) {
	writer := &MockWriter{}
	producer := newProducer(writer, "orders", "", nil)

	require.NoError(t, producer.NotifyHeroChanged(context.Background(), domain.CurrentHeroMedia{}))
	writer.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestProducer_Close(t *testing.T) {
	writer := &MockWriter{}
	writer.On("Close").Return(nil).Once()

	assert.NoError(t, newProducer(writer, "orders", "hero", nil).Close())
	writer.AssertExpectations(t)
}
