package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"storefront/internal/domain"
)

type failingSink struct{ calls int }

func (f *failingSink) Publish(context.Context, domain.Notification) error {
	f.calls++
	return errors.New("broker down")
}

type recordingSink struct{ got []domain.Notification }

func (r *recordingSink) Publish(_ context.Context, n domain.Notification) error {
	r.got = append(r.got, n)
	return nil
}

func TestBus_SubscribersInOrder(t *testing.T) {
	bus := NewBus(nil)
	var order []string
	bus.Subscribe(func(n domain.Notification) { order = append(order, "a:"+string(n.Kind)) })
	unsub := bus.Subscribe(func(n domain.Notification) { order = append(order, "b:"+string(n.Kind)) })

	bus.Publish(context.Background(), domain.Notification{Kind: domain.NotifyItemAdded})
	unsub()
	bus.Publish(context.Background(), domain.Notification{Kind: domain.NotifyItemRemoved})

	assert.Equal(t, []string{"a:item-added", "b:item-added", "a:item-removed"}, order)
}

func TestBus_SinkErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	bad := &failingSink{}
	good := &recordingSink{}
	bus := NewBus(zap.New(core), bad, good)

	bus.Publish(context.Background(), domain.Notification{SessionID: "s1", Kind: domain.NotifyOrderPlaced})

	assert.Equal(t, 1, bad.calls)
	require.Len(t, good.got, 1)
	assert.Equal(t, domain.NotifyOrderPlaced, good.got[0].Kind)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "notification sink failed", logs.All()[0].Message)
}

func TestEncodeNotification(t *testing.T) {
	at := time.Date(2025, 4, 10, 9, 15, 0, 0, time.UTC)
	n := domain.Notification{SessionID: "s1", Kind: domain.NotifyOrderPlaced, Title: "Order placed successfully!", OrderID: "ORD-100000", At: at}

	msg, err := encodeNotification(n)
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), msg.DeliveryMode)
	assert.Equal(t, "order-placed", msg.Type)
	assert.Equal(t, at, msg.Timestamp)

	var back domain.Notification
	require.NoError(t, json.Unmarshal(msg.Body, &back))
	assert.Equal(t, "ORD-100000", back.OrderID)
}

func TestAMQPPublisher_ClosedRejects(t *testing.T) {
	p := &AMQPPublisher{queue: make(chan domain.Notification, 1), logger: zap.NewNop()}
	p.wg.Add(1)
	go p.run()

	p.Close()
	err := p.Publish(context.Background(), domain.Notification{Kind: domain.NotifyItemAdded})
	assert.ErrorIs(t, err, ErrPublisherClosed)
}
