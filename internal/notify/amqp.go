package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// ErrBufferFull is returned when the publish queue is saturated.
var ErrBufferFull = errors.New("notification buffer full")

// AMQPConfig names the exchange notifications are published to.
type AMQPConfig struct {
	URL      string
	Exchange string
	Buffer   int
}

// AMQPPublisher publishes notifications to a fanout exchange from a single
// worker so Publish never blocks a session on the network.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	queue    chan domain.Notification
	logger   *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewAMQPPublisher(cfg AMQPConfig, logger *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 256
	}
	p := &AMQPPublisher{
		conn:     conn,
		ch:       ch,
		exchange: cfg.Exchange,
		queue:    make(chan domain.Notification, cfg.Buffer),
		logger:   logger,
	}
	p.wg.Add(1)
	go p.run()
	return p, nil
}

func (p *AMQPPublisher) Publish(_ context.Context, n domain.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- n:
		return nil
	default:
		return ErrBufferFull
	}
}

func (p *AMQPPublisher) run() {
	defer p.wg.Done()
	for n := range p.queue {
		msg, err := encodeNotification(n)
		if err != nil {
			p.logger.Error("encode notification", zap.Error(err))
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = p.ch.PublishWithContext(ctx, p.exchange, string(n.Kind), false, false, msg)
		cancel()
		if err != nil {
			p.logger.Warn("publish notification", zap.String("kind", string(n.Kind)), zap.Error(err))
		}
	}
}

// Close drains queued notifications and closes the connection.
func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

func encodeNotification(n domain.Notification) (amqp.Publishing, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    n.At,
		ContentType:  "application/json",
		Type:         string(n.Kind),
		MessageId:    n.SessionID + ":" + n.At.Format(time.RFC3339Nano),
		Body:         body,
	}, nil
}
