// Package rabbitmq implements the broker transport on RabbitMQ: idempotent
// declaration of topic exchanges, queues and bindings, and JSON publishing.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"

	"github.com/nfrund/mqbind/internal/topology"
)

// ContentType is set on every published message.
const ContentType = "application/json"

// channel is the subset of *amqp.Channel used by the transport.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// Transport declares topology and publishes messages over one AMQP channel.
// Use of the channel is serialized, so a Transport is safe for concurrent use.
// When the broker closes the channel (for example after a failed declaration)
// a new one is opened before the next operation.
type Transport struct {
	mu      sync.Mutex
	open    func() (channel, error)
	ch      channel
	conn    io.Closer
	appID   string
	logger  *slog.Logger
	nowFunc func() time.Time
}

var _ topology.Declarer = (*Transport)(nil)

// Dial connects to the broker at url. connectionName is shown in the broker's
// management UI and set as the AppId of published messages.
func Dial(url, connectionName string, logger *slog.Logger) (*Transport, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat:  10 * time.Second,
		Locale:     "en_US",
		Properties: amqp.Table{"connection_name": connectionName},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	open := func() (channel, error) {
		return conn.Channel()
	}

	t, err := newTransport(open, conn, connectionName, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return t, nil
}

func newTransport(open func() (channel, error), conn io.Closer, appID string, logger *slog.Logger) (*Transport, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ch, err := open()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return &Transport{
		open:    open,
		ch:      ch,
		conn:    conn,
		appID:   appID,
		logger:  logger.With("component", "rabbitmq"),
		nowFunc: time.Now,
	}, nil
}

// channel returns an open channel, reopening it if the broker closed it.
// The caller must hold t.mu.
func (t *Transport) channel() (channel, error) {
	if t.ch != nil && !t.ch.IsClosed() {
		return t.ch, nil
	}

	t.logger.Warn("AMQP channel closed, reopening")
	ch, err := t.open()
	if err != nil {
		return nil, fmt.Errorf("failed to reopen channel: %w", err)
	}
	t.ch = ch
	return ch, nil
}

// DeclareExchange implements topology.Declarer.
func (t *Transport) DeclareExchange(ctx context.Context, spec topology.ExchangeSpec) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	ch, err := t.channel()
	if err != nil {
		return err
	}
	return ch.ExchangeDeclare(spec.Name, spec.Kind, spec.Durable, spec.AutoDelete, false, false, nil)
}

// DeclareQueue implements topology.Declarer.
func (t *Transport) DeclareQueue(ctx context.Context, spec topology.QueueSpec) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	ch, err := t.channel()
	if err != nil {
		return err
	}
	_, err = ch.QueueDeclare(spec.Name, spec.Durable, spec.AutoDelete, spec.Exclusive, false, nil)
	return err
}

// DeclareBinding implements topology.Declarer.
func (t *Transport) DeclareBinding(ctx context.Context, spec topology.BindingSpec) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	ch, err := t.channel()
	if err != nil {
		return err
	}
	return ch.QueueBind(spec.Queue, spec.RoutingKey, spec.Exchange, false, nil)
}

// Send implements publisher.Sender. The payload is encoded as JSON and published
// as a persistent message. The trace context in ctx is injected into the message
// headers with the global propagator.
func (t *Transport) Send(ctx context.Context, exchange, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  ContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    t.nowFunc().UTC(),
		Type:         routingKey,
		AppId:        t.appID,
		Headers:      amqp.Table{},
		Body:         body,
	}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier(msg.Headers))

	t.mu.Lock()
	defer t.mu.Unlock()

	ch, err := t.channel()
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx, exchange, routingKey, false, false, msg)
}

// Close closes the channel and the connection.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ch != nil && !t.ch.IsClosed() {
		if err := t.ch.Close(); err != nil {
			t.logger.Warn("Failed to close AMQP channel", "error", err)
		}
	}
	if t.conn == nil {
		return nil
	}
	return t.conn.Close()
}
