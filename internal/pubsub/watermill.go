package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nfrund/mqbind/internal/topology"
)

const (
	// Metadata keys used to carry routing information through watermill's message.
	metaKeyExchange   = "exchange"
	metaKeyRoutingKey = "routing_key"
	metaKeyQueue      = "queue"
)

// MemoryBroker is an in-process broker with topic-exchange semantics. Queues are
// backed by watermill's GoChannel, one watermill topic per queue, so messages
// published before a consumer subscribes are kept.
//
// It implements topology.Declarer and publisher.Sender and is used for local
// development and tests.
type MemoryBroker struct {
	mu        sync.RWMutex
	exchanges map[string]topology.ExchangeSpec
	queues    map[string]topology.QueueSpec
	bindings  map[bindingKey]topology.BindingSpec
	closed    bool

	channel *gochannel.GoChannel
	tracer  trace.Tracer
}

type bindingKey struct {
	queue, exchange, routingKey string
}

// NewMemoryBroker initializes an empty in-memory broker.
func NewMemoryBroker() *MemoryBroker {
	return NewMemoryBrokerWithTracer(noop.NewTracerProvider().Tracer(tracerName))
}

// NewMemoryBrokerWithTracer initializes an in-memory broker whose subscriptions
// record a span per processed delivery.
func NewMemoryBrokerWithTracer(tracer trace.Tracer) *MemoryBroker {
	logger := watermill.NewStdLogger(false, false)
	goChannel := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 64,
			Persistent:          true,
		},
		logger,
	)

	return &MemoryBroker{
		exchanges: make(map[string]topology.ExchangeSpec),
		queues:    make(map[string]topology.QueueSpec),
		bindings:  make(map[bindingKey]topology.BindingSpec),
		channel:   goChannel,
		tracer:    tracer,
	}
}

// DeclareExchange implements topology.Declarer.
func (b *MemoryBroker) DeclareExchange(ctx context.Context, spec topology.ExchangeSpec) error {
	if spec.Kind != topology.ExchangeKindTopic {
		return fmt.Errorf("exchange %q of kind %q: %w", spec.Name, spec.Kind, ErrUnsupportedKind)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	if existing, ok := b.exchanges[spec.Name]; ok {
		if existing != spec {
			return fmt.Errorf("exchange %q: %w", spec.Name, ErrPreconditionFailed)
		}
		return nil
	}

	b.exchanges[spec.Name] = spec
	return nil
}

// DeclareQueue implements topology.Declarer.
func (b *MemoryBroker) DeclareQueue(ctx context.Context, spec topology.QueueSpec) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	if existing, ok := b.queues[spec.Name]; ok {
		if existing != spec {
			return fmt.Errorf("queue %q: %w", spec.Name, ErrPreconditionFailed)
		}
		return nil
	}

	b.queues[spec.Name] = spec
	return nil
}

// DeclareBinding implements topology.Declarer. The exchange and the queue must
// already exist.
func (b *MemoryBroker) DeclareBinding(ctx context.Context, spec topology.BindingSpec) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	if _, ok := b.exchanges[spec.Exchange]; !ok {
		return fmt.Errorf("binding to exchange %q: %w", spec.Exchange, ErrNotFound)
	}
	if _, ok := b.queues[spec.Queue]; !ok {
		return fmt.Errorf("binding of queue %q: %w", spec.Queue, ErrNotFound)
	}

	key := bindingKey{queue: spec.Queue, exchange: spec.Exchange, routingKey: spec.RoutingKey}
	if _, ok := b.bindings[key]; !ok {
		b.bindings[key] = spec
	}
	return nil
}

// Send implements publisher.Sender. The payload is encoded as JSON and delivered
// to every queue bound to exchange with a pattern matching routingKey. Messages
// that match no binding are dropped, as on a real broker.
func (b *MemoryBroker) Send(ctx context.Context, exchange, routingKey string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	queues, err := b.route(exchange, routingKey)
	if err != nil {
		return err
	}

	if len(queues) == 0 {
		slog.Debug("Message matched no binding", "exchange", exchange, "routing_key", routingKey)
		return nil
	}

	for _, queue := range queues {
		wmMsg := message.NewMessage(watermill.NewUUID(), data)
		wmMsg.Metadata.Set(metaKeyExchange, exchange)
		wmMsg.Metadata.Set(metaKeyRoutingKey, routingKey)
		wmMsg.Metadata.Set(metaKeyQueue, queue)
		otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(wmMsg.Metadata))
		wmMsg.SetContext(ctx)

		if err := b.channel.Publish(queue, wmMsg); err != nil {
			return fmt.Errorf("failed to enqueue message on %q: %w", queue, err)
		}
	}
	return nil
}

// route returns the queues a message for exchange/routingKey is delivered to.
func (b *MemoryBroker) route(exchange, routingKey string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, ErrClosed
	}
	if _, ok := b.exchanges[exchange]; !ok {
		return nil, fmt.Errorf("exchange %q: %w", exchange, ErrNotFound)
	}

	seen := make(map[string]bool)
	var queues []string
	for key := range b.bindings {
		if key.exchange != exchange || seen[key.queue] {
			continue
		}
		if RoutingKeyMatches(key.routingKey, routingKey) {
			seen[key.queue] = true
			queues = append(queues, key.queue)
		}
	}
	sort.Strings(queues)
	return queues, nil
}

// Subscribe starts consuming queue with handler. It returns once the subscription
// is active; deliveries are processed on a separate goroutine until ctx is
// canceled or the broker is closed.
func (b *MemoryBroker) Subscribe(ctx context.Context, queue string, handler Handler) error {
	b.mu.RLock()
	_, ok := b.queues[queue]
	closed := b.closed
	b.mu.RUnlock()

	if closed {
		return ErrClosed
	}
	if !ok {
		return fmt.Errorf("queue %q: %w", queue, ErrNotFound)
	}

	messages, err := b.channel.Subscribe(ctx, queue)
	if err != nil {
		return err
	}

	go func() {
		for wmMsg := range messages {
			// Failed deliveries are logged and dropped. GoChannel redelivers a
			// nacked message at once, which would spin on a handler that always fails.
			if err := b.process(ctx, wmMsg, handler); err != nil {
				slog.Error("Failed to handle delivery, dropping it", "queue", queue, "msg_id", wmMsg.UUID, "error", err)
			}
			wmMsg.Ack()
		}
		slog.Debug("Subscription message loop ended", "queue", queue)
	}()

	return nil
}

// process runs handler for one message inside a span.
func (b *MemoryBroker) process(ctx context.Context, wmMsg *message.Message, handler Handler) error {
	d := Delivery{
		MessageID:  wmMsg.UUID,
		Queue:      wmMsg.Metadata.Get(metaKeyQueue),
		Exchange:   wmMsg.Metadata.Get(metaKeyExchange),
		RoutingKey: wmMsg.Metadata.Get(metaKeyRoutingKey),
		Payload:    wmMsg.Payload,
	}

	// Continue the trace of the publisher, if the message carries one.
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(wmMsg.Metadata))

	spanCtx, span := b.tracer.Start(ctx, "process "+d.Queue,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", messagingSystem),
			attribute.String("messaging.operation", "process"),
			attribute.String("messaging.destination.name", d.Exchange),
			attribute.String("messaging.rabbitmq.destination.routing_key", d.RoutingKey),
			attribute.String("messaging.message.id", d.MessageID),
		),
	)
	defer span.End()

	if err := handler(spanCtx, d); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Exchanges returns the declared exchanges sorted by name.
func (b *MemoryBroker) Exchanges() []topology.ExchangeSpec {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]topology.ExchangeSpec, 0, len(b.exchanges))
	for _, ex := range b.exchanges {
		result = append(result, ex)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Queues returns the declared queues sorted by name.
func (b *MemoryBroker) Queues() []topology.QueueSpec {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]topology.QueueSpec, 0, len(b.queues))
	for _, q := range b.queues {
		result = append(result, q)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Bindings returns the declared bindings sorted by queue, exchange and key.
func (b *MemoryBroker) Bindings() []topology.BindingSpec {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]topology.BindingSpec, 0, len(b.bindings))
	for _, binding := range b.bindings {
		result = append(result, binding)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Queue != result[j].Queue {
			return result[i].Queue < result[j].Queue
		}
		if result[i].Exchange != result[j].Exchange {
			return result[i].Exchange < result[j].Exchange
		}
		return result[i].RoutingKey < result[j].RoutingKey
	})
	return result
}

// Close shuts down the broker and ends all subscriptions.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	return b.channel.Close()
}
