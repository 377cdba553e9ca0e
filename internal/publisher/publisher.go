// Package publisher is the single choke point through which a service publishes
// events. It refuses descriptors that cannot be routed and keeps transport
// failures from escaping as anything other than a returned error.
package publisher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/mqbind/internal/events"
)

// Sender hands a payload to the broker. Implementations serialize the payload
// and must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, exchange, routingKey string, payload any) error
}

// Publisher validates descriptors and forwards payloads to a Sender.
// It holds no mutable state and is safe for concurrent use.
type Publisher struct {
	sender Sender
	logger *slog.Logger
}

// New creates a publisher over sender. A nil logger falls back to slog.Default().
func New(sender Sender, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		sender: sender,
		logger: logger.With("component", "publisher"),
	}
}

// Publish validates event and sends payload to its exchange with its routing key.
//
// A nil event, or one with a blank exchange or routing key, is reported and
// returned as a validation *PublishError without contacting the transport.
// A transport error or panic is reported and returned as a KindTransport
// *PublishError. Publish never retries. Callers that only need today's
// fire-and-forget behaviour may ignore the result.
func (p *Publisher) Publish(ctx context.Context, event *events.Descriptor, payload any) error {
	if err := p.validate(event); err != nil {
		return err
	}

	exchange := event.Exchange()
	routingKey := event.RoutingKey()
	eventName := event.DisplayName()

	if err := p.send(ctx, exchange, routingKey, payload); err != nil {
		p.logger.Error("Error sending message",
			"event", eventName,
			"exchange", exchange,
			"routing_key", routingKey,
			"error", err)
		return &PublishError{
			Kind:       KindTransport,
			Event:      eventName,
			Exchange:   exchange,
			RoutingKey: routingKey,
			Cause:      err,
		}
	}

	p.logger.Debug("Message sent", "event", eventName, "exchange", exchange, "routing_key", routingKey)
	return nil
}

// PublishTyped sends a payload for a typed event. The compiler ensures payload
// matches the event's payload type.
func PublishTyped[T any](ctx context.Context, p *Publisher, event events.Typed[T], payload T) error {
	return p.Publish(ctx, event.Descriptor, payload)
}

// validate checks that event can be routed and reports the first failure.
func (p *Publisher) validate(event *events.Descriptor) error {
	var kind Kind
	switch events.CheckRoute(event) {
	case nil:
		return nil
	case events.ErrMissingDescriptor:
		kind = KindMissingDescriptor
	case events.ErrMissingExchange:
		kind = KindMissingExchange
	default:
		kind = KindMissingRoutingKey
	}

	err := &PublishError{Kind: kind, Event: event.DisplayName()}
	if event != nil {
		err.Exchange = event.Exchange()
		err.RoutingKey = event.RoutingKey()
	}
	p.logger.Error(err.Error(), "event", err.Event, "kind", kind)
	return err
}

// send calls the transport and turns a panic into an error.
func (p *Publisher) send(ctx context.Context, exchange, routingKey string, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transport panicked: %v", r)
		}
	}()
	return p.sender.Send(ctx, exchange, routingKey, payload)
}
