package pubsub

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a declaration or send refers to an exchange
	// or queue that does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrPreconditionFailed is returned when a resource is re-declared with
	// properties that differ from the existing one.
	ErrPreconditionFailed = errors.New("resource exists with different properties")

	// ErrUnsupportedKind is returned for exchange kinds other than topic.
	ErrUnsupportedKind = errors.New("unsupported exchange kind")

	// ErrClosed is returned when operating on a closed broker.
	ErrClosed = errors.New("broker closed")
)

// Delivery is a message taken off a queue.
type Delivery struct {
	// MessageID uniquely identifies the message.
	MessageID string
	// Queue is the queue the message was delivered from.
	Queue string
	// Exchange is the exchange the message was published to.
	Exchange string
	// RoutingKey is the key the message was published with.
	RoutingKey string
	// Payload contains the serialized message body (JSON).
	Payload []byte
}

// Handler defines the function signature for processing a delivery.
// A non-nil error is logged and the message is dropped; there is no redelivery.
type Handler func(ctx context.Context, d Delivery) error
