package publisher

import (
	"errors"

	"github.com/nfrund/mqbind/internal/events"
)

// Kind classifies a publish failure.
type Kind string

const (
	KindMissingDescriptor Kind = "missing_descriptor"
	KindMissingExchange   Kind = "missing_exchange"
	KindMissingRoutingKey Kind = "missing_routing_key"
	KindTransport         Kind = "transport"
)

var (
	// ErrMissingDescriptor matches failures caused by an absent descriptor.
	ErrMissingDescriptor = events.ErrMissingDescriptor

	// ErrMissingExchange matches failures caused by a blank exchange.
	ErrMissingExchange = events.ErrMissingExchange

	// ErrMissingRoutingKey matches failures caused by a blank routing key.
	ErrMissingRoutingKey = events.ErrMissingRoutingKey

	// ErrTransport matches failures raised by the transport.
	ErrTransport = errors.New("transport failed to send message")
)

// PublishError is returned by Publish. Validation kinds mean the caller passed a
// malformed descriptor and the transport was never contacted; KindTransport means
// the message may not have been delivered.
type PublishError struct {
	Kind       Kind   `json:"kind"`
	Event      string `json:"event"`
	Exchange   string `json:"exchange,omitempty"`
	RoutingKey string `json:"routing_key,omitempty"`
	Cause      error  `json:"cause,omitempty"`
}

// Error implements the error interface
func (e *PublishError) Error() string {
	switch e.Kind {
	case KindMissingDescriptor:
		return "validation failed: outbound event descriptor cannot be nil"
	case KindMissingExchange:
		return "validation failed: outbound event '" + e.Event + "' has no exchange configured"
	case KindMissingRoutingKey:
		return "validation failed: outbound event '" + e.Event + "' has no routing key configured"
	}

	msg := "error sending message for event '" + e.Event + "' to exchange '" + e.Exchange +
		"' with routing key '" + e.RoutingKey + "'"
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes the sentinel for the kind and, for transport failures, the
// error returned by the transport.
func (e *PublishError) Unwrap() []error {
	switch e.Kind {
	case KindMissingDescriptor:
		return []error{ErrMissingDescriptor}
	case KindMissingExchange:
		return []error{ErrMissingExchange}
	case KindMissingRoutingKey:
		return []error{ErrMissingRoutingKey}
	}
	if e.Cause != nil {
		return []error{ErrTransport, e.Cause}
	}
	return []error{ErrTransport}
}

// IsValidation reports whether err is a publish failure caused by a malformed
// descriptor.
func IsValidation(err error) bool {
	var pubErr *PublishError
	return errors.As(err, &pubErr) && pubErr.Kind != KindTransport
}

// IsTransport reports whether err is a publish failure raised by the transport.
func IsTransport(err error) bool {
	var pubErr *PublishError
	return errors.As(err, &pubErr) && pubErr.Kind == KindTransport
}
