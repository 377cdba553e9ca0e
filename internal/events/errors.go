package events

import "errors"

var (
	// ErrMissingDescriptor is returned when an event descriptor is absent.
	ErrMissingDescriptor = errors.New("event descriptor is missing")

	// ErrMissingExchange is returned when a descriptor has no exchange configured.
	ErrMissingExchange = errors.New("event has no exchange configured")

	// ErrMissingRoutingKey is returned when a descriptor has no routing key configured.
	ErrMissingRoutingKey = errors.New("event has no routing key configured")
)

// ErrorType defines the kind of catalog error.
type ErrorType string

const (
	ErrorMissingDescriptor ErrorType = "missing_descriptor"
	ErrorMissingExchange   ErrorType = "missing_exchange"
	ErrorMissingRoutingKey ErrorType = "missing_routing_key"
	ErrorInvalidExchange   ErrorType = "invalid_exchange"
	ErrorInvalidRoutingKey ErrorType = "invalid_routing_key"
	ErrorConflictingRoute  ErrorType = "conflicting_route"
	ErrorInvalidIdentity   ErrorType = "invalid_identity"
	ErrorCatalogUnreadable ErrorType = "catalog_unreadable"
)

// DescriptorError represents a structured error about an event descriptor or catalog.
type DescriptorError struct {
	Type    ErrorType `json:"type"`
	Event   string    `json:"event"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// Error implements the error interface
func (e *DescriptorError) Error() string {
	msg := e.Message
	if e.Event != "" {
		msg = "event '" + e.Event + "': " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *DescriptorError) Unwrap() error {
	return e.Cause
}
