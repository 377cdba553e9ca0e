package rabbitmq

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel/propagation"
)

// headerCarrier adapts AMQP message headers to propagation.TextMapCarrier so
// trace context travels with the message.
type headerCarrier amqp.Table

var _ propagation.TextMapCarrier = headerCarrier(nil)

// Get returns the string value stored under key.
func (c headerCarrier) Get(key string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return ""
}

// Set stores a header value.
func (c headerCarrier) Set(key, value string) {
	c[key] = value
}

// Keys lists the header names.
func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}
