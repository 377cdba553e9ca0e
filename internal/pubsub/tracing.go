package pubsub

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nfrund/mqbind/internal/publisher"
)

const (
	tracerName      = "mqbind-pubsub"
	messagingSystem = "rabbitmq"
)

// TracingSender wraps a publisher.Sender with an OpenTelemetry span per send.
type TracingSender struct {
	next   publisher.Sender
	tracer trace.Tracer
}

var _ publisher.Sender = (*TracingSender)(nil)

// NewTracingSender creates a sender that traces every call to next.
func NewTracingSender(next publisher.Sender, tracer trace.Tracer) *TracingSender {
	return &TracingSender{
		next:   next,
		tracer: tracer,
	}
}

// Send wraps the send operation with a producer span.
func (s *TracingSender) Send(ctx context.Context, exchange, routingKey string, payload any) error {
	spanCtx, span := s.tracer.Start(ctx, "publish "+exchange,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", messagingSystem),
			attribute.String("messaging.operation", "publish"),
			attribute.String("messaging.destination.name", exchange),
			attribute.String("messaging.rabbitmq.destination.routing_key", routingKey),
		),
	)
	defer span.End()

	err := s.next.Send(spanCtx, exchange, routingKey, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
