package publisher

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/mqbind/internal/events"
)

// mockSender implements Sender for testing
type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, exchange, routingKey string, payload any) error {
	args := m.Called(ctx, exchange, routingKey, payload)
	return args.Error(0)
}

// panicSender panics on every send
type panicSender struct{}

func (panicSender) Send(ctx context.Context, exchange, routingKey string, payload any) error {
	panic("connection reset")
}

func newTestPublisher(sender Sender) (*Publisher, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(sender, logger), &buf
}

func TestPublisher_Validation(t *testing.T) {
	tests := []struct {
		name     string
		event    *events.Descriptor
		wantKind Kind
		wantErr  error
		wantLog  string
	}{
		{
			name:     "nil descriptor",
			event:    nil,
			wantKind: KindMissingDescriptor,
			wantErr:  ErrMissingDescriptor,
			wantLog:  "cannot be nil",
		},
		{
			name:     "empty exchange",
			event:    events.Define(events.Config{Name: "X", Exchange: "", RoutingKey: "k"}),
			wantKind: KindMissingExchange,
			wantErr:  ErrMissingExchange,
			wantLog:  "'X' has no exchange configured",
		},
		{
			name:     "whitespace exchange",
			event:    events.Define(events.Config{Name: "X", Exchange: "   ", RoutingKey: "k"}),
			wantKind: KindMissingExchange,
			wantErr:  ErrMissingExchange,
		},
		{
			name:     "empty routing key",
			event:    events.Define(events.Config{Name: "X", Exchange: "ex", RoutingKey: ""}),
			wantKind: KindMissingRoutingKey,
			wantErr:  ErrMissingRoutingKey,
			wantLog:  "'X' has no routing key configured",
		},
		{
			name:     "whitespace routing key",
			event:    events.Define(events.Config{Name: "X", Exchange: "ex", RoutingKey: "\t "}),
			wantKind: KindMissingRoutingKey,
			wantErr:  ErrMissingRoutingKey,
		},
		{
			name:     "unnamed event is reported with a placeholder",
			event:    events.Define(events.Config{Exchange: "ex"}),
			wantKind: KindMissingRoutingKey,
			wantErr:  ErrMissingRoutingKey,
			wantLog:  "'Unnamed Event' has no routing key configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &mockSender{}
			p, logs := newTestPublisher(sender)

			err := p.Publish(context.Background(), tt.event, map[string]string{"k": "v"})

			var pubErr *PublishError
			require.ErrorAs(t, err, &pubErr)
			assert.Equal(t, tt.wantKind, pubErr.Kind)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidation(err))
			assert.False(t, IsTransport(err))
			if tt.wantLog != "" {
				assert.Contains(t, logs.String(), tt.wantLog)
			}

			sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPublisher_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards exchange, routing key and payload", func(t *testing.T) {
		sender := &mockSender{}
		payload := events.UserCreatedPayload{UserID: "u1", Email: "a@example.com"}
		sender.On("Send", ctx, "users", "user.created", payload).Return(nil).Once()

		p, _ := newTestPublisher(sender)
		err := p.Publish(ctx, events.UserCreated.Descriptor, payload)

		assert.NoError(t, err)
		sender.AssertExpectations(t)
	})

	t.Run("typed publish", func(t *testing.T) {
		sender := &mockSender{}
		payload := events.OrderPlacedPayload{OrderID: "o1"}
		sender.On("Send", ctx, "orders", "order.placed", payload).Return(nil).Once()

		p, _ := newTestPublisher(sender)
		assert.NoError(t, PublishTyped(ctx, p, events.OrderPlaced, payload))
		sender.AssertExpectations(t)
	})

	t.Run("transport error is contained and returned", func(t *testing.T) {
		sender := &mockSender{}
		brokerErr := errors.New("channel closed")
		sender.On("Send", ctx, "ex", "k", "payload").Return(brokerErr).Once()

		p, logs := newTestPublisher(sender)
		event := events.Define(events.Config{Name: "X", Exchange: "ex", RoutingKey: "k"})

		var err error
		assert.NotPanics(t, func() {
			err = p.Publish(ctx, event, "payload")
		})

		var pubErr *PublishError
		require.ErrorAs(t, err, &pubErr)
		assert.Equal(t, KindTransport, pubErr.Kind)
		assert.Equal(t, "X", pubErr.Event)
		assert.Equal(t, "ex", pubErr.Exchange)
		assert.Equal(t, "k", pubErr.RoutingKey)
		assert.ErrorIs(t, err, ErrTransport)
		assert.ErrorIs(t, err, brokerErr)
		assert.True(t, IsTransport(err))
		assert.False(t, IsValidation(err))
		assert.Contains(t, logs.String(), "Error sending message")
		assert.Contains(t, logs.String(), "routing_key=k")

		// The caller keeps going after a failed publish.
		sender.On("Send", ctx, "ex", "k", "next").Return(nil).Once()
		assert.NoError(t, p.Publish(ctx, event, "next"))
		sender.AssertExpectations(t)
	})

	t.Run("transport panic is recovered", func(t *testing.T) {
		p, _ := newTestPublisher(panicSender{})
		event := events.Define(events.Config{Name: "X", Exchange: "ex", RoutingKey: "k"})

		var err error
		assert.NotPanics(t, func() {
			err = p.Publish(ctx, event, "payload")
		})
		assert.True(t, IsTransport(err))
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestPublisher_Concurrent(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything, "orders", "order.placed", mock.Anything).Return(nil)

	p, _ := newTestPublisher(sender)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, p.Publish(context.Background(), events.OrderPlaced.Descriptor, i))
		}(i)
	}
	wg.Wait()

	sender.AssertNumberOfCalls(t, "Send", 50)
}
