package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/mqbind/internal/events"
	"github.com/nfrund/mqbind/internal/publisher"
	"github.com/nfrund/mqbind/internal/pubsub"
	"github.com/nfrund/mqbind/internal/topology"
)

var brokenEvent = events.Define(events.Config{Name: "Broken", RoutingKey: "broken.event"})

func newTestServer(t *testing.T, declare bool) (*Server, *pubsub.MemoryBroker) {
	t.Helper()

	broker := pubsub.NewMemoryBroker()
	t.Cleanup(func() { broker.Close() })

	catalog := events.NewCatalog(
		[]*events.Descriptor{events.OrderPlaced.Descriptor},
		[]*events.Descriptor{events.UserCreated.Descriptor},
	)
	identity := events.ServiceIdentity("billing-service")

	if declare {
		_, err := topology.NewDeclarator(broker, nil).Declare(context.Background(), catalog, identity)
		require.NoError(t, err)
	}

	s := New(Dependencies{
		Catalog:   catalog,
		Identity:  identity,
		Publisher: publisher.New(broker, nil),
	})
	return s, broker
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := doRequest(s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestCatalogGet(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := doRequest(s, http.MethodGet, "/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CatalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "billing-service", resp.Service)
	require.Len(t, resp.Produced, 1)
	assert.Equal(t, "OrderPlaced", resp.Produced[0].Name)
	assert.Equal(t, "orders", resp.Produced[0].Exchange)
	assert.Equal(t, "OrderPlacedPayload", resp.Produced[0].PayloadType)
	assert.Contains(t, resp.Produced[0].PayloadFields, "orderId")
	require.Len(t, resp.Consumed, 1)
	assert.Equal(t, "user.created", resp.Consumed[0].RoutingKey)
}

func TestTopologyGet(t *testing.T) {
	s, broker := newTestServer(t, false)

	rec := doRequest(s, http.MethodGet, "/topology", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var topo topology.Topology
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &topo))

	assert.Equal(t, []string{"orders", "users"}, topo.ExchangeNames())
	assert.Equal(t, []string{"users.UserCreated.billing-service"}, topo.QueueNames())
	assert.Empty(t, broker.Exchanges(), "planning must not declare anything")
}

func TestEventPost(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		s, broker := newTestServer(t, true)

		received := make(chan pubsub.Delivery, 1)
		require.NoError(t, broker.Subscribe(context.Background(), "users.UserCreated.billing-service",
			func(ctx context.Context, d pubsub.Delivery) error {
				received <- d
				return nil
			}))

		rec := doRequest(s, http.MethodPost, "/events/UserCreated", `{"userId":"u-1","email":"ada@example.com"}`)
		require.Equal(t, http.StatusAccepted, rec.Code)

		var resp PublishResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, PublishResponse{Event: "UserCreated", Exchange: "users", RoutingKey: "user.created"}, resp)

		d := <-received
		assert.JSONEq(t, `{"userId":"u-1","email":"ada@example.com"}`, string(d.Payload))
	})

	t.Run("unknown event", func(t *testing.T) {
		s, _ := newTestServer(t, true)

		rec := doRequest(s, http.MethodPost, "/events/NoSuchEvent", `{}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "unknown event")
	})

	t.Run("invalid body", func(t *testing.T) {
		s, _ := newTestServer(t, true)

		rec := doRequest(s, http.MethodPost, "/events/OrderPlaced", `{"orderId":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doRequest(s, http.MethodPost, "/events/OrderPlaced", ``)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("transport failure", func(t *testing.T) {
		// Nothing declared, so the exchange is unknown to the broker.
		s, _ := newTestServer(t, false)

		rec := doRequest(s, http.MethodPost, "/events/OrderPlaced", `{"orderId":"o-1"}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("unroutable descriptor", func(t *testing.T) {
		broker := pubsub.NewMemoryBroker()
		defer broker.Close()

		s := New(Dependencies{
			Catalog:   events.NewCatalog([]*events.Descriptor{brokenEvent}, nil),
			Identity:  "billing-service",
			Publisher: publisher.New(broker, nil),
		})

		rec := doRequest(s, http.MethodPost, "/events/Broken", `{}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "exchange")
		assert.Empty(t, broker.Exchanges())
	})
}

func TestHTTPErrorHandler_WithStackTrace(t *testing.T) {
	e := echo.New()

	// Capture log output through the default logger.
	var logBuffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuffer, &slog.HandlerOptions{AddSource: true}))
	originalLogger := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(originalLogger)

	setupErrorHandling(e)

	e.GET("/test-unhandled-error", func(c echo.Context) error {
		return errors.New("a deliberate unhandled error occurred")
	})

	req := httptest.NewRequest(http.MethodGet, "/test-unhandled-error", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal Server Error")

	logOutput := logBuffer.String()
	assert.Contains(t, logOutput, "Internal Server Error (Unhandled)")
	assert.Contains(t, logOutput, "error=\"a deliberate unhandled error occurred\"")
	assert.Contains(t, logOutput, "stack_trace=")
	assert.Contains(t, logOutput, "runtime/debug/stack.go")
}

func TestHTTPErrorHandler_HTTPError(t *testing.T) {
	e := echo.New()
	setupErrorHandling(e)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}

func TestStart_StopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx, "127.0.0.1:0") }()

	cancel()
	assert.NoError(t, <-done)
}
