// Package app wires the service's components together and runs the startup
// bootstrap that declares the broker topology.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/do/v2"
	"go.opentelemetry.io/otel/trace"

	"github.com/nfrund/mqbind/internal/config"
	"github.com/nfrund/mqbind/internal/events"
	"github.com/nfrund/mqbind/internal/logging"
	"github.com/nfrund/mqbind/internal/publisher"
	"github.com/nfrund/mqbind/internal/pubsub"
	"github.com/nfrund/mqbind/internal/rabbitmq"
	"github.com/nfrund/mqbind/internal/topology"
)

// Transport is a broker connection able to declare topology and send messages.
type Transport interface {
	topology.Declarer
	publisher.Sender
	Close() error
}

// Tracing bundles the tracer with the function that flushes it. The injector
// calls Shutdown when it is shut down.
type Tracing struct {
	Tracer trace.Tracer
	flush  pubsub.ShutdownFunc
	logger *slog.Logger
}

// Shutdown flushes pending spans.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if err := t.flush(ctx); err != nil {
		t.logger.Error("Failed to shut down tracing", "error", err)
		return err
	}
	return nil
}

// managedTransport closes the wrapped transport when the injector shuts down.
type managedTransport struct {
	Transport
	logger *slog.Logger
}

// Shutdown closes the transport.
func (t *managedTransport) Shutdown() error {
	if err := t.Close(); err != nil {
		t.logger.Error("Failed to close transport", "error", err)
		return err
	}
	return nil
}

// New builds the dependency injector for cfg. Services are constructed lazily
// on first invocation, so building the injector never dials the broker.
func New(cfg *config.Config) *do.RootScope {
	i := do.New()

	do.ProvideValue(i, cfg)
	do.Provide(i, provideLogger)
	do.Provide(i, provideIdentity)
	do.Provide(i, provideCatalog)
	do.Provide(i, provideTracing)
	do.Provide(i, provideTransport)
	do.Provide(i, provideDeclarator)
	do.Provide(i, providePublisher)

	return i
}

// Bootstrap declares the service topology. It runs the declaration at most once
// per injector; the returned error is fatal and the service must not serve
// traffic after it.
func Bootstrap(ctx context.Context, i do.Injector) (*topology.Topology, error) {
	once, err := do.Invoke[*topology.Once](i)
	if err != nil {
		return nil, fmt.Errorf("failed to build declarator: %w", err)
	}
	catalog, err := do.Invoke[*events.Catalog](i)
	if err != nil {
		return nil, err
	}
	identity, err := do.Invoke[events.ServiceIdentity](i)
	if err != nil {
		return nil, err
	}

	return once.Declare(ctx, catalog, identity)
}

// Shutdown closes the transport and flushes pending spans. Services that were
// never constructed are skipped; failures are logged.
func Shutdown(ctx context.Context, i *do.RootScope) {
	i.ShutdownWithContext(ctx)
}

func provideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return logging.New(cfg.LogFormat, cfg.LogLevel), nil
}

func provideIdentity(i do.Injector) (events.ServiceIdentity, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return events.NewServiceIdentity(cfg.ServiceName)
}

func provideCatalog(i do.Injector) (*events.Catalog, error) {
	return ServiceCatalog(), nil
}

func provideTracing(i do.Injector) (*Tracing, error) {
	cfg := do.MustInvoke[*config.Config](i)

	tracer, shutdown, err := pubsub.SetupOTel(context.Background(), cfg.Tracing)
	if err != nil {
		return nil, err
	}
	return &Tracing{
		Tracer: tracer,
		flush:  shutdown,
		logger: do.MustInvoke[*slog.Logger](i),
	}, nil
}

func provideTransport(i do.Injector) (Transport, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logger := do.MustInvoke[*slog.Logger](i)

	switch cfg.Broker {
	case config.BrokerMemory:
		tracing, err := do.Invoke[*Tracing](i)
		if err != nil {
			return nil, err
		}
		logger.Info("Using in-memory broker")
		return &managedTransport{
			Transport: pubsub.NewMemoryBrokerWithTracer(tracing.Tracer),
			logger:    logger,
		}, nil
	case config.BrokerAMQP:
		logger.Info("Connecting to broker", "service", cfg.ServiceName)
		transport, err := rabbitmq.Dial(cfg.AMQPURL, cfg.ServiceName, logger)
		if err != nil {
			return nil, err
		}
		return &managedTransport{Transport: transport, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown broker %q", cfg.Broker)
	}
}

func provideDeclarator(i do.Injector) (*topology.Once, error) {
	transport, err := do.Invoke[Transport](i)
	if err != nil {
		return nil, err
	}
	logger := do.MustInvoke[*slog.Logger](i)
	return topology.NewOnce(topology.NewDeclarator(transport, logger)), nil
}

func providePublisher(i do.Injector) (*publisher.Publisher, error) {
	transport, err := do.Invoke[Transport](i)
	if err != nil {
		return nil, err
	}
	tracing, err := do.Invoke[*Tracing](i)
	if err != nil {
		return nil, err
	}
	logger := do.MustInvoke[*slog.Logger](i)
	return publisher.New(pubsub.NewTracingSender(transport, tracing.Tracer), logger), nil
}
