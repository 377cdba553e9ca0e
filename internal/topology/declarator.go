package topology

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nfrund/mqbind/internal/events"
)

// Declarer is the broker side of topology declaration. Every method must be
// idempotent: declaring an existing resource with identical properties succeeds
// without effect.
type Declarer interface {
	DeclareExchange(ctx context.Context, spec ExchangeSpec) error
	DeclareQueue(ctx context.Context, spec QueueSpec) error
	DeclareBinding(ctx context.Context, spec BindingSpec) error
}

// Declarator reconciles a catalog into broker resources.
type Declarator struct {
	broker Declarer
	logger *slog.Logger
}

// NewDeclarator creates a declarator that issues declare calls to broker.
// A nil logger falls back to slog.Default().
func NewDeclarator(broker Declarer, logger *slog.Logger) *Declarator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Declarator{
		broker: broker,
		logger: logger.With("component", "topology"),
	}
}

// Declare plans the topology for catalog and declares it: all exchanges first,
// then all queues, then all bindings. It stops at the first failure and returns
// it as a *ConfigurationError; the caller must not serve traffic in that case.
func (d *Declarator) Declare(ctx context.Context, catalog *events.Catalog, identity events.ServiceIdentity) (*Topology, error) {
	topo, err := Plan(catalog, identity)
	if err != nil {
		d.logger.Error("Topology planning failed", "service", identity, "error", err)
		return nil, err
	}

	d.logger.Info("Declaring broker topology",
		"service", topo.Service,
		"exchanges", len(topo.Exchanges),
		"queues", len(topo.Queues),
		"bindings", len(topo.Bindings))

	for _, ex := range topo.Exchanges {
		d.logger.Debug("Declaring exchange", "exchange", ex.Name)
		if err := d.broker.DeclareExchange(ctx, ex); err != nil {
			return nil, d.fail(StepExchange, ex.Name, err)
		}
	}

	for _, q := range topo.Queues {
		d.logger.Debug("Declaring queue", "queue", q.Name)
		if err := d.broker.DeclareQueue(ctx, q); err != nil {
			return nil, d.fail(StepQueue, q.Name, err)
		}
	}

	for _, b := range topo.Bindings {
		d.logger.Debug("Declaring binding",
			"queue", b.Queue,
			"exchange", b.Exchange,
			"routing_key", b.RoutingKey)
		if err := d.broker.DeclareBinding(ctx, b); err != nil {
			return nil, d.fail(StepBinding, b.Queue+" -> "+b.Exchange, err)
		}
	}

	d.logger.Info("Broker topology declared", "service", topo.Service)
	return topo, nil
}

func (d *Declarator) fail(step Step, resource string, cause error) error {
	err := &ConfigurationError{
		Type:     ErrorDeclareFailed,
		Step:     step,
		Resource: resource,
		Message:  "topology declaration failed",
		Cause:    cause,
	}
	d.logger.Error("Topology declaration failed", "step", step, "resource", resource, "error", cause)
	return err
}

// Once runs a Declarator at most one time. Later calls return the outcome of the
// first call, whatever arguments they pass.
type Once struct {
	declarator *Declarator
	once       sync.Once
	topo       *Topology
	err        error
}

// NewOnce wraps declarator so that it declares only once per process.
func NewOnce(declarator *Declarator) *Once {
	return &Once{declarator: declarator}
}

// Declare runs the wrapped declarator on the first call only.
func (o *Once) Declare(ctx context.Context, catalog *events.Catalog, identity events.ServiceIdentity) (*Topology, error) {
	o.once.Do(func() {
		o.topo, o.err = o.declarator.Declare(ctx, catalog, identity)
	})
	return o.topo, o.err
}
