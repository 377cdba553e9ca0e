package topology

import (
	"strings"

	"github.com/nfrund/mqbind/internal/events"
	"github.com/nfrund/mqbind/internal/naming"
)

// Plan computes the topology required by catalog for the service identified by
// identity. Every descriptor must carry a non-blank exchange and routing key;
// nothing is planned otherwise. Other naming rules are left to the broker.
//
// Exchanges keep first-seen order, produced events before consumed ones.
// Identical consumed entries collapse into one queue and one binding.
func Plan(catalog *events.Catalog, identity events.ServiceIdentity) (*Topology, error) {
	if catalog == nil {
		return nil, &ConfigurationError{
			Type:    ErrorInvalidCatalog,
			Message: "catalog cannot be nil",
		}
	}

	if strings.TrimSpace(identity.String()) == "" {
		return nil, &ConfigurationError{
			Type:    ErrorInvalidIdentity,
			Message: "service identity cannot be empty",
		}
	}

	for _, d := range append(catalog.Produced(), catalog.Consumed()...) {
		if err := events.CheckRoute(d); err != nil {
			return nil, &ConfigurationError{
				Type:     ErrorInvalidCatalog,
				Resource: d.DisplayName(),
				Message:  "event is not routable",
				Cause:    err,
			}
		}
	}

	topo := &Topology{Service: identity.String()}

	exchangeSet := make(map[string]bool)
	addExchange := func(name string) {
		if exchangeSet[name] {
			return
		}
		exchangeSet[name] = true
		topo.Exchanges = append(topo.Exchanges, Exchange(name))
	}

	for _, d := range catalog.Produced() {
		addExchange(d.Exchange())
	}
	for _, d := range catalog.Consumed() {
		addExchange(d.Exchange())
	}

	queueSet := make(map[string]bool)
	bindingSet := make(map[BindingSpec]bool)
	for _, d := range catalog.Consumed() {
		queueName := naming.QueueName(d.Exchange(), d.Name(), identity.String())

		if !queueSet[queueName] {
			queueSet[queueName] = true
			topo.Queues = append(topo.Queues, Queue(queueName))
		}

		binding := BindingSpec{
			Queue:      queueName,
			Exchange:   d.Exchange(),
			RoutingKey: d.RoutingKey(),
			Event:      d.DisplayName(),
		}
		if !bindingSet[binding] {
			bindingSet[binding] = true
			topo.Bindings = append(topo.Bindings, binding)
		}
	}

	return topo, nil
}
