package topology

// ExchangeKindTopic is the only exchange type declared by this package.
const ExchangeKindTopic = "topic"

// ExchangeSpec describes an exchange to declare.
type ExchangeSpec struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Durable    bool   `json:"durable"`
	AutoDelete bool   `json:"auto_delete"`
}

// QueueSpec describes a queue to declare.
type QueueSpec struct {
	Name       string `json:"name"`
	Durable    bool   `json:"durable"`
	Exclusive  bool   `json:"exclusive"`
	AutoDelete bool   `json:"auto_delete"`
}

// BindingSpec links a queue to an exchange with a routing key pattern.
type BindingSpec struct {
	Queue      string `json:"queue"`
	Exchange   string `json:"exchange"`
	RoutingKey string `json:"routing_key"`
	Event      string `json:"event"`
}

// Topology is the full set of resources derived from a catalog. It is computed
// at startup and not retained.
type Topology struct {
	Service   string         `json:"service"`
	Exchanges []ExchangeSpec `json:"exchanges"`
	Queues    []QueueSpec    `json:"queues"`
	Bindings  []BindingSpec  `json:"bindings"`
}

// ExchangeNames returns the names of all exchanges in declaration order.
func (t *Topology) ExchangeNames() []string {
	names := make([]string, len(t.Exchanges))
	for i, ex := range t.Exchanges {
		names[i] = ex.Name
	}
	return names
}

// QueueNames returns the names of all queues in declaration order.
func (t *Topology) QueueNames() []string {
	names := make([]string, len(t.Queues))
	for i, q := range t.Queues {
		names[i] = q.Name
	}
	return names
}

// Exchange builds the spec every exchange is declared with.
func Exchange(name string) ExchangeSpec {
	return ExchangeSpec{
		Name:       name,
		Kind:       ExchangeKindTopic,
		Durable:    true,
		AutoDelete: false,
	}
}

// Queue builds the spec every queue is declared with.
func Queue(name string) QueueSpec {
	return QueueSpec{
		Name:       name,
		Durable:    true,
		Exclusive:  false,
		AutoDelete: false,
	}
}
