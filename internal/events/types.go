package events

import "strings"

// UnnamedEvent is reported in place of the name of a descriptor that has none.
const UnnamedEvent = "Unnamed Event"

// Config holds the fields used to define a new event descriptor.
type Config struct {
	Name        string `json:"name" yaml:"name"`
	Exchange    string `json:"exchange" yaml:"exchange"`
	RoutingKey  string `json:"routing_key" yaml:"routing_key"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Descriptor identifies an event and where it is routed on the broker.
// The zero value is not useful; create descriptors with Define.
type Descriptor struct {
	name        string
	exchange    string
	routingKey  string
	description string
	payload     payloadInfo
}

// payloadInfo documents the payload type of typed descriptors.
type payloadInfo struct {
	typeName string
	fields   []string
}

// Define creates a new immutable event descriptor.
func Define(config Config) *Descriptor {
	return &Descriptor{
		name:        config.Name,
		exchange:    config.Exchange,
		routingKey:  config.RoutingKey,
		description: config.Description,
	}
}

// Name returns the event name, which may be empty.
func (d *Descriptor) Name() string {
	return d.name
}

// DisplayName returns the event name, or UnnamedEvent when there is none.
// A whitespace-only name is returned as is.
func (d *Descriptor) DisplayName() string {
	if d == nil || d.name == "" {
		return UnnamedEvent
	}
	return d.name
}

// Exchange returns the name of the topic exchange the event is published to.
func (d *Descriptor) Exchange() string {
	return d.exchange
}

// RoutingKey returns the routing key the event is published with.
func (d *Descriptor) RoutingKey() string {
	return d.routingKey
}

// Description returns human-readable documentation.
func (d *Descriptor) Description() string {
	return d.description
}

// PayloadType returns the Go type name of the payload for typed descriptors.
func (d *Descriptor) PayloadType() string {
	return d.payload.typeName
}

// PayloadFields returns the JSON field names of the payload for typed descriptors.
func (d *Descriptor) PayloadFields() []string {
	if len(d.payload.fields) == 0 {
		return nil
	}
	fields := make([]string, len(d.payload.fields))
	copy(fields, d.payload.fields)
	return fields
}

// Config returns the fields the descriptor was defined with.
func (d *Descriptor) Config() Config {
	return Config{
		Name:        d.name,
		Exchange:    d.exchange,
		RoutingKey:  d.routingKey,
		Description: d.description,
	}
}

// String returns the display name for easy debugging.
func (d *Descriptor) String() string {
	return d.DisplayName()
}

// sameRoute reports whether both descriptors publish to the same exchange and key.
func (d *Descriptor) sameRoute(other *Descriptor) bool {
	return d.exchange == other.exchange && d.routingKey == other.routingKey
}

// ServiceIdentity is the name of the running service. It is resolved once at
// startup and used as an input to queue naming.
type ServiceIdentity string

// NewServiceIdentity trims the given name and rejects blank identities.
func NewServiceIdentity(name string) (ServiceIdentity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &DescriptorError{
			Type:    ErrorInvalidIdentity,
			Message: "service identity cannot be empty",
		}
	}
	return ServiceIdentity(name), nil
}

// String returns the identity as a plain string.
func (s ServiceIdentity) String() string {
	return string(s)
}
