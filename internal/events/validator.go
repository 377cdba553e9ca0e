package events

import (
	"fmt"
	"regexp"
	"strings"
)

// maxNameLength is the AMQP limit for exchange names and routing keys (short strings).
const maxNameLength = 255

// CheckRoute reports whether a descriptor can be routed at all: it must be present
// and carry a non-blank exchange and routing key. The returned error is one of
// ErrMissingDescriptor, ErrMissingExchange or ErrMissingRoutingKey.
func CheckRoute(d *Descriptor) error {
	if d == nil {
		return ErrMissingDescriptor
	}
	if strings.TrimSpace(d.exchange) == "" {
		return ErrMissingExchange
	}
	if strings.TrimSpace(d.routingKey) == "" {
		return ErrMissingRoutingKey
	}
	return nil
}

// Validator provides validation for event descriptors and catalogs
type Validator struct {
	// exchangePattern matches the characters a broker accepts in exchange names
	exchangePattern *regexp.Regexp
}

// NewValidator creates a new descriptor validator
func NewValidator() *Validator {
	return &Validator{
		exchangePattern: regexp.MustCompile(`^[a-zA-Z0-9_.:\-]+$`),
	}
}

// ValidateDescriptor validates a single descriptor definition
func (v *Validator) ValidateDescriptor(d *Descriptor) error {
	if err := CheckRoute(d); err != nil {
		return &DescriptorError{
			Type:    routeErrorType(err),
			Event:   d.DisplayName(),
			Message: "descriptor is not routable",
			Cause:   err,
		}
	}

	if err := v.validateExchange(d.exchange); err != nil {
		return &DescriptorError{
			Type:    ErrorInvalidExchange,
			Event:   d.DisplayName(),
			Message: "invalid exchange",
			Cause:   err,
		}
	}

	if err := v.validateRoutingKey(d.routingKey); err != nil {
		return &DescriptorError{
			Type:    ErrorInvalidRoutingKey,
			Event:   d.DisplayName(),
			Message: "invalid routing key",
			Cause:   err,
		}
	}

	return nil
}

// ValidateCatalog validates every descriptor in the catalog and checks that
// events sharing a name agree on their exchange and routing key.
func (v *Validator) ValidateCatalog(c *Catalog) error {
	seen := make(map[string]*Descriptor)
	for _, d := range c.entries() {
		if err := v.ValidateDescriptor(d); err != nil {
			return err
		}

		if d.name == "" {
			continue
		}
		if prev, ok := seen[d.name]; ok && !prev.sameRoute(d) {
			return &DescriptorError{
				Type:  ErrorConflictingRoute,
				Event: d.name,
				Message: fmt.Sprintf("defined twice with different routes (%s/%s and %s/%s)",
					prev.exchange, prev.routingKey, d.exchange, d.routingKey),
			}
		}
		seen[d.name] = d
	}
	return nil
}

// validateExchange checks that an exchange name is acceptable to the broker
func (v *Validator) validateExchange(name string) error {
	if len(name) > maxNameLength {
		return fmt.Errorf("name too long (max %d bytes)", maxNameLength)
	}

	if !v.exchangePattern.MatchString(name) {
		return fmt.Errorf("name must contain only letters, digits, '-', '_', '.' or ':'")
	}

	// The broker refuses client declarations in the reserved namespace
	if strings.HasPrefix(name, "amq.") {
		return fmt.Errorf("name cannot start with reserved prefix: amq.")
	}

	return nil
}

// validateRoutingKey checks a routing key or binding pattern
func (v *Validator) validateRoutingKey(key string) error {
	if len(key) > maxNameLength {
		return fmt.Errorf("key too long (max %d bytes)", maxNameLength)
	}

	if strings.ContainsAny(key, " \t\r\n") {
		return fmt.Errorf("key cannot contain whitespace")
	}

	for _, word := range strings.Split(key, ".") {
		if strings.ContainsAny(word, "*#") && len(word) > 1 {
			return fmt.Errorf("wildcards must occupy a whole word: %q", word)
		}
	}

	return nil
}

func routeErrorType(err error) ErrorType {
	switch err {
	case ErrMissingDescriptor:
		return ErrorMissingDescriptor
	case ErrMissingExchange:
		return ErrorMissingExchange
	default:
		return ErrorMissingRoutingKey
	}
}
