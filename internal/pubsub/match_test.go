package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoutingKeyMatches(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"order.placed", "order.placed", true},
		{"order.placed", "order.cancelled", false},
		{"order.*", "order.placed", true},
		{"order.*", "order.placed.eu", false},
		{"order.*", "order", false},
		{"order.#", "order", true},
		{"order.#", "order.placed.eu", true},
		{"#", "anything.at.all", true},
		{"#.placed", "order.placed", true},
		{"#.placed", "placed", true},
		{"*.placed", "placed", false},
		{"order.#.eu", "order.placed.eu", true},
		{"order.#.eu", "order.eu", true},
		{"order.#.eu", "order.placed.us", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" vs "+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, RoutingKeyMatches(tt.pattern, tt.key))
		})
	}
}
