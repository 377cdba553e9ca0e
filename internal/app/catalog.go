package app

import (
	"github.com/nfrund/mqbind/internal/events"
)

// ServiceCatalog returns the events this service produces and consumes.
// This is the single source of truth for the service's broker topology: adding
// an event to Consumed creates its queue and binding on the next start.
func ServiceCatalog() *events.Catalog {
	return events.NewCatalog(
		[]*events.Descriptor{
			events.OrderPlaced.Descriptor,
			events.OrderCancelled.Descriptor,
		},
		[]*events.Descriptor{
			events.UserCreated.Descriptor,
			events.PaymentCaptured.Descriptor,
		},
	)
}
