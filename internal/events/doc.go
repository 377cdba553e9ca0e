// Package events defines the event descriptors a service produces and consumes,
// and the catalog that groups them.
//
// A descriptor names an event and pins it to a topic exchange and a routing key.
// Descriptors are defined once, usually as package-level values shared by every
// service in the organization, so that producers and consumers agree on exchange
// names, routing keys and derived queue names:
//
//	var OrderPlaced = events.DefineTyped[OrderPlacedPayload](events.Config{
//		Name:       "OrderPlaced",
//		Exchange:   "orders",
//		RoutingKey: "order.placed",
//	})
//
// A service then assembles its catalog from the descriptors it produces and the
// ones it consumes:
//
//	catalog := events.NewCatalog(
//		[]*events.Descriptor{events.OrderPlaced.Descriptor},
//		[]*events.Descriptor{events.UserCreated.Descriptor},
//	)
//	if err := catalog.Validate(); err != nil {
//		log.Fatal(err)
//	}
//
// Descriptors and catalogs are read-only after construction and safe to share
// between goroutines.
package events
