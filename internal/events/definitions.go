package events

import "time"

// Events shared by every service. Exchange names, routing keys and event names
// are part of the contract between producers and consumers; renaming one changes
// the derived queue names and orphans existing queues.
var (
	OrderPlaced = DefineTyped[OrderPlacedPayload](Config{
		Name:        "OrderPlaced",
		Exchange:    "orders",
		RoutingKey:  "order.placed",
		Description: "Published when a customer places an order",
	})

	OrderCancelled = DefineTyped[OrderCancelledPayload](Config{
		Name:        "OrderCancelled",
		Exchange:    "orders",
		RoutingKey:  "order.cancelled",
		Description: "Published when an order is cancelled before shipping",
	})

	UserCreated = DefineTyped[UserCreatedPayload](Config{
		Name:        "UserCreated",
		Exchange:    "users",
		RoutingKey:  "user.created",
		Description: "Published when a new user account is registered",
	})

	PaymentCaptured = DefineTyped[PaymentCapturedPayload](Config{
		Name:        "PaymentCaptured",
		Exchange:    "payments",
		RoutingKey:  "payment.captured",
		Description: "Published when the payment for an order has been captured",
	})
)

// OrderPlacedPayload is the body of OrderPlaced.
type OrderPlacedPayload struct {
	OrderID  string    `json:"orderId"`
	UserID   string    `json:"userId"`
	Total    int64     `json:"totalCents"`
	Currency string    `json:"currency"`
	PlacedAt time.Time `json:"placedAt"`
}

// OrderCancelledPayload is the body of OrderCancelled.
type OrderCancelledPayload struct {
	OrderID     string    `json:"orderId"`
	Reason      string    `json:"reason,omitempty"`
	CancelledAt time.Time `json:"cancelledAt"`
}

// UserCreatedPayload is the body of UserCreated.
type UserCreatedPayload struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// PaymentCapturedPayload is the body of PaymentCaptured.
type PaymentCapturedPayload struct {
	PaymentID  string    `json:"paymentId"`
	OrderID    string    `json:"orderId"`
	Amount     int64     `json:"amountCents"`
	CapturedAt time.Time `json:"capturedAt"`
}
