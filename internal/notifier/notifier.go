// Package notifier fans out post-commit stock-change events. Delivery is
// best-effort and decoupled from the transaction that produced the change:
// a failed publish is logged and dropped, never surfaced to the mutation.
package notifier

import (
	"context"

	"github.com/google/uuid"
)

// Channel is the Redis pub/sub channel carrying cross-process stock updates.
const Channel = "inventory_updates"

// EventName is the push-channel event wrapping every broadcast payload.
const EventName = "stock_update"

// StockUpdate is the wire payload. Consumers must treat it as "quantity is
// now X as of this event", not as a delta to replay: ordering across
// concurrent operations is not guaranteed.
type StockUpdate struct {
	VariantID uuid.UUID `json:"variantId"`
	Quantity  int       `json:"quantity"`
	Kind      string    `json:"kind"`
}

// Notifier is the abstract publish capability the order processor and the
// sale/return flows depend on. Concrete transports are injected, keeping the
// core testable without any network substrate.
type Notifier interface {
	Publish(ctx context.Context, update StockUpdate)
}

// Multi fans a single update out to several sinks.
type Multi []Notifier

func (m Multi) Publish(ctx context.Context, update StockUpdate) {
	for _, n := range m {
		n.Publish(ctx, update)
	}
}

// Noop discards every update. Used when no transport is configured.
type Noop struct{}

func (Noop) Publish(context.Context, StockUpdate) {}
