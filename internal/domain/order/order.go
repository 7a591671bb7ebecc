// Package order manages orders and the delivery each order owns.
//
// An order and its delivery are always written together: Service runs every
// create, update and delete inside a single Store.WithinTx unit of work.
package order

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/fault"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/pricing"
)

// Errors returned by the order service.
var (
	ErrNotFound       = fault.New(fault.NotFound, "order not found")
	ErrInvalidID      = fault.New(fault.InvalidID, "invalid order id")
	ErrInvalidCustID  = fault.New(fault.InvalidID, "invalid customer id")
	ErrInvalidDate    = fault.New(fault.InvalidFields, "order date must be a valid date (YYYY-MM-DD)")
	ErrInvalidUrgency = fault.New(fault.InvalidFields, "urgency must be normal or urgent")
	ErrInvalidStatus  = fault.New(fault.InvalidStatus, "status must be calculated, in_transit, delivered or cancelled")
	ErrOutOfRange     = fault.New(fault.InvalidFields, "delivery price exceeds the supported range")
)

// Urgency is the delivery speed tier of an order.
type Urgency string

const (
	Normal Urgency = "normal"
	Urgent Urgency = "urgent"
)

// ParseUrgency parses s case-insensitively. "urgente" is accepted as an alias
// of Urgent.
func ParseUrgency(s string) (Urgency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return Normal, nil
	case "urgent", "urgente":
		return Urgent, nil
	default:
		return "", ErrInvalidUrgency
	}
}

// Status is the lifecycle state of a delivery. Any status may be set at any
// time; transitions are not enforced.
type Status string

const (
	Calculated Status = "calculated"
	InTransit  Status = "in_transit"
	Delivered  Status = "delivered"
	Cancelled  Status = "cancelled"
)

var statusAliases = map[string]Status{
	"calculated":  Calculated,
	"calculado":   Calculated,
	"in_transit":  InTransit,
	"in transit":  InTransit,
	"em transito": InTransit,
	"delivered":   Delivered,
	"entregue":    Delivered,
	"cancelled":   Cancelled,
	"canceled":    Cancelled,
	"cancelado":   Cancelled,
}

// ParseStatus parses s case-insensitively, accepting the Portuguese literals
// as aliases.
func ParseStatus(s string) (Status, error) {
	st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Order carries the pricing inputs of a customer's shipment.
type Order struct {
	ID         string
	CustomerID string
	Date       time.Time
	Urgency    Urgency
	Distance   decimal.Decimal
	Weight     decimal.Decimal
	RatePerKm  decimal.Decimal
	RatePerKg  decimal.Decimal
	CreatedAt  time.Time
}

// PricingInput returns the pricing engine input for o.
func (o *Order) PricingInput() pricing.Input {
	return pricing.Input{
		Distance:  o.Distance,
		Weight:    o.Weight,
		RatePerKm: o.RatePerKm,
		RatePerKg: o.RatePerKg,
		Urgent:    o.Urgency == Urgent,
	}
}

// Delivery is the priced fulfilment record owned by exactly one order.
type Delivery struct {
	ID        string
	OrderID   string
	Price     pricing.Breakdown
	Status    Status
	CreatedAt time.Time
}

// Record is an order together with its delivery.
type Record struct {
	Order    Order
	Delivery Delivery
}

// Store reads orders and opens units of work that write them.
type Store interface {
	// Get returns ErrNotFound when the order does not exist.
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context) ([]Record, error)
	// WithinTx runs fn in a transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of writes available inside a unit of work.
type Tx interface {
	InsertOrder(ctx context.Context, o *Order) error
	InsertDelivery(ctx context.Context, d *Delivery) error
	// UpdateOrder and UpdateDelivery return ErrNotFound when no row matches.
	UpdateOrder(ctx context.Context, o *Order) error
	UpdateDelivery(ctx context.Context, d *Delivery) error
	DeliveryIDByOrder(ctx context.Context, orderID string) (string, error)
	DeleteDelivery(ctx context.Context, id string) error
	DeleteOrder(ctx context.Context, id string) error
}
