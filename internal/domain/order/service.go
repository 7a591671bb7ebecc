package order

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/customer"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/fault"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/ident"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/pricing"
)

// MaxAmount is the largest value a NUMERIC(10,2) column holds.
var MaxAmount = decimal.RequireFromString("99999999.99")

// Limits on the textual form of an amount: digits before the decimal point
// and digits after it.
const (
	maxIntDigits = 8
	maxScale     = 20
)

// CustomerFinder looks customers up by id, returning customer.ErrNotFound
// when absent.
type CustomerFinder interface {
	Get(ctx context.Context, id string) (*customer.Customer, error)
}

// CreateRequest holds the fields of a new order as received. Amounts are the
// textual form of a decimal number. Status is optional.
type CreateRequest struct {
	CustomerID *string
	Date       *string
	Urgency    *string
	Distance   *string
	Weight     *string
	RatePerKm  *string
	RatePerKg  *string
	Status     *string
}

// UpdateRequest holds a partial order update. Absent fields keep their stored
// value; the delivery is repriced from the merged order either way.
type UpdateRequest CreateRequest

// Option configures a Service.
type Option func(*Service)

// WithMeterProvider sets the provider of the order metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Service) { s.meterProvider = mp }
}

// Service creates, reprices and deletes orders with their deliveries.
type Service struct {
	customers     CustomerFinder
	store         Store
	meterProvider metric.MeterProvider
	metrics       *metrics
}

// NewService creates an order Service.
func NewService(customers CustomerFinder, store Store, opts ...Option) (*Service, error) {
	s := &Service{
		customers:     customers,
		store:         store,
		meterProvider: noop.NewMeterProvider(),
	}
	for _, opt := range opts {
		opt(s)
	}

	m, err := newMetrics(s.meterProvider)
	if err != nil {
		return nil, errors.Wrap(err, "create metrics")
	}
	s.metrics = m
	return s, nil
}

// Get returns the order with its delivery.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	if !ident.Valid(id) {
		return nil, ErrInvalidID
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	return rec, nil
}

// List returns every order with its delivery, or an empty slice.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	if list == nil {
		list = []Record{}
	}
	return list, nil
}

// Create validates req, prices the delivery and stores the order and its
// delivery in one transaction.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Record, error) {
	if err := checkRequired(req); err != nil {
		return nil, err
	}

	o := &Order{}
	amounts := []struct {
		name string
		raw  *string
		dst  *decimal.Decimal
	}{
		{"distance", req.Distance, &o.Distance},
		{"weight", req.Weight, &o.Weight},
		{"rate per km", req.RatePerKm, &o.RatePerKm},
		{"rate per kg", req.RatePerKg, &o.RatePerKg},
	}
	for _, a := range amounts {
		v, err := parseAmount(a.name, *a.raw)
		if err != nil {
			return nil, err
		}
		*a.dst = v
	}
	urgency, err := ParseUrgency(*req.Urgency)
	if err != nil {
		return nil, err
	}
	o.Urgency = urgency

	custID := strings.TrimSpace(*req.CustomerID)
	if !ident.Valid(custID) {
		return nil, ErrInvalidCustID
	}
	if o.Date, err = parseDate(*req.Date); err != nil {
		return nil, err
	}
	if _, err := s.customers.Get(ctx, custID); err != nil {
		return nil, errors.Wrap(err, "get customer")
	}
	o.CustomerID = custID

	price, err := quote(o)
	if err != nil {
		return nil, err
	}

	status := Calculated
	if req.Status != nil {
		if status, err = ParseStatus(*req.Status); err != nil {
			return nil, err
		}
	}

	o.ID = ident.New()
	d := &Delivery{
		ID:      ident.New(),
		OrderID: o.ID,
		Price:   price,
		Status:  status,
	}
	if err := s.store.WithinTx(ctx, func(tx Tx) error {
		if err := tx.InsertOrder(ctx, o); err != nil {
			return errors.Wrap(err, "insert order")
		}
		if err := tx.InsertDelivery(ctx, d); err != nil {
			return errors.Wrap(err, "insert delivery")
		}
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	rec := &Record{Order: *o, Delivery: *d}
	s.metrics.priced(ctx, s.metrics.created, rec)
	return rec, nil
}

// Update merges req over the stored order, reprices the delivery from the
// merged inputs and writes both in one transaction. The delivery status is
// kept unless req sets one.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Record, error) {
	if !ident.Valid(id) {
		return nil, ErrInvalidID
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	o, d := rec.Order, rec.Delivery

	if !isBlank(req.CustomerID) {
		custID := strings.TrimSpace(*req.CustomerID)
		if !ident.Valid(custID) {
			return nil, ErrInvalidCustID
		}
		if _, err := s.customers.Get(ctx, custID); err != nil {
			return nil, errors.Wrap(err, "get customer")
		}
		o.CustomerID = custID
	}
	if !isBlank(req.Date) {
		if o.Date, err = parseDate(*req.Date); err != nil {
			return nil, err
		}
	}
	if !isBlank(req.Urgency) {
		if o.Urgency, err = ParseUrgency(*req.Urgency); err != nil {
			return nil, err
		}
	}
	amounts := []struct {
		name string
		raw  *string
		dst  *decimal.Decimal
	}{
		{"distance", req.Distance, &o.Distance},
		{"weight", req.Weight, &o.Weight},
		{"rate per km", req.RatePerKm, &o.RatePerKm},
		{"rate per kg", req.RatePerKg, &o.RatePerKg},
	}
	for _, a := range amounts {
		if isBlank(a.raw) {
			continue
		}
		v, err := parseAmount(a.name, *a.raw)
		if err != nil {
			return nil, err
		}
		*a.dst = v
	}
	if req.Status != nil {
		if d.Status, err = ParseStatus(*req.Status); err != nil {
			return nil, err
		}
	}

	if d.Price, err = quote(&o); err != nil {
		return nil, err
	}

	if err := s.store.WithinTx(ctx, func(tx Tx) error {
		if err := tx.UpdateOrder(ctx, &o); err != nil {
			return errors.Wrap(err, "update order")
		}
		if err := tx.UpdateDelivery(ctx, &d); err != nil {
			return errors.Wrap(err, "update delivery")
		}
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "update order")
	}

	out := &Record{Order: o, Delivery: d}
	s.metrics.priced(ctx, s.metrics.updated, out)
	return out, nil
}

// Delete removes the order and its delivery in one transaction.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !ident.Valid(id) {
		return ErrInvalidID
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return errors.Wrap(err, "get order")
	}

	if err := s.store.WithinTx(ctx, func(tx Tx) error {
		deliveryID, err := tx.DeliveryIDByOrder(ctx, id)
		if err != nil {
			return errors.Wrap(err, "find delivery")
		}
		if err := tx.DeleteDelivery(ctx, deliveryID); err != nil {
			return errors.Wrap(err, "delete delivery")
		}
		if err := tx.DeleteOrder(ctx, id); err != nil {
			return errors.Wrap(err, "delete order")
		}
		return nil
	}); err != nil {
		return errors.Wrap(err, "delete order")
	}

	s.metrics.deleted.Add(ctx, 1, metric.WithAttributes(urgencyAttr(rec.Order.Urgency)))
	return nil
}

// quote prices o and rounds the breakdown for storage.
func quote(o *Order) (pricing.Breakdown, error) {
	b := pricing.Compute(o.PricingInput()).Round(pricing.MoneyPlaces)
	for _, v := range []decimal.Decimal{b.DistanceCost, b.WeightCost, b.Surcharge, b.Discount, b.FinalPrice} {
		if v.GreaterThan(MaxAmount) {
			return pricing.Breakdown{}, ErrOutOfRange
		}
	}
	return b, nil
}

func checkRequired(req CreateRequest) error {
	var missing []string
	for _, f := range []struct {
		name string
		v    *string
	}{
		{"customer id", req.CustomerID},
		{"order date", req.Date},
		{"urgency", req.Urgency},
		{"distance", req.Distance},
		{"weight", req.Weight},
		{"rate per km", req.RatePerKm},
		{"rate per kg", req.RatePerKg},
	} {
		if isBlank(f.v) {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fault.Newf(fault.MissingFields, "missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// parseAmount parses a non-negative decimal rounded to two places.
func parseAmount(name, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fault.Newf(fault.InvalidFields, "%s must be numeric", name)
	}
	if v.IsNegative() {
		return decimal.Zero, fault.Newf(fault.InvalidFields, "%s must not be negative", name)
	}
	if v.IsZero() {
		return decimal.Zero, nil
	}
	// Bound the magnitude before any rescaling: Round and Cmp cost grows with
	// the exponent.
	if int64(v.NumDigits())+int64(v.Exponent()) > maxIntDigits {
		return decimal.Zero, fault.Newf(fault.InvalidFields, "%s must not exceed %s", name, MaxAmount)
	}
	if v.Exponent() < -maxScale {
		return decimal.Zero, fault.Newf(fault.InvalidFields, "%s must have at most %d decimal places", name, maxScale)
	}
	v = v.Round(pricing.MoneyPlaces)
	if v.GreaterThan(MaxAmount) {
		return decimal.Zero, fault.Newf(fault.InvalidFields, "%s must not exceed %s", name, MaxAmount)
	}
	return v, nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp and keeps the
// date part.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, raw); err != nil {
			return time.Time{}, ErrInvalidDate
		}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func isBlank(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}
