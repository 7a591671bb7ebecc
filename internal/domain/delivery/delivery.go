// Package delivery is the read side of deliveries: each delivery joined with
// the urgency of the order that owns it. Deliveries are written only through
// the order service.
package delivery

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/fault"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/ident"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/order"
)

// Errors returned by the delivery service.
var (
	ErrNotFound  = fault.New(fault.NotFound, "delivery not found")
	ErrInvalidID = fault.New(fault.InvalidID, "invalid delivery id")
)

// View is a delivery together with its order's urgency.
type View struct {
	order.Delivery
	Urgency order.Urgency
}

// Reader loads delivery views. Get returns ErrNotFound when absent.
type Reader interface {
	Get(ctx context.Context, id string) (*View, error)
	List(ctx context.Context) ([]View, error)
}

// Service serves delivery lookups.
type Service struct {
	reader Reader
}

// NewService creates a delivery service reading through reader.
func NewService(reader Reader) *Service {
	return &Service{reader: reader}
}

// Get returns a single delivery.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	if !ident.Valid(id) {
		return nil, ErrInvalidID
	}
	v, err := s.reader.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get delivery")
	}
	return v, nil
}

// List returns all deliveries, or an empty slice.
func (s *Service) List(ctx context.Context) ([]View, error) {
	list, err := s.reader.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list deliveries")
	}
	if list == nil {
		list = []View{}
	}
	return list, nil
}
