// Package handler exposes the customer, order and delivery services over
// HTTP with JSON bodies.
package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/customer"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/delivery"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/fault"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/order"
	"github.com/Nonato2008/rapidoEseguro/internal/wire"
)

const maxBodySize = 1 << 20

// Customers is the customer directory used by the handler.
type Customers interface {
	Get(ctx context.Context, id string) (*customer.Customer, error)
	List(ctx context.Context) ([]customer.Customer, error)
	Create(ctx context.Context, req customer.CreateRequest) (*customer.Customer, error)
	Update(ctx context.Context, id string, req customer.UpdateRequest) (*customer.Customer, error)
	Delete(ctx context.Context, id string) error
}

// Orders is the order service used by the handler.
type Orders interface {
	Get(ctx context.Context, id string) (*order.Record, error)
	List(ctx context.Context) ([]order.Record, error)
	Create(ctx context.Context, req order.CreateRequest) (*order.Record, error)
	Update(ctx context.Context, id string, req order.UpdateRequest) (*order.Record, error)
	Delete(ctx context.Context, id string) error
}

// Deliveries is the delivery read model used by the handler.
type Deliveries interface {
	Get(ctx context.Context, id string) (*delivery.View, error)
	List(ctx context.Context) ([]delivery.View, error)
}

// Handler serves the /clientes, /pedidos and /entregas routes.
type Handler struct {
	customers  Customers
	orders     Orders
	deliveries Deliveries
}

// New constructs a Handler.
func New(customers Customers, orders Orders, deliveries Deliveries) *Handler {
	return &Handler{
		customers:  customers,
		orders:     orders,
		deliveries: deliveries,
	}
}

// Register adds the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /clientes", h.getCustomers)
	mux.HandleFunc("POST /clientes", h.createCustomer)
	mux.HandleFunc("PUT /clientes/{idCliente}", h.updateCustomer)
	mux.HandleFunc("DELETE /clientes/{idCliente}", h.deleteCustomer)

	mux.HandleFunc("GET /pedidos", h.getOrders)
	mux.HandleFunc("POST /pedidos", h.createOrder)
	mux.HandleFunc("PUT /pedidos/{idPedido}", h.updateOrder)
	mux.HandleFunc("DELETE /pedidos/{idPedido}", h.deleteOrder)

	mux.HandleFunc("GET /entregas", h.getDeliveries)
}

// readFields decodes the request body into wire fields.
func readFields(w http.ResponseWriter, r *http.Request) (wire.Fields, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fault.New(fault.InvalidFields, "request body too large")
		}
		return nil, errors.Wrap(err, "read body")
	}
	return wire.DecodeBytes(data)
}

// fail writes the error response for err. Internal failures are logged with
// full detail and answered with a generic message.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := fault.KindOf(err)
	if kind == fault.Internal {
		zctx.From(r.Context()).Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeMessage(w, statusOf(kind), fault.MessageOf(err))
}

func statusOf(kind fault.Kind) int {
	switch kind {
	case fault.MissingFields, fault.InvalidFields, fault.InvalidID:
		return http.StatusBadRequest
	case fault.Conflict:
		return http.StatusConflict
	case fault.NotFound, fault.InvalidStatus:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
