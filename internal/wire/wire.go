// Package wire decodes the flat JSON objects accepted by the API and the
// import tool, and maps their Portuguese field names to domain requests.
package wire

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/customer"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/fault"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/order"
)

// Field names on the wire.
const (
	CustomerID      = "idCliente"
	CustomerName    = "nomeCliente"
	CustomerTaxID   = "cpfCliente"
	CustomerEmail   = "emailCliente"
	CustomerPhone   = "telefoneCliente"
	CustomerAddress = "enderecoCliente"

	OrderID        = "idPedido"
	OrderDate      = "dataPedido"
	OrderUrgency   = "tipoEntregaPedido"
	OrderDistance  = "distanciaPedido"
	OrderWeight    = "pesoPedido"
	OrderRatePerKm = "valorBaseKmPedido"
	OrderRatePerKg = "valorBaseKgPedido"

	DeliveryID           = "idEntrega"
	DeliveryDistanceCost = "valorDistanciaEntrega"
	DeliveryWeightCost   = "valorPesoEntrega"
	DeliverySurcharge    = "acrescimoEntrega"
	DeliveryDiscount     = "descontoEntrega"
	DeliveryExtraFee     = "taxaExtraEntrega"
	DeliveryFinalPrice   = "valorFinalEntrega"
	DeliveryStatus       = "statusEntrega"
	DeliveryCreatedAt    = "dataEntrega"
)

// ErrNotObject is returned when the payload is not a JSON object.
var ErrNotObject = fault.New(fault.InvalidFields, "request body must be a JSON object")

// Fields is a decoded flat JSON object. Values are kept in their textual
// form: strings as-is and numbers as their literal. Null members are absent.
type Fields map[string]string

// Decode reads one JSON object from d. String and number members are kept;
// any other member type fails with an InvalidFields error.
func Decode(d *jx.Decoder) (Fields, error) {
	if d.Next() != jx.Object {
		return nil, ErrNotObject
	}
	f := Fields{}
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		name := string(key)
		switch d.Next() {
		case jx.String:
			v, err := d.Str()
			if err != nil {
				return errors.Wrapf(err, "read %s", name)
			}
			f[name] = v
		case jx.Number:
			n, err := d.Num()
			if err != nil {
				return errors.Wrapf(err, "read %s", name)
			}
			f[name] = n.String()
		case jx.Null:
			delete(f, name)
			return d.Null()
		case jx.Bool, jx.Array, jx.Object:
			return fault.Newf(fault.InvalidFields, "field %s must be a string or a number", name)
		default:
			// Let the decoder report the syntax error.
			return d.Skip()
		}
		return nil
	}); err != nil {
		if fault.KindOf(err) != fault.Internal {
			return nil, err
		}
		return nil, fault.New(fault.InvalidFields, "malformed JSON body")
	}
	return f, nil
}

// DecodeBytes decodes a JSON object held in data. Empty input is an empty
// object.
func DecodeBytes(data []byte) (Fields, error) {
	if len(data) == 0 {
		return Fields{}, nil
	}
	d := jx.DecodeBytes(data)
	f, err := Decode(d)
	if err != nil {
		return nil, err
	}
	if d.Next() != jx.Invalid {
		return nil, fault.New(fault.InvalidFields, "malformed JSON body")
	}
	return f, nil
}

// Get returns a pointer to the value of name, or nil when absent.
func (f Fields) Get(name string) *string {
	v, ok := f[name]
	if !ok {
		return nil
	}
	return &v
}

// CustomerCreate maps f to a customer creation request.
func (f Fields) CustomerCreate() customer.CreateRequest {
	return customer.CreateRequest{
		Name:    f.Get(CustomerName),
		TaxID:   f.Get(CustomerTaxID),
		Email:   f.Get(CustomerEmail),
		Phone:   f.Get(CustomerPhone),
		Address: f.Get(CustomerAddress),
	}
}

// CustomerUpdate maps f to a partial customer update.
func (f Fields) CustomerUpdate() customer.UpdateRequest {
	return customer.UpdateRequest(f.CustomerCreate())
}

// OrderCreate maps f to an order creation request.
func (f Fields) OrderCreate() order.CreateRequest {
	return order.CreateRequest{
		CustomerID: f.Get(CustomerID),
		Date:       f.Get(OrderDate),
		Urgency:    f.Get(OrderUrgency),
		Distance:   f.Get(OrderDistance),
		Weight:     f.Get(OrderWeight),
		RatePerKm:  f.Get(OrderRatePerKm),
		RatePerKg:  f.Get(OrderRatePerKg),
		Status:     f.Get(DeliveryStatus),
	}
}

// OrderUpdate maps f to a partial order update.
func (f Fields) OrderUpdate() order.UpdateRequest {
	return order.UpdateRequest(f.OrderCreate())
}

// Each decodes consecutive JSON objects from d, as found in NDJSON streams,
// and calls fn with each one and its 1-based position. A record that fails
// to decode stops the stream: the decoder cannot resynchronise after a
// syntax error.
func Each(d *jx.Decoder, fn func(n int, f Fields) error) error {
	for n := 1; d.Next() != jx.Invalid; n++ {
		f, err := Decode(d)
		if err != nil {
			return errors.Wrapf(err, "record %d", n)
		}
		if err := fn(n, f); err != nil {
			return err
		}
	}
	return nil
}
