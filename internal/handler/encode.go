package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/customer"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/delivery"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/order"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/pricing"
	"github.com/Nonato2008/rapidoEseguro/internal/wire"
)

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func encodeCustomer(e *jx.Encoder, c *customer.Customer) {
	e.Obj(func(e *jx.Encoder) {
		field(e, wire.CustomerID, c.ID)
		field(e, wire.CustomerName, c.Name)
		field(e, wire.CustomerTaxID, c.TaxID)
		field(e, wire.CustomerEmail, c.Email)
		field(e, wire.CustomerPhone, c.Phone)
		field(e, wire.CustomerAddress, c.Address)
	})
}

// encodeRecord writes an order and its delivery as one flat object.
func encodeRecord(e *jx.Encoder, rec *order.Record) {
	o, d := &rec.Order, &rec.Delivery
	e.Obj(func(e *jx.Encoder) {
		field(e, wire.OrderID, o.ID)
		field(e, wire.CustomerID, o.CustomerID)
		field(e, wire.OrderDate, o.Date.Format(time.DateOnly))
		field(e, wire.OrderUrgency, string(o.Urgency))
		money(e, wire.OrderDistance, o.Distance)
		money(e, wire.OrderWeight, o.Weight)
		money(e, wire.OrderRatePerKm, o.RatePerKm)
		money(e, wire.OrderRatePerKg, o.RatePerKg)
		field(e, wire.DeliveryID, d.ID)
		breakdown(e, d.Price)
		field(e, wire.DeliveryStatus, string(d.Status))
	})
}

func breakdown(e *jx.Encoder, p pricing.Breakdown) {
	money(e, wire.DeliveryDistanceCost, p.DistanceCost)
	money(e, wire.DeliveryWeightCost, p.WeightCost)
	money(e, wire.DeliverySurcharge, p.Surcharge)
	money(e, wire.DeliveryDiscount, p.Discount)
	money(e, wire.DeliveryExtraFee, p.ExtraFee)
	money(e, wire.DeliveryFinalPrice, p.FinalPrice)
}

func field(e *jx.Encoder, name, value string) {
	e.Field(name, func(e *jx.Encoder) { e.Str(value) })
}

// money writes a decimal as a JSON number with two decimal places.
func money(e *jx.Encoder, name string, v decimal.Decimal) {
	e.Field(name, func(e *jx.Encoder) {
		e.Num(jx.Num(v.StringFixed(pricing.MoneyPlaces)))
	})
}

func encodeView(e *jx.Encoder, v *delivery.View) {
	e.Obj(func(e *jx.Encoder) {
		field(e, wire.DeliveryID, v.ID)
		field(e, wire.OrderID, v.OrderID)
		field(e, wire.OrderUrgency, string(v.Urgency))
		breakdown(e, v.Price)
		field(e, wire.DeliveryStatus, string(v.Status))
		if !v.CreatedAt.IsZero() {
			field(e, wire.DeliveryCreatedAt, v.CreatedAt.UTC().Format(time.RFC3339))
		}
	})
}
