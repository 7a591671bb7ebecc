package order

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Nonato2008/rapidoEseguro/internal/domain/order"

type metrics struct {
	created    metric.Int64Counter
	updated    metric.Int64Counter
	deleted    metric.Int64Counter
	finalPrice metric.Float64Histogram
}

func newMetrics(mp metric.MeterProvider) (*metrics, error) {
	meter := mp.Meter(meterName)

	var (
		m   metrics
		err error
	)
	if m.created, err = meter.Int64Counter("orders.created",
		metric.WithDescription("Orders created together with their delivery"),
	); err != nil {
		return nil, errors.Wrap(err, "orders.created")
	}
	if m.updated, err = meter.Int64Counter("orders.updated",
		metric.WithDescription("Orders updated and repriced"),
	); err != nil {
		return nil, errors.Wrap(err, "orders.updated")
	}
	if m.deleted, err = meter.Int64Counter("orders.deleted",
		metric.WithDescription("Orders deleted together with their delivery"),
	); err != nil {
		return nil, errors.Wrap(err, "orders.deleted")
	}
	if m.finalPrice, err = meter.Float64Histogram("delivery.final_price",
		metric.WithDescription("Final price of priced deliveries"),
		metric.WithUnit("{BRL}"),
	); err != nil {
		return nil, errors.Wrap(err, "delivery.final_price")
	}
	return &m, nil
}

func (m *metrics) priced(ctx context.Context, counter metric.Int64Counter, r *Record) {
	attrs := metric.WithAttributes(
		urgencyAttr(r.Order.Urgency),
		attribute.String("status", string(r.Delivery.Status)),
	)
	counter.Add(ctx, 1, attrs)
	m.finalPrice.Record(ctx, r.Delivery.Price.FinalPrice.InexactFloat64(), attrs)
}

func urgencyAttr(u Urgency) attribute.KeyValue {
	return attribute.String("urgency", string(u))
}
