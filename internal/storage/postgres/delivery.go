package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/delivery"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/order"
)

const (
	viewColumns = `d.id, d.order_id, d.distance_cost, d.weight_cost, d.surcharge,
		d.discount, d.extra_fee, d.final_price, d.status, d.created_at, o.urgency`

	getDeliverySQL = `SELECT ` + viewColumns + `
		FROM deliveries d JOIN orders o ON o.id = d.order_id
		WHERE d.id = $1`

	listDeliveriesSQL = `SELECT ` + viewColumns + `
		FROM deliveries d JOIN orders o ON o.id = d.order_id
		ORDER BY d.created_at, d.id`
)

var _ delivery.Reader = (*DeliveryRepository)(nil)

// DeliveryRepository implements delivery.Reader.
type DeliveryRepository struct {
	pool *pgxpool.Pool
}

// NewDeliveryRepository returns a DeliveryRepository that uses the given pool.
func NewDeliveryRepository(pool *pgxpool.Pool) *DeliveryRepository {
	return &DeliveryRepository{pool: pool}
}

func (r *DeliveryRepository) Get(ctx context.Context, id string) (*delivery.View, error) {
	rows, err := r.pool.Query(ctx, getDeliverySQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get delivery %q", id)
	}
	v, err := pgx.CollectExactlyOneRow(rows, scanView)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delivery.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get delivery %q", id)
	}
	return &v, nil
}

func (r *DeliveryRepository) List(ctx context.Context) ([]delivery.View, error) {
	rows, err := r.pool.Query(ctx, listDeliveriesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list deliveries")
	}
	list, err := pgx.CollectRows(rows, scanView)
	if err != nil {
		return nil, errors.Wrap(err, "list deliveries")
	}
	return list, nil
}

func scanView(row pgx.CollectableRow) (delivery.View, error) {
	var (
		v               delivery.View
		status, urgency string
	)
	p := &v.Price
	err := row.Scan(
		&v.ID, &v.OrderID, &p.DistanceCost, &p.WeightCost, &p.Surcharge,
		&p.Discount, &p.ExtraFee, &p.FinalPrice, &status, &v.CreatedAt, &urgency,
	)
	if err != nil {
		return v, err
	}
	v.Status = order.Status(status)
	v.Urgency = order.Urgency(urgency)
	return v, nil
}
