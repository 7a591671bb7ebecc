package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/customer"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/delivery"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/order"
)

const (
	recordColumns = `o.id, o.customer_id, o.order_date, o.urgency,
		o.distance, o.weight, o.rate_per_km, o.rate_per_kg, o.created_at,
		d.id, d.distance_cost, d.weight_cost, d.surcharge, d.discount,
		d.extra_fee, d.final_price, d.status, d.created_at`

	getRecordSQL = `SELECT ` + recordColumns + `
		FROM orders o JOIN deliveries d ON d.order_id = o.id
		WHERE o.id = $1`

	listRecordsSQL = `SELECT ` + recordColumns + `
		FROM orders o JOIN deliveries d ON d.order_id = o.id
		ORDER BY o.created_at, o.id`

	insertOrderSQL = `INSERT INTO orders
		(id, customer_id, order_date, urgency, distance, weight, rate_per_km, rate_per_kg)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	insertDeliverySQL = `INSERT INTO deliveries
		(id, order_id, distance_cost, weight_cost, surcharge, discount, extra_fee, final_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	updateOrderSQL = `UPDATE orders
		SET customer_id = $2, order_date = $3, urgency = $4, distance = $5,
			weight = $6, rate_per_km = $7, rate_per_kg = $8
		WHERE id = $1`

	updateDeliverySQL = `UPDATE deliveries
		SET distance_cost = $2, weight_cost = $3, surcharge = $4, discount = $5,
			extra_fee = $6, final_price = $7, status = $8
		WHERE id = $1`

	deliveryIDByOrderSQL = `SELECT id FROM deliveries WHERE order_id = $1`
	deleteDeliverySQL    = `DELETE FROM deliveries WHERE id = $1`
	deleteOrderSQL       = `DELETE FROM orders WHERE id = $1`
)

var (
	_ order.Store = (*OrderRepository)(nil)
	_ order.Tx    = (*orderTx)(nil)
)

// OrderRepository implements order.Store. Writes happen only through
// WithinTx, so an order and its delivery are always committed together.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Get returns an order joined with its delivery.
func (r *OrderRepository) Get(ctx context.Context, id string) (*order.Record, error) {
	rows, err := r.pool.Query(ctx, getRecordSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %q", id)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, scanRecord)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %q", id)
	}
	return &rec, nil
}

// List returns every order joined with its delivery, oldest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Record, error) {
	rows, err := r.pool.Query(ctx, listRecordsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	list, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return list, nil
}

// WithinTx runs fn in a transaction that commits when fn returns nil and
// rolls back on error or panic.
func (r *OrderRepository) WithinTx(ctx context.Context, fn func(tx order.Tx) error) error {
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(&orderTx{tx: tx})
	})
}

type orderTx struct {
	tx pgx.Tx
}

func (t *orderTx) InsertOrder(ctx context.Context, o *order.Order) error {
	err := t.tx.QueryRow(ctx, insertOrderSQL,
		o.ID, o.CustomerID, o.Date, string(o.Urgency),
		o.Distance, o.Weight, o.RatePerKm, o.RatePerKg,
	).Scan(&o.CreatedAt)
	if err != nil {
		if _, ok := pgError(err, codeForeignKeyViolation); ok {
			return customer.ErrNotFound
		}
		return errors.Wrapf(err, "insert order %q", o.ID)
	}
	return nil
}

func (t *orderTx) InsertDelivery(ctx context.Context, d *order.Delivery) error {
	p := d.Price
	err := t.tx.QueryRow(ctx, insertDeliverySQL,
		d.ID, d.OrderID, p.DistanceCost, p.WeightCost, p.Surcharge,
		p.Discount, p.ExtraFee, p.FinalPrice, string(d.Status),
	).Scan(&d.CreatedAt)
	if err != nil {
		return errors.Wrapf(err, "insert delivery %q", d.ID)
	}
	return nil
}

func (t *orderTx) UpdateOrder(ctx context.Context, o *order.Order) error {
	tag, err := t.tx.Exec(ctx, updateOrderSQL,
		o.ID, o.CustomerID, o.Date, string(o.Urgency),
		o.Distance, o.Weight, o.RatePerKm, o.RatePerKg,
	)
	if err != nil {
		if _, ok := pgError(err, codeForeignKeyViolation); ok {
			return customer.ErrNotFound
		}
		return errors.Wrapf(err, "update order %q", o.ID)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (t *orderTx) UpdateDelivery(ctx context.Context, d *order.Delivery) error {
	p := d.Price
	tag, err := t.tx.Exec(ctx, updateDeliverySQL,
		d.ID, p.DistanceCost, p.WeightCost, p.Surcharge,
		p.Discount, p.ExtraFee, p.FinalPrice, string(d.Status),
	)
	if err != nil {
		return errors.Wrapf(err, "update delivery %q", d.ID)
	}
	if tag.RowsAffected() == 0 {
		return delivery.ErrNotFound
	}
	return nil
}

func (t *orderTx) DeliveryIDByOrder(ctx context.Context, orderID string) (string, error) {
	var id string
	if err := t.tx.QueryRow(ctx, deliveryIDByOrderSQL, orderID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", delivery.ErrNotFound
		}
		return "", errors.Wrapf(err, "find delivery of order %q", orderID)
	}
	return id, nil
}

func (t *orderTx) DeleteDelivery(ctx context.Context, id string) error {
	if _, err := t.tx.Exec(ctx, deleteDeliverySQL, id); err != nil {
		return errors.Wrapf(err, "delete delivery %q", id)
	}
	return nil
}

func (t *orderTx) DeleteOrder(ctx context.Context, id string) error {
	tag, err := t.tx.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return errors.Wrapf(err, "delete order %q", id)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanRecord(row pgx.CollectableRow) (order.Record, error) {
	var (
		rec             order.Record
		urgency, status string
	)
	o, d := &rec.Order, &rec.Delivery
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.Date, &urgency,
		&o.Distance, &o.Weight, &o.RatePerKm, &o.RatePerKg, &o.CreatedAt,
		&d.ID, &d.Price.DistanceCost, &d.Price.WeightCost, &d.Price.Surcharge, &d.Price.Discount,
		&d.Price.ExtraFee, &d.Price.FinalPrice, &status, &d.CreatedAt,
	)
	if err != nil {
		return rec, err
	}
	o.Urgency = order.Urgency(urgency)
	d.OrderID = o.ID
	d.Status = order.Status(status)
	return rec, nil
}
