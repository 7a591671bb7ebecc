package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/customer"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/fault"
)

const (
	customerColumns = `id, name, tax_id, email, phone, address, created_at`

	getCustomerSQL     = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	listCustomersSQL   = `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at, id`
	customerByTaxIDSQL = `SELECT ` + customerColumns + ` FROM customers WHERE tax_id = $1`
	customerByPhoneSQL = `SELECT ` + customerColumns + ` FROM customers WHERE phone = $1`
	customerByEmailSQL = `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`

	insertCustomerSQL = `INSERT INTO customers (id, name, tax_id, email, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	updateCustomerSQL = `UPDATE customers
		SET name = $2, tax_id = $3, email = $4, phone = $5, address = $6
		WHERE id = $1`

	deleteCustomerSQL = `DELETE FROM customers WHERE id = $1`

	customerHasOrdersSQL = `SELECT EXISTS (SELECT 1 FROM orders WHERE customer_id = $1)`
)

// Unique constraints of the customers table and the conflict each one means.
var customerConflicts = map[string]error{
	"customers_tax_id_key": customer.ErrTaxIDTaken,
	"customers_email_key":  customer.ErrEmailTaken,
	"customers_phone_key":  customer.ErrPhoneTaken,
}

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Get returns a customer by id.
func (r *CustomerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	return r.one(ctx, getCustomerSQL, id)
}

// List returns all customers, oldest first.
func (r *CustomerRepository) List(ctx context.Context) ([]customer.Customer, error) {
	rows, err := r.pool.Query(ctx, listCustomersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	list, err := pgx.CollectRows(rows, scanCustomer)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	return list, nil
}

func (r *CustomerRepository) FindByTaxID(ctx context.Context, taxID string) (*customer.Customer, error) {
	return r.one(ctx, customerByTaxIDSQL, taxID)
}

func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	return r.one(ctx, customerByPhoneSQL, phone)
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	return r.one(ctx, customerByEmailSQL, email)
}

// Create inserts c and fills in its creation time.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	err := r.pool.QueryRow(ctx, insertCustomerSQL,
		c.ID, c.Name, c.TaxID, c.Email, c.Phone, c.Address,
	).Scan(&c.CreatedAt)
	if err != nil {
		if conflict := customerConflict(err); conflict != nil {
			return conflict
		}
		return errors.Wrapf(err, "insert customer %q", c.ID)
	}
	return nil
}

// Update overwrites every mutable column of c.
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	tag, err := r.pool.Exec(ctx, updateCustomerSQL,
		c.ID, c.Name, c.TaxID, c.Email, c.Phone, c.Address,
	)
	if err != nil {
		if conflict := customerConflict(err); conflict != nil {
			return conflict
		}
		return errors.Wrapf(err, "update customer %q", c.ID)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

// Delete removes a customer. An order still referencing it fails with
// customer.ErrHasOrders.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteCustomerSQL, id)
	if err != nil {
		if _, ok := pgError(err, codeForeignKeyViolation); ok {
			return customer.ErrHasOrders
		}
		return errors.Wrapf(err, "delete customer %q", id)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

// HasOrders reports whether any order references the customer.
func (r *CustomerRepository) HasOrders(ctx context.Context, id string) (bool, error) {
	var has bool
	if err := r.pool.QueryRow(ctx, customerHasOrdersSQL, id).Scan(&has); err != nil {
		return false, errors.Wrapf(err, "check orders of customer %q", id)
	}
	return has, nil
}

func (r *CustomerRepository) one(ctx context.Context, sql string, arg any) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, errors.Wrap(err, "query customer")
	}
	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, errors.Wrap(err, "scan customer")
	}
	return &c, nil
}

func scanCustomer(row pgx.CollectableRow) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(&c.ID, &c.Name, &c.TaxID, &c.Email, &c.Phone, &c.Address, &c.CreatedAt)
	return c, err
}

// customerConflict maps a unique violation to the matching conflict error.
func customerConflict(err error) error {
	pgErr, ok := pgError(err, codeUniqueViolation)
	if !ok {
		return nil
	}
	if conflict, ok := customerConflicts[pgErr.ConstraintName]; ok {
		return conflict
	}
	return fault.New(fault.Conflict, "customer already registered")
}
