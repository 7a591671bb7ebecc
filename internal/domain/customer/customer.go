// Package customer implements the customer directory.
package customer

import (
	"context"
	"time"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/fault"
)

// Errors returned by the customer directory.
var (
	ErrNotFound    = fault.New(fault.NotFound, "customer not found")
	ErrInvalidID   = fault.New(fault.InvalidID, "invalid customer id")
	ErrTaxIDTaken  = fault.New(fault.Conflict, "tax id already registered")
	ErrPhoneTaken  = fault.New(fault.Conflict, "phone already registered")
	ErrEmailTaken  = fault.New(fault.Conflict, "email already registered")
	ErrHasOrders   = fault.New(fault.Conflict, "customer has orders and cannot be deleted")
	ErrInvalidName = fault.New(fault.InvalidFields, "name must be a non-empty, non-numeric text")
	ErrInvalidTax  = fault.New(fault.InvalidFields, "tax id must have exactly 11 characters")
	ErrInvalidMail = fault.New(fault.InvalidFields, "email must contain @")
)

// Column limits of the customers table.
const (
	TaxIDLength   = 11
	MaxNameLen    = 100
	MaxEmailLen   = 50
	MaxPhoneLen   = 14
	MaxAddressLen = 300
)

// Customer is a registered customer. Tax id, email and phone are unique
// across all customers.
type Customer struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
}

// Repository persists customers.
//
// Get and the Find methods return ErrNotFound when no row matches. Create and
// Update translate unique violations into ErrTaxIDTaken, ErrEmailTaken or
// ErrPhoneTaken. Delete returns ErrHasOrders when an order still references
// the customer.
type Repository interface {
	Get(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	FindByTaxID(ctx context.Context, taxID string) (*Customer, error)
	FindByPhone(ctx context.Context, phone string) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id string) error
	HasOrders(ctx context.Context, id string) (bool, error)
}
