package customer

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/fault"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/ident"
)

// CreateRequest holds the fields of a new customer. A nil or blank field is
// treated as absent.
type CreateRequest struct {
	Name    *string
	TaxID   *string
	Email   *string
	Phone   *string
	Address *string
}

// UpdateRequest holds a partial customer update. Absent fields keep their
// stored value.
type UpdateRequest struct {
	Name    *string
	TaxID   *string
	Email   *string
	Phone   *string
	Address *string
}

// Service implements the customer directory rules on top of a Repository.
type Service struct {
	repo Repository
}

// NewService creates a customer Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the customer with the given id.
func (s *Service) Get(ctx context.Context, id string) (*Customer, error) {
	if !ident.Valid(id) {
		return nil, ErrInvalidID
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get customer")
	}
	return c, nil
}

// List returns every customer. The result is empty, not nil, when there are
// none.
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	if list == nil {
		list = []Customer{}
	}
	return list, nil
}

// Create validates and stores a new customer.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Customer, error) {
	var missing []string
	field := func(name string, v *string) string {
		if isBlank(v) {
			missing = append(missing, name)
			return ""
		}
		return strings.TrimSpace(*v)
	}
	c := &Customer{
		Name:    field("name", req.Name),
		TaxID:   field("tax id", req.TaxID),
		Email:   field("email", req.Email),
		Phone:   field("phone", req.Phone),
		Address: field("address", req.Address),
	}
	if len(missing) > 0 {
		return nil, fault.Newf(fault.MissingFields, "missing required fields: %s", strings.Join(missing, ", "))
	}
	if err := validate(c); err != nil {
		return nil, err
	}

	// Uniqueness is checked in a fixed order and the first conflict wins. The
	// table constraints still reject a concurrent duplicate on insert.
	if err := s.ensureFree(ctx, "", c); err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, "", c.Email); err != nil {
		return nil, err
	}

	c.ID = ident.New()
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, errors.Wrap(err, "create customer")
	}
	return c, nil
}

// Update merges req over the stored customer and saves the result.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Customer, error) {
	if !ident.Valid(id) {
		return nil, ErrInvalidID
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get customer")
	}

	merge(&c.Name, req.Name)
	merge(&c.TaxID, req.TaxID)
	merge(&c.Email, req.Email)
	merge(&c.Phone, req.Phone)
	merge(&c.Address, req.Address)

	if err := validate(c); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, c.ID, c); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, errors.Wrap(err, "update customer")
	}
	return c, nil
}

// Delete removes a customer that no order references.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !ident.Valid(id) {
		return ErrInvalidID
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return errors.Wrap(err, "get customer")
	}

	has, err := s.repo.HasOrders(ctx, id)
	if err != nil {
		return errors.Wrap(err, "check customer orders")
	}
	if has {
		return ErrHasOrders
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete customer")
	}
	return nil
}

// ensureFree checks that the tax id and phone of c belong to no customer other
// than self.
func (s *Service) ensureFree(ctx context.Context, self string, c *Customer) error {
	if other, err := s.repo.FindByTaxID(ctx, c.TaxID); err == nil {
		if other.ID != self {
			return ErrTaxIDTaken
		}
	} else if !errors.Is(err, ErrNotFound) {
		return errors.Wrap(err, "find by tax id")
	}

	if other, err := s.repo.FindByPhone(ctx, c.Phone); err == nil {
		if other.ID != self {
			return ErrPhoneTaken
		}
	} else if !errors.Is(err, ErrNotFound) {
		return errors.Wrap(err, "find by phone")
	}
	return nil
}

func (s *Service) checkEmail(ctx context.Context, self, email string) error {
	other, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return errors.Wrap(err, "find by email")
	case other.ID != self:
		return ErrEmailTaken
	}
	return nil
}

func validate(c *Customer) error {
	if !validName(c.Name) {
		return ErrInvalidName
	}
	if utf8.RuneCountInString(c.Name) > MaxNameLen {
		return fault.Newf(fault.InvalidFields, "name must have at most %d characters", MaxNameLen)
	}
	if utf8.RuneCountInString(c.TaxID) != TaxIDLength {
		return ErrInvalidTax
	}
	if !strings.Contains(c.Email, "@") {
		return ErrInvalidMail
	}
	if utf8.RuneCountInString(c.Email) > MaxEmailLen {
		return fault.Newf(fault.InvalidFields, "email must have at most %d characters", MaxEmailLen)
	}
	if utf8.RuneCountInString(c.Phone) > MaxPhoneLen {
		return fault.Newf(fault.InvalidFields, "phone must have at most %d characters", MaxPhoneLen)
	}
	if utf8.RuneCountInString(c.Address) > MaxAddressLen {
		return fault.Newf(fault.InvalidFields, "address must have at most %d characters", MaxAddressLen)
	}
	return nil
}

// validName rejects empty names and names that are a plain number.
func validName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	_, err := decimal.NewFromString(name)
	return err != nil
}

func isBlank(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}

func merge(dst *string, v *string) {
	if !isBlank(v) {
		*dst = strings.TrimSpace(*v)
	}
}
