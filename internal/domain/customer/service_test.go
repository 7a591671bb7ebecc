package customer

import (
	"context"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/fault"
)

// --- Mock implementations ---

type mockRepo struct {
	byID      map[string]*Customer
	withOrder map[string]bool
	lookups   []string
	createErr error
	updateErr error
	findErr   error
}

func newMockRepo(customers ...Customer) *mockRepo {
	m := &mockRepo{byID: map[string]*Customer{}, withOrder: map[string]bool{}}
	for i := range customers {
		c := customers[i]
		m.byID[c.ID] = &c
	}
	return m
}

func (m *mockRepo) Get(_ context.Context, id string) (*Customer, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockRepo) List(_ context.Context) ([]Customer, error) {
	var out []Customer
	for _, c := range m.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockRepo) find(kind string, match func(*Customer) bool) (*Customer, error) {
	m.lookups = append(m.lookups, kind)
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, c := range m.byID {
		if match(c) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) FindByTaxID(_ context.Context, taxID string) (*Customer, error) {
	return m.find("tax", func(c *Customer) bool { return c.TaxID == taxID })
}

func (m *mockRepo) FindByPhone(_ context.Context, phone string) (*Customer, error) {
	return m.find("phone", func(c *Customer) bool { return c.Phone == phone })
}

func (m *mockRepo) FindByEmail(_ context.Context, email string) (*Customer, error) {
	return m.find("email", func(c *Customer) bool { return c.Email == email })
}

func (m *mockRepo) Create(_ context.Context, c *Customer) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *mockRepo) Update(_ context.Context, c *Customer) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *mockRepo) HasOrders(_ context.Context, id string) (bool, error) {
	return m.withOrder[id], nil
}

// --- Helpers ---

const (
	aliceID = "6f1c9a34-7d0e-4b9e-9d7c-2a3b4c5d6e7f"
	bobID   = "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
)

func ptr(s string) *string { return &s }

func alice() Customer {
	return Customer{
		ID:      aliceID,
		Name:    "Alice Souza",
		TaxID:   "12345678901",
		Email:   "alice@example.com",
		Phone:   "11999990000",
		Address: "Rua A, 1",
	}
}

func bob() Customer {
	return Customer{
		ID:      bobID,
		Name:    "Bob Lima",
		TaxID:   "10987654321",
		Email:   "bob@example.com",
		Phone:   "11988887777",
		Address: "Rua B, 2",
	}
}

func validCreate() CreateRequest {
	return CreateRequest{
		Name:    ptr("Carla Dias"),
		TaxID:   ptr("55566677788"),
		Email:   ptr("carla@example.com"),
		Phone:   ptr("11977776666"),
		Address: ptr("Rua C, 3"),
	}
}

// --- Tests ---

func TestCreate_Success(t *testing.T) {
	repo := newMockRepo(alice())
	svc := NewService(repo)

	c, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	assert.Len(t, c.ID, 36)
	assert.Equal(t, "Carla Dias", c.Name)
	assert.Contains(t, repo.byID, c.ID)
	assert.Equal(t, []string{"tax", "phone", "email"}, repo.lookups)
}

func TestCreate_MissingFields(t *testing.T) {
	req := validCreate()
	req.TaxID = nil
	req.Address = ptr("   ")

	_, err := NewService(newMockRepo()).Create(context.Background(), req)
	require.ErrorIs(t, err, fault.MissingFields)
	assert.Equal(t, "missing required fields: tax id, address", err.Error())
}

func TestCreate_InvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateRequest)
		want   error
	}{
		{name: "numeric name", mutate: func(r *CreateRequest) { r.Name = ptr("12345") }, want: ErrInvalidName},
		{name: "decimal name", mutate: func(r *CreateRequest) { r.Name = ptr("3.14") }, want: ErrInvalidName},
		{name: "exponent name", mutate: func(r *CreateRequest) { r.Name = ptr(" -2e5 ") }, want: ErrInvalidName},
		{name: "short tax id", mutate: func(r *CreateRequest) { r.TaxID = ptr("1234567890") }, want: ErrInvalidTax},
		{name: "long tax id", mutate: func(r *CreateRequest) { r.TaxID = ptr("123456789012") }, want: ErrInvalidTax},
		{name: "email without at", mutate: func(r *CreateRequest) { r.Email = ptr("carla.example.com") }, want: ErrInvalidMail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(&req)

			_, err := NewService(newMockRepo()).Create(context.Background(), req)
			require.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, fault.InvalidFields)
		})
	}
}

func TestCreate_WordLikeNumbersAreNames(t *testing.T) {
	for _, name := range []string{"Nan", "nan", "Inf", "Infinity", "0x10"} {
		req := validCreate()
		req.Name = ptr(name)

		c, err := NewService(newMockRepo()).Create(context.Background(), req)
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name)
	}
}

func TestCreate_NameTooLong(t *testing.T) {
	req := validCreate()
	req.Name = ptr(strings.Repeat("a", MaxNameLen+1))

	_, err := NewService(newMockRepo()).Create(context.Background(), req)
	require.ErrorIs(t, err, fault.InvalidFields)
	assert.NotErrorIs(t, err, ErrInvalidName)
	assert.Equal(t, "name must have at most 100 characters", err.Error())
}

func TestCreate_PhoneTooLong(t *testing.T) {
	req := validCreate()
	req.Phone = ptr("+55 11 97777-66665")

	_, err := NewService(newMockRepo()).Create(context.Background(), req)
	require.ErrorIs(t, err, fault.InvalidFields)
}

func TestCreate_ConflictOrder(t *testing.T) {
	a := alice()
	tests := []struct {
		name    string
		mutate  func(*CreateRequest)
		want    error
		lookups []string
	}{
		{
			name: "tax id wins over phone and email",
			mutate: func(r *CreateRequest) {
				r.TaxID, r.Phone, r.Email = ptr(a.TaxID), ptr(a.Phone), ptr(a.Email)
			},
			want:    ErrTaxIDTaken,
			lookups: []string{"tax"},
		},
		{
			name: "phone wins over email",
			mutate: func(r *CreateRequest) {
				r.Phone, r.Email = ptr(a.Phone), ptr(a.Email)
			},
			want:    ErrPhoneTaken,
			lookups: []string{"tax", "phone"},
		},
		{
			name:    "email",
			mutate:  func(r *CreateRequest) { r.Email = ptr(a.Email) },
			want:    ErrEmailTaken,
			lookups: []string{"tax", "phone", "email"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo(a)
			req := validCreate()
			tt.mutate(&req)

			_, err := NewService(repo).Create(context.Background(), req)
			require.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, fault.Conflict)
			assert.Equal(t, tt.lookups, repo.lookups)
			assert.Len(t, repo.byID, 1)
		})
	}
}

func TestCreate_StorageConflictBackstop(t *testing.T) {
	repo := newMockRepo()
	repo.createErr = ErrTaxIDTaken

	_, err := NewService(repo).Create(context.Background(), validCreate())
	require.ErrorIs(t, err, ErrTaxIDTaken)
}

func TestCreate_LookupFailure(t *testing.T) {
	repo := newMockRepo()
	repo.findErr = errors.New("connection refused")

	_, err := NewService(repo).Create(context.Background(), validCreate())
	require.Error(t, err)
	assert.Equal(t, fault.Internal, fault.KindOf(err))
	assert.Contains(t, err.Error(), "find by tax id")
}

func TestUpdate_MergesPartialFields(t *testing.T) {
	repo := newMockRepo(alice())
	svc := NewService(repo)

	c, err := svc.Update(context.Background(), aliceID, UpdateRequest{
		Address: ptr("Rua Nova, 10"),
		Phone:   ptr(""),
	})
	require.NoError(t, err)

	assert.Equal(t, "Rua Nova, 10", c.Address)
	assert.Equal(t, alice().Phone, c.Phone)
	assert.Equal(t, alice().Name, c.Name)
	assert.Equal(t, "Rua Nova, 10", repo.byID[aliceID].Address)
}

func TestUpdate_OwnValuesAreNotConflicts(t *testing.T) {
	a := alice()
	repo := newMockRepo(a)

	_, err := NewService(repo).Update(context.Background(), aliceID, UpdateRequest{
		TaxID: ptr(a.TaxID),
		Phone: ptr(a.Phone),
	})
	require.NoError(t, err)
}

func TestUpdate_Conflicts(t *testing.T) {
	b := bob()
	tests := []struct {
		name string
		req  UpdateRequest
		want error
	}{
		{name: "tax id of another customer", req: UpdateRequest{TaxID: ptr(b.TaxID)}, want: ErrTaxIDTaken},
		{name: "phone of another customer", req: UpdateRequest{Phone: ptr(b.Phone)}, want: ErrPhoneTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo(alice(), b)

			_, err := NewService(repo).Update(context.Background(), aliceID, tt.req)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, alice().TaxID, repo.byID[aliceID].TaxID)
			assert.Equal(t, alice().Phone, repo.byID[aliceID].Phone)
		})
	}
}

func TestUpdate_EmailConflictFromStorage(t *testing.T) {
	repo := newMockRepo(alice(), bob())
	repo.updateErr = ErrEmailTaken

	_, err := NewService(repo).Update(context.Background(), aliceID, UpdateRequest{Email: ptr(bob().Email)})
	require.ErrorIs(t, err, fault.Conflict)
}

func TestUpdate_InvalidMergedResult(t *testing.T) {
	_, err := NewService(newMockRepo(alice())).Update(context.Background(), aliceID, UpdateRequest{
		Email: ptr("no-at-sign"),
	})
	require.ErrorIs(t, err, ErrInvalidMail)
}

func TestUpdate_InvalidIDAndNotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Update(context.Background(), "42", UpdateRequest{})
	require.ErrorIs(t, err, fault.InvalidID)

	_, err = svc.Update(context.Background(), bobID, UpdateRequest{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := newMockRepo(alice(), bob())
	repo.withOrder[bobID] = true
	svc := NewService(repo)

	require.NoError(t, svc.Delete(context.Background(), aliceID))
	assert.NotContains(t, repo.byID, aliceID)

	err := svc.Delete(context.Background(), bobID)
	require.ErrorIs(t, err, ErrHasOrders)
	assert.ErrorIs(t, err, fault.Conflict)
	assert.Contains(t, repo.byID, bobID)

	require.ErrorIs(t, svc.Delete(context.Background(), aliceID), ErrNotFound)
	require.ErrorIs(t, svc.Delete(context.Background(), "not-a-uuid"), fault.InvalidID)
}

func TestGetAndList(t *testing.T) {
	svc := NewService(newMockRepo())

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = svc.Get(context.Background(), aliceID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(context.Background(), "short")
	require.ErrorIs(t, err, ErrInvalidID)
}
