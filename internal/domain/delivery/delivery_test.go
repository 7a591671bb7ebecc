package delivery

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/fault"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/order"
)

type mockReader struct {
	views []View
	err   error
}

func (m *mockReader) Get(_ context.Context, id string) (*View, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.views {
		if m.views[i].ID == id {
			return &m.views[i], nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockReader) List(_ context.Context) ([]View, error) {
	return m.views, m.err
}

const deliveryID = "0f8fad5b-d9cb-469f-a165-70867728950e"

func TestGet(t *testing.T) {
	svc := NewService(&mockReader{views: []View{{
		Delivery: order.Delivery{ID: deliveryID, Status: order.InTransit},
		Urgency:  order.Urgent,
	}}})

	v, err := svc.Get(context.Background(), deliveryID)
	require.NoError(t, err)
	assert.Equal(t, order.InTransit, v.Status)
	assert.Equal(t, order.Urgent, v.Urgency)

	_, err = svc.Get(context.Background(), "6f1c9a34-7d0e-4b9e-9d7c-2a3b4c5d6e7f")
	require.ErrorIs(t, err, fault.NotFound)

	_, err = svc.Get(context.Background(), "123")
	require.ErrorIs(t, err, ErrInvalidID)
}

func TestList(t *testing.T) {
	list, err := NewService(&mockReader{}).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = NewService(&mockReader{err: errors.New("boom")}).List(context.Background())
	require.Error(t, err)
	assert.Equal(t, fault.Internal, fault.KindOf(err))
}
