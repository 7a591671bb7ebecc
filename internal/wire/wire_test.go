package wire

import (
	"strings"
	"testing"

	"github.com/go-faster/jx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/fault"
)

func TestDecodeBytes(t *testing.T) {
	f, err := DecodeBytes([]byte(`{
		"idCliente": "6f1c9a34-7d0e-4b9e-9d7c-2a3b4c5d6e7f",
		"distanciaPedido": 12.50,
		"pesoPedido": "7",
		"statusEntrega": null,
		"extra": "kept"
	}`))
	require.NoError(t, err)

	assert.Equal(t, Fields{
		"idCliente":       "6f1c9a34-7d0e-4b9e-9d7c-2a3b4c5d6e7f",
		"distanciaPedido": "12.50",
		"pesoPedido":      "7",
		"extra":           "kept",
	}, f)
	assert.Nil(t, f.Get(DeliveryStatus))

	req := f.OrderCreate()
	require.NotNil(t, req.Distance)
	assert.Equal(t, "12.50", *req.Distance)
	assert.Nil(t, req.Status)
	assert.Nil(t, req.Date)
}

func TestDecodeBytes_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "array", body: `[1, 2]`},
		{name: "string", body: `"hello"`},
		{name: "bool member", body: `{"pesoPedido": true}`},
		{name: "object member", body: `{"pesoPedido": {"kg": 1}}`},
		{name: "truncated", body: `{"pesoPedido": 1`},
		{name: "trailing data", body: `{"pesoPedido": 1} {}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(tt.body))
			require.ErrorIs(t, err, fault.InvalidFields)
		})
	}
}

func TestDecodeBytes_Empty(t *testing.T) {
	f, err := DecodeBytes(nil)
	require.NoError(t, err)
	assert.Empty(t, f)

	req := f.CustomerUpdate()
	assert.Nil(t, req.Name)
}

func TestCustomerCreate(t *testing.T) {
	f, err := DecodeBytes([]byte(`{"nomeCliente":"Ana","cpfCliente":"12345678901","emailCliente":"ana@x.com","telefoneCliente":11999990000}`))
	require.NoError(t, err)

	req := f.CustomerCreate()
	assert.Equal(t, "Ana", *req.Name)
	assert.Equal(t, "11999990000", *req.Phone)
	assert.Nil(t, req.Address)
}

func TestEach(t *testing.T) {
	input := `{"cpfCliente": "12345678901", "nomeCliente": "Ana"}
{"cpfCliente": "10987654321"}

{"cpfCliente": null}
`
	var got []string
	err := Each(jx.Decode(strings.NewReader(input), 64), func(n int, f Fields) error {
		got = append(got, f[CustomerTaxID])
		assert.Len(t, got, n)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"12345678901", "10987654321", ""}, got)
}

func TestEach_StopsOnBadRecord(t *testing.T) {
	input := `{"cpfCliente": "12345678901"}
{"cpfCliente": true}
{"cpfCliente": "10987654321"}
`
	var seen int
	err := Each(jx.Decode(strings.NewReader(input), 64), func(int, Fields) error {
		seen++
		return nil
	})
	require.ErrorIs(t, err, fault.InvalidFields)
	assert.ErrorContains(t, err, "record 2")
	assert.Equal(t, 1, seen)
}
