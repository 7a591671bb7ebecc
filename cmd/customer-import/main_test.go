package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pgzip "github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/customer"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/fault"
)

var testFilter = filterConfig{capacity: 1000, fpr: 0.01}

func writeGz(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	file, err := os.Create(path)
	require.NoError(t, err)
	gz := pgzip.NewWriter(file)
	_, err = gz.Write([]byte(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, file.Close())
	return path
}

func TestFindDuplicates(t *testing.T) {
	a := writeGz(t, "a.ndjson.gz",
		`{"cpfCliente": "11111111111", "emailCliente": "a@x.com", "telefoneCliente": "1"}`,
		`{"cpfCliente": "22222222222", "emailCliente": "b@x.com", "telefoneCliente": "2"}`,
		`{"cpfCliente": "33333333333", "emailCliente": "b@x.com", "telefoneCliente": "3"}`,
	)
	b := writeGz(t, "b.ndjson.gz",
		`{"cpfCliente": "11111111111", "emailCliente": "c@x.com", "telefoneCliente": "4"}`,
		`{"cpfCliente": "44444444444", "emailCliente": "d@x.com", "telefoneCliente": "5"}`,
	)

	dups, err := findDuplicates(context.Background(), []string{a, b}, testFilter)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{
		"cpf:11111111111": {},
		"email:b@x.com":   {},
	}, dups)
}

func TestFindDuplicates_TrimsValues(t *testing.T) {
	a := writeGz(t, "a.ndjson.gz",
		`{"cpfCliente": "11111111111", "emailCliente": " alice@x.com", "telefoneCliente": "1"}`,
	)
	b := writeGz(t, "b.ndjson.gz",
		`{"cpfCliente": "22222222222", "emailCliente": "alice@x.com  ", "telefoneCliente": "2"}`,
		`{"cpfCliente": "   "}`,
	)

	dups, err := findDuplicates(context.Background(), []string{a, b}, testFilter)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"email:alice@x.com": {}}, dups)
}

func TestFindDuplicates_PrefixSeparatesFields(t *testing.T) {
	a := writeGz(t, "a.ndjson.gz",
		`{"cpfCliente": "11987654321", "telefoneCliente": "11987654321"}`,
	)

	dups, err := findDuplicates(context.Background(), []string{a}, testFilter)
	require.NoError(t, err)
	assert.Empty(t, dups)
}

func TestFindDuplicates_MalformedFile(t *testing.T) {
	a := writeGz(t, "a.ndjson.gz", `{"cpfCliente": [1]}`)

	_, err := findDuplicates(context.Background(), []string{a}, testFilter)
	require.ErrorIs(t, err, fault.InvalidFields)
}

type fakeCreator struct {
	created []customer.CreateRequest
	err     error
}

func (f *fakeCreator) Create(_ context.Context, req customer.CreateRequest) (*customer.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	if req.Email != nil && *req.Email == "taken@x.com" {
		return nil, customer.ErrEmailTaken
	}
	f.created = append(f.created, req)
	return &customer.Customer{}, nil
}

func TestImportFile(t *testing.T) {
	path := writeGz(t, "a.ndjson.gz",
		`{"cpfCliente": "11111111111", "emailCliente": "a@x.com"}`,
		`{"cpfCliente": "22222222222", "emailCliente": "dup@x.com"}`,
		`{"cpfCliente": "33333333333", "emailCliente": "taken@x.com"}`,
	)
	dups := map[string]struct{}{"email:dup@x.com": {}}

	var (
		svc fakeCreator
		rep report
	)
	require.NoError(t, importFile(context.Background(), &svc, path, dups, &rep))

	assert.Equal(t, report{created: 1, duplicates: 1, rejected: 1}, rep)
	require.Len(t, svc.created, 1)
	assert.Equal(t, "11111111111", *svc.created[0].TaxID)
}

func TestImportFile_InternalFailureAborts(t *testing.T) {
	path := writeGz(t, "a.ndjson.gz", `{"cpfCliente": "11111111111"}`)

	svc := fakeCreator{err: assert.AnError}
	var rep report
	err := importFile(context.Background(), &svc, path, nil, &rep)
	require.ErrorIs(t, err, assert.AnError)
}
