package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "canonical", id: "0f8fad5b-d9cb-469f-a165-70867728950e", want: true},
		{name: "uppercase", id: "0F8FAD5B-D9CB-469F-A165-70867728950E", want: true},
		{name: "empty", id: "", want: false},
		{name: "too short", id: "0f8fad5b-d9cb-469f-a165", want: false},
		{name: "hex without dashes", id: "0f8fad5bd9cb469fa16570867728950e", want: false},
		{name: "braced", id: "{0f8fad5b-d9cb-469f-a165-70867728950e}", want: false},
		{name: "36 chars but not a uuid", id: "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.id))
		})
	}
}

func TestNew(t *testing.T) {
	a, b := New(), New()
	assert.True(t, Valid(a))
	assert.NotEqual(t, a, b)
}
