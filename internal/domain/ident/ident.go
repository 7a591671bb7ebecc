// Package ident validates and generates record identifiers.
package ident

import "github.com/google/uuid"

// Length is the length of an identifier in its canonical string form.
const Length = 36

// Valid reports whether id is a canonical 36-character UUID string.
func Valid(id string) bool {
	if len(id) != Length {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// New returns a fresh random identifier.
func New() string {
	return uuid.NewString()
}
