// Package fault defines the error classes shared by the domain services.
//
// A Kind is itself an error, so callers can test the class of any wrapped
// domain error with errors.Is(err, fault.NotFound). Errors that carry no Kind
// are internal failures.
package fault

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Kind classifies a domain error.
type Kind uint8

const (
	// Internal is a storage or infrastructure failure.
	Internal Kind = iota
	// MissingFields means a required input field was not supplied.
	MissingFields
	// InvalidFields means an input field has the wrong shape or type.
	InvalidFields
	// InvalidID means an identifier is not a 36-character UUID.
	InvalidID
	// Conflict is a uniqueness or referential-integrity violation.
	Conflict
	// NotFound means the referenced record does not exist.
	NotFound
	// InvalidStatus means a delivery status literal is not recognised.
	InvalidStatus
)

var kindNames = [...]string{
	Internal:      "internal failure",
	MissingFields: "missing fields",
	InvalidFields: "invalid fields",
	InvalidID:     "invalid id",
	Conflict:      "conflict",
	NotFound:      "not found",
	InvalidStatus: "invalid status",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error lets a Kind be used as an errors.Is target.
func (k Kind) Error() string { return k.String() }

// Error is a classified domain error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
}

// New returns an Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string { return e.Message }

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Internal
}

// MessageOf returns the user-facing message of err. Internal failures get a
// generic message so storage details never leak to callers.
func MessageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return "internal server error"
}
