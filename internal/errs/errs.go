// Package errs holds the error taxonomy shared by the training packages.
//
// Every domain error carries a Kind (validation, conflict, not found, state) and a
// machine readable Code. errors.Is matches either on the kind alone (the ErrValidation,
// ErrConflict, ErrNotFound and ErrState sentinels) or on kind and code together
// (package level sentinels such as volume.ErrNegativeVolume).
package errs

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindState:
		return "state"
	default:
		return "unknown"
	}
}

var (
	ErrValidation = &Error{Kind: KindValidation, Msg: "validation error"}
	ErrConflict   = &Error{Kind: KindConflict, Msg: "conflict"}
	ErrNotFound   = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrState      = &Error{Kind: KindState, Msg: "invalid state"}
)

type Error struct {
	Kind   Kind
	Code   string
	Msg    string
	Entity string
	ID     string
	Field  string
	Cause  error
}

func New(kind Kind, code, msg string) *Error {
	return &Error{
		Kind: kind,
		Code: code,
		Msg:  msg,
	}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	if e.Entity != "" {
		b.WriteString(fmt.Sprintf(" [%s", e.Entity))
		if e.ID != "" {
			b.WriteString(" " + e.ID)
		}
		b.WriteString("]")
	}
	if e.Field != "" {
		b.WriteString(fmt.Sprintf(" [field: %s]", e.Field))
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Is reports a match when target is an *Error of the same kind, and,
// if target has a code, the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithEntity(entity, id string) *Error {
	c := *e
	c.Entity = entity
	c.ID = id
	return &c
}

func (e *Error) WithField(field string) *Error {
	c := *e
	c.Field = field
	return &c
}

func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Cause = cause
	return &c
}

// As returns the first *Error found in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnknown
}
