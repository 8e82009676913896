// Package relerr implements the typed error kinds of spec.md §7, surfaced
// from every public operation of package engine. Errors wrap
// github.com/go-errors/errors so a stack trace is available at the point of
// construction (the teacher carries go-errors/errors as an indirect
// dependency already; relscope promotes it to direct and gives it an
// actual job: annotating every typed engine error with a captured trace for
// diagnostics, the same role go-errors/errors plays wherever the wider
// example pack reaches for it).
package relerr

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Kind discriminates the five typed error kinds of spec.md §7.
type Kind uint8

const (
	UnknownRelation Kind = iota
	SchemaMismatch
	UnsupportedUpdate
	TransactionState
	CatalogCollision
)

func (k Kind) String() string {
	switch k {
	case UnknownRelation:
		return "UnknownRelation"
	case SchemaMismatch:
		return "SchemaMismatch"
	case UnsupportedUpdate:
		return "UnsupportedUpdate"
	case TransactionState:
		return "TransactionState"
	case CatalogCollision:
		return "CatalogCollision"
	default:
		return "Unknown"
	}
}

// Error is a typed engine error with a captured stack trace. Callers that
// need the kind for branching should use errors.As with *Error, or the Is*
// helpers below.
type Error struct {
	kind  Kind
	cause *goerrors.Error
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, cause: goerrors.Wrap(fmt.Errorf(format, args...), 1)}
}

func (e *Error) Error() string { return e.cause.Error() }

// Unwrap exposes the error wrapped by the go-errors/errors value to
// errors.Is/As.
func (e *Error) Unwrap() error { return e.cause.Err }

// Kind reports which of the five error kinds e is.
func (e *Error) Kind() Kind { return e.kind }

// Stack renders the stack trace captured at construction, for diagnostics.
func (e *Error) Stack() string { return string(e.cause.Stack()) }

// NewUnknownRelation reports a catalog miss by name or id.
func NewUnknownRelation(ref any) *Error {
	return newError(UnknownRelation, "unknown relation: %v", ref)
}

// NewSchemaMismatch reports a tuple type that doesn't match a relation's schema.
func NewSchemaMismatch(relation string, expected, got any) *Error {
	return newError(SchemaMismatch, "relation %s: schema mismatch: expected %T, got %T", relation, expected, got)
}

// NewUnsupportedUpdate reports an update kind a relation doesn't support
// (e.g. DeleteKey on a relation with no key function).
func NewUnsupportedUpdate(relation string, updateKind string) *Error {
	return newError(UnsupportedUpdate, "relation %s: unsupported update %s", relation, updateKind)
}

// NewTransactionState reports an API call made in the wrong driver state.
func NewTransactionState(expected, actual string) *Error {
	return newError(TransactionState, "transaction state: expected %s, got %s", expected, actual)
}

// NewCatalogCollision reports a duplicate relation/index name at startup.
// This kind is fatal and startup-only. catalog.register and
// relation.Store.Register detect their own collisions and panic with a
// plain message; neither constructs this error.
func NewCatalogCollision(name string) *Error {
	return newError(CatalogCollision, "catalog collision: duplicate name %q", name)
}

// Is reports whether err is a *Error of kind k, unwrapping as needed.
func Is(err error, k Kind) bool {
	var e *Error
	for err != nil {
		if as, ok := err.(*Error); ok {
			e = as
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return e != nil && e.kind == k
}
