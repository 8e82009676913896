package relerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsCarryTheirKind(t *testing.T) {
	cases := []struct {
		err  *Error
		kind Kind
	}{
		{NewUnknownRelation("Bogus"), UnknownRelation},
		{NewSchemaMismatch("ChildScope", int(0), "x"), SchemaMismatch},
		{NewUnsupportedUpdate("ChildScope", "DeleteKey"), UnsupportedUpdate},
		{NewTransactionState("Transaction", "Idle"), TransactionState},
		{NewCatalogCollision("ChildScope"), CatalogCollision},
	}
	for _, c := range cases {
		assert.Equal(t, c.kind, c.err.Kind())
		assert.NotEmpty(t, c.err.Error())
		assert.True(t, Is(c.err, c.kind))
	}
}

func TestIsReturnsFalseForOtherKinds(t *testing.T) {
	err := NewUnknownRelation("Bogus")
	assert.False(t, Is(err, SchemaMismatch))
	assert.False(t, Is(errors.New("plain"), UnknownRelation))
}

func TestStackIsCaptured(t *testing.T) {
	err := NewUnknownRelation("Bogus")
	assert.NotEmpty(t, err.Stack())
}
