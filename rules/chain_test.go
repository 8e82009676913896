package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/ir"
)

func TestDeriveChainedWithTransitive(t *testing.T) {
	// a.b.c: expr1 = NameRef a, expr2 = a.b (object=expr1), expr3 = (a.b).c (object=expr2)
	dots := []inputs.DotAccess{
		{Expr: 2, File: 1, Object: ir.Some(ir.ExprId(1)), Property: ir.Some(ir.Name(1))},
		{Expr: 3, File: 1, Object: ir.Some(ir.ExprId(2)), Property: ir.Some(ir.Name(2))},
	}
	got := DeriveChainedWith(dots, nil)

	assert.True(t, IsChainedProperty(got, 2, 1))
	assert.True(t, IsChainedProperty(got, 3, 1))
	assert.False(t, IsChainedProperty(got, 1, 1))
}

func TestDeriveChainedWithBracketRequiresConcreteProperty(t *testing.T) {
	brackets := []inputs.BracketAccess{
		{Expr: 2, File: 1, Object: ir.Some(ir.ExprId(1)), Property: ir.None[ir.ExprId]()},
	}
	got := DeriveChainedWith(nil, brackets)
	assert.Empty(t, got)
}
