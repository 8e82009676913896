package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/ir"
)

func TestDeriveWithinTypeofExprUnwrapsGroupingAndSequenceLast(t *testing.T) {
	// typeof ((x, y)) : expr1=typeof arg=expr2 grouping of expr3; expr3 is
	// a sequence [expr4, expr5]; expr5 is the value position.
	unary := []inputs.UnaryOp{{Expr: 1, File: 1, Op: inputs.OpTypeof, Arg: 2}}
	expressions := []inputs.Expression{
		{Id: 2, File: 1, Kind: inputs.ExprKind{Tag: inputs.ExprGrouping, Grouping: 3}},
		{Id: 3, File: 1, Kind: inputs.ExprKind{Tag: inputs.ExprSequence, Sequence: []ir.ExprId{4, 5}}},
	}
	got := DeriveWithinTypeofExpr(unary, expressions)

	assert.True(t, IsWithinTypeof(got, 2, 1))
	assert.True(t, IsWithinTypeof(got, 3, 1))
	assert.True(t, IsWithinTypeof(got, 5, 1))
	assert.False(t, IsWithinTypeof(got, 4, 1))
}

func TestDeriveWithinTypeofExprEmptySequenceProducesNoFurtherFact(t *testing.T) {
	unary := []inputs.UnaryOp{{Expr: 1, File: 1, Op: inputs.OpTypeof, Arg: 2}}
	expressions := []inputs.Expression{
		{Id: 2, File: 1, Kind: inputs.ExprKind{Tag: inputs.ExprSequence, Sequence: nil}},
	}
	got := DeriveWithinTypeofExpr(unary, expressions)

	assert.Len(t, got, 1)
	assert.Equal(t, ir.ExprId(2), got[0].Expr)
}

func TestDeriveWithinTypeofExprIgnoresNonTypeofUnaryOps(t *testing.T) {
	unary := []inputs.UnaryOp{{Expr: 1, File: 1, Op: inputs.OpVoid, Arg: 2}}
	got := DeriveWithinTypeofExpr(unary, nil)
	assert.Empty(t, got)
}
