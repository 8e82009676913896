package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/ir"
)

func TestDeriveNoUndefFlagsUnresolvedReference(t *testing.T) {
	expressions := []inputs.Expression{
		{Id: 50, File: 1, Kind: inputs.ExprKind{Tag: inputs.ExprNameRef}, Scope: 300, Span: ir.Span{Start: 6, End: 7}},
	}
	refs := []inputs.NameRef{{Expr: 50, File: 1, Value: 42}}

	got := DeriveNoUndef(refs, expressions, nil, nil, nil)
	assert.Len(t, got, 1)
	assert.Equal(t, ir.Name(42), got[0].Name)
}

func TestDeriveNoUndefExcludesChainedProperty(t *testing.T) {
	expressions := []inputs.Expression{
		{Id: 2, File: 1, Kind: inputs.ExprKind{Tag: inputs.ExprNameRef}, Scope: 300},
	}
	refs := []inputs.NameRef{{Expr: 2, File: 1, Value: 7}}
	chained := []ChainedWith{{Object: 1, Property: 2, File: 1}}

	got := DeriveNoUndef(refs, expressions, nil, chained, nil)
	assert.Empty(t, got)
}

func TestDeriveNoUndefExcludesTypeofEnclosed(t *testing.T) {
	expressions := []inputs.Expression{
		{Id: 2, File: 1, Kind: inputs.ExprKind{Tag: inputs.ExprNameRef}, Scope: 300},
	}
	refs := []inputs.NameRef{{Expr: 2, File: 1, Value: 7}}
	within := []WithinTypeofExpr{{TypeOf: 1, Expr: 2, File: 1}}

	got := DeriveNoUndef(refs, expressions, nil, nil, within)
	assert.Empty(t, got)

	typeofUndef := DeriveTypeofUndef(refs, expressions, nil, within)
	assert.Len(t, typeofUndef, 1)
	assert.Equal(t, ir.ExprId(1), typeofUndef[0].Whole)
	assert.Equal(t, ir.ExprId(2), typeofUndef[0].Undefined)
}

func TestDeriveUseBeforeDeclFlagsDescendantVarHoisting(t *testing.T) {
	// var x declared inside an inner block (stmt 10, scope 300) but
	// promoted to the enclosing function scope 200; a reference at the
	// function's own scope 200 precedes the block, so decl scope 300 is a
	// strict descendant of the usage scope 200.
	w := World{
		Files:      []inputs.File{{Id: 1, Path: "a.js", Scope: 100}},
		Functions:  []inputs.Function{{Id: 1, File: 1, Scope: 100, Body: 200}},
		InputScope: []inputs.InputScope{{Parent: 200, Child: 300, File: 1}},
		Statements: []inputs.Statement{{Id: 10, File: 1, Scope: 300, Span: ir.Span{Start: 4, End: 5}}},
		VarDecls: []inputs.VarDecl{
			{Stmt: 10, File: 1, Pattern: ir.Some(ir.Name(1)), Span: ir.Span{Start: 4, End: 5}},
		},
		Expressions: []inputs.Expression{
			{Id: 50, File: 1, Kind: inputs.ExprKind{Tag: inputs.ExprNameRef}, Scope: 200, Span: ir.Span{Start: 0, End: 1}},
		},
		NameRefs: []inputs.NameRef{{Expr: 50, File: 1, Value: 1}},
	}
	childScope := DeriveChildScope(w.InputScope)
	fls := DeriveFunctionLevelScope(w.Functions, w.Files, w.InputScope)
	nameInScope := DeriveNameInScope(w, childScope, fls)

	got := DeriveUseBeforeDecl(w, w.Expressions, nameInScope, childScope)
	assert.Len(t, got, 1)
	assert.Equal(t, ir.Name(1), got[0].Name)
	assert.Equal(t, ir.AnyIdStmt(10), got[0].Declared)
}
