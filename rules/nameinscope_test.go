package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/ir"
)

// buildWorld assembles a small synthetic program:
//
//	function foo() {      // file scope 100, function id=1 (Name left unset), body scope 200
//	  let x;               // stmt 10, scope 200, name 1 ("x")
//	  let y;               // stmt 11, scope 200, name 2 ("y"), unused
//	  {                     // block scope 300, nested directly under 200
//	    x;                  // expr 50, NameRef to x
//	  }
//	}
func buildWorld() (World, []FunctionLevelScope, []ChildScope) {
	w := World{
		Files:     []inputs.File{{Id: 1, Path: "a.js", Scope: 100}},
		Functions: []inputs.Function{{Id: 1, File: 1, Scope: 100, Body: 200, Span: ir.Span{Start: 0, End: 1}}},
		InputScope: []inputs.InputScope{
			{Parent: 100, Child: 200, File: 1},
			{Parent: 200, Child: 300, File: 1},
		},
		Statements: []inputs.Statement{
			{Id: 10, File: 1, Scope: 200, Span: ir.Span{Start: 2, End: 3}},
			{Id: 11, File: 1, Scope: 200, Span: ir.Span{Start: 4, End: 5}},
		},
		LetDecls: []inputs.LetDecl{
			{Stmt: 10, File: 1, Pattern: ir.Some(ir.Name(1)), Span: ir.Span{Start: 2, End: 3}},
			{Stmt: 11, File: 1, Pattern: ir.Some(ir.Name(2)), Span: ir.Span{Start: 4, End: 5}},
		},
		Expressions: []inputs.Expression{
			{Id: 50, File: 1, Kind: inputs.ExprKind{Tag: inputs.ExprNameRef}, Scope: 300, Span: ir.Span{Start: 6, End: 7}},
		},
		NameRefs: []inputs.NameRef{
			{Expr: 50, File: 1, Value: 1},
		},
	}
	childScope := DeriveChildScope(w.InputScope)
	fls := DeriveFunctionLevelScope(w.Functions, w.Files, w.InputScope)
	return w, fls, childScope
}

func TestDeriveNameInScopePropagatesThroughChildScope(t *testing.T) {
	w, fls, childScope := buildWorld()
	got := DeriveNameInScope(w, childScope, fls)

	found := false
	for _, n := range got {
		if n.Name == 1 && n.Scope == 300 && n.File == 1 {
			found = true
		}
	}
	assert.True(t, found, "let x declared at 200 should be visible at nested scope 300")
}

func TestDeriveNameInScopeFunctionDeclarationVisibleAtEnclosingScope(t *testing.T) {
	w := World{
		Files:     []inputs.File{{Id: 1, Path: "a.js", Scope: 100}},
		Functions: []inputs.Function{{Id: 1, File: 1, Name: ir.Some(ir.Name(9)), Scope: 100, Body: 200, Span: ir.Span{Start: 0, End: 1}}},
	}
	got := DeriveNameInScope(w, nil, nil)
	assert.Len(t, got, 1)
	assert.Equal(t, ir.ScopeId(100), got[0].Scope)
	assert.Equal(t, ir.Name(9), got[0].Name)
}

func TestDeriveUsageAndUnusedVariables(t *testing.T) {
	w, fls, childScope := buildWorld()
	nameInScope := DeriveNameInScope(w, childScope, fls)
	usages := DeriveVariableUsages(w.NameRefs, w.Expressions, nameInScope)
	exported := DeriveIsExported(w, nameInScope)
	unused := DeriveUnusedVariables(nameInScope, exported, usages)

	usedX := false
	for _, u := range usages {
		if u.Name == 1 {
			usedX = true
		}
	}
	assert.True(t, usedX, "x should be resolved as used")

	unusedY := false
	for _, u := range unused {
		if u.Name == 2 {
			unusedY = true
		}
		assert.NotEqual(t, ir.Name(1), u.Name, "x has a usage and must not be flagged unused")
	}
	assert.True(t, unusedY, "y has no usage and must be flagged unused")
}

func TestDeriveIsExportedAliasTakesPriorityOverName(t *testing.T) {
	w := World{
		LetDecls: []inputs.LetDecl{
			{Stmt: 1, File: 1, Pattern: ir.Some(ir.Name(1)), Span: ir.Span{Start: 0, End: 1}},
			{Stmt: 2, File: 1, Pattern: ir.Some(ir.Name(2)), Span: ir.Span{Start: 2, End: 3}},
		},
		Statements: []inputs.Statement{
			{Id: 1, File: 1, Scope: 100},
			{Id: 2, File: 1, Scope: 100},
		},
		Exports: []inputs.FileExport{
			{Id: 1, File: 1, Scope: 100, Name: ir.Some(ir.Name(1)), Alias: ir.Some(ir.Name(2))},
		},
	}
	nameInScope := DeriveNameInScope(w, nil, nil)
	got := DeriveIsExported(w, nameInScope)

	assert.Len(t, got, 1)
	assert.Equal(t, ir.AnyIdStmt(2), got[0].DeclaredIn)
}

func TestDeriveIsExportedClauseWithNeitherProducesNoTuple(t *testing.T) {
	w := World{
		Exports: []inputs.FileExport{
			{Id: 1, File: 1, Scope: 100},
		},
	}
	got := DeriveIsExported(w, nil)
	assert.Empty(t, got)
}
