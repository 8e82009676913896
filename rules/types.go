// Package rules implements the rule engine (C4): the six primitive
// transforms of spec.md §4.4 and the concrete rule graph that derives the
// eleven output relations from the 51 input relations.
package rules

import (
	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/ir"
	"github.com/viant/relscope/relation"
)

// ChildScope is the transitive, irreflexive closure of InputScope within a file.
type ChildScope struct {
	Parent ir.ScopeId
	Child  ir.ScopeId
	File   ir.FileId
}

func (c ChildScope) Key() string { return relation.StructKey(c) }

// FunctionLevelScope maps every scope to the nearest enclosing function
// body or file scope, tagged with which function/file that is.
type FunctionLevelScope struct {
	Scope  ir.ScopeId
	Nearest ir.ScopeId
	File   ir.FileId
	Id     ir.AnyId
}

func (f FunctionLevelScope) Key() string { return relation.StructKey(f) }

// ChainedWith is the transitive closure over property accesses: (object,
// property) meaning property's expression is a chained access off object
// and must not be treated as a free reference.
type ChainedWith struct {
	Object   ir.ExprId
	Property ir.ExprId
	File     ir.FileId
}

func (c ChainedWith) Key() string { return relation.StructKey(c) }

// WithinTypeofExpr relates a typeof expression to every expression reached
// by unwrapping it through groupings and sequence-value positions.
type WithinTypeofExpr struct {
	TypeOf ir.ExprId
	Expr   ir.ExprId
	File   ir.FileId
}

func (w WithinTypeofExpr) Key() string { return relation.StructKey(w) }

// NameInScope is name visibility: name n is visible at scope s.
type NameInScope struct {
	File       ir.FileId
	Name       ir.Name
	Scope      ir.ScopeId
	Span       ir.Opt[ir.Span]
	DeclaredIn ir.AnyId
	Implicit   bool
}

func (n NameInScope) Key() string { return relation.StructKey(n) }

// IsExported marks a declaration (or a resolved export target) as exported.
type IsExported struct {
	DeclaredIn ir.AnyId
	File       ir.FileId
	Name       ir.Opt[ir.Name]
}

func (e IsExported) Key() string { return relation.StructKey(e) }

// VariableUsages relates a NameRef occurrence to the declaration it resolves to.
type VariableUsages struct {
	File       ir.FileId
	Name       ir.Name
	Scope      ir.ScopeId
	DeclaredIn ir.AnyId
}

func (v VariableUsages) Key() string { return relation.StructKey(v) }

// NoUndef flags a reference with no resolving declaration.
type NoUndef struct {
	Name  ir.Name
	Scope ir.ScopeId
	Span  ir.Span
	File  ir.FileId
}

func (n NoUndef) Key() string { return relation.StructKey(n) }

// TypeofUndef is NoUndef restricted to references enclosed by typeof.
type TypeofUndef struct {
	Whole     ir.ExprId
	Undefined ir.ExprId
	File      ir.FileId
}

func (t TypeofUndef) Key() string { return relation.StructKey(t) }

// UseBeforeDecl flags a reference that resolves, but to a declaration in a
// strictly descendant scope, for declaration forms where TDZ applies.
type UseBeforeDecl struct {
	Name        ir.Name
	Used        ir.ExprId
	UsedIn      ir.Span
	Declared    ir.AnyId
	DeclaredIn  ir.Span
	File        ir.FileId
}

func (u UseBeforeDecl) Key() string { return relation.StructKey(u) }

// UnusedVariables flags a non-implicit, non-exported declaration with no
// matching usage.
type UnusedVariables struct {
	Name     ir.Name
	Declared ir.AnyId
	Span     ir.Span
	File     ir.FileId
}

func (u UnusedVariables) Key() string { return relation.StructKey(u) }

// World is the input snapshot the rule graph re-derives every output
// relation from. relscope recomputes derived relations from scratch on
// every commit (full re-derivation, one of the two strategies spec.md
// §4.4 explicitly sanctions) rather than propagating deltas; the smaller
// state machine this buys back is worth more than the differential-update
// performance for a linter-sized input (a handful of files per commit).
type World struct {
	InputScope      []inputs.InputScope
	Files           []inputs.File
	EveryScope      []inputs.EveryScope
	Statements      []inputs.Statement
	Functions       []inputs.Function
	FunctionArgs    []inputs.FunctionArg
	Arrows          []inputs.Arrow
	ArrowParams     []inputs.ArrowParam
	InlineFuncs     []inputs.InlineFunc
	InlineFuncArgs  []inputs.InlineFuncParam
	LetDecls        []inputs.LetDecl
	ConstDecls      []inputs.ConstDecl
	VarDecls        []inputs.VarDecl
	Classes         []inputs.Class
	ClassExprs      []inputs.ClassExpr
	ImplicitGlobals []inputs.ImplicitGlobal
	Imports         []inputs.ImportDecl
	Exports         []inputs.FileExport
	Tries           []inputs.Try
	Expressions     []inputs.Expression
	NameRefs        []inputs.NameRef
	DotAccesses     []inputs.DotAccess
	BracketAccesses []inputs.BracketAccess
	UnaryOps        []inputs.UnaryOp
}
