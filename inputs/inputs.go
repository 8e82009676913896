// Package inputs defines the 51 inputs::<Kind> fact tables of spec.md §6 -
// the external AST producer's output, and the sole way tuples enter the
// engine. Every type here implements relation.Tuple; fields mirror the
// "(id, file, ...)" shape spec.md §3 gives for its example relations.
package inputs

import (
	"github.com/viant/relscope/ir"
	"github.com/viant/relscope/relation"
)

// ExprKindTag discriminates Expression.Kind. A handful of lightweight
// expression shapes (Grouping, Sequence) carry their payload inline since
// spec.md gives them no dedicated input relation; the rest are tagged here
// and looked up by expr id in their own relation (Arrow, NameRef, Call,
// New, ClassExpr, UnaryOp, Assign, ...).
type ExprKindTag uint8

const (
	ExprNameRef ExprKindTag = iota
	ExprGrouping
	ExprSequence
	ExprBinOpKind
	ExprCallKind
	ExprNewKind
	ExprArrowKind
	ExprClassExprKind
	ExprUnaryOpKind
	ExprAssignKind
	ExprAwaitKind
	ExprTemplateKind
	ExprTernaryKind
	ExprBracketAccessKind
	ExprDotAccessKind
	ExprArrayKind
	ExprInlineFuncKind
	ExprYieldKind
	ExprBigIntKind
	ExprBoolKind
	ExprNumberKind
	ExprStringKind
	ExprPropertyKind
)

// ExprKind is the tagged union carried by Expression.Kind. Grouping holds
// the wrapped expression id; Sequence holds its elements in source order -
// spec.md's WithinTypeofExpr rule treats the *last* element as the
// sequence's value, defining "last of empty sequence" as no fact.
type ExprKind struct {
	Tag      ExprKindTag
	Grouping ir.ExprId
	Sequence []ir.ExprId
}

// Expression is the generic shell every expression participates in;
// kind-specific data for the heavier shapes lives in the dedicated
// relations below, joined back to Expression by Id.
type Expression struct {
	Id    ir.ExprId
	File  ir.FileId
	Kind  ExprKind
	Scope ir.ScopeId
	Span  ir.Span
}

func (e Expression) Key() string { return structKey(e) }

// InputScope is direct (non-transitive) scope nesting.
type InputScope struct {
	Parent ir.ScopeId
	Child  ir.ScopeId
	File   ir.FileId
}

func (s InputScope) Key() string { return structKey(s) }

// File is the top-level unit; Scope is its file-level scope.
type File struct {
	Id    ir.FileId
	Path  string
	Scope ir.ScopeId
}

func (f File) Key() string { return structKey(f) }

// EveryScope enumerates every scope of a file, used to seed implicit
// globals into each one.
type EveryScope struct {
	Scope ir.ScopeId
	File  ir.FileId
}

func (e EveryScope) Key() string { return structKey(e) }

// Function declares a named or anonymous function at statement position.
// Span is the declaration's own span (e.g. the function name token, or the
// `function` keyword for anonymous declarations), used by NameInScope and
// the UnusedVariables/UseBeforeDecl diagnostics.
type Function struct {
	Id       ir.FuncId
	File     ir.FileId
	Name     ir.Opt[ir.Name]
	Scope    ir.ScopeId
	Body     ir.ScopeId
	Span     ir.Span
	Exported bool
}

func (f Function) Key() string { return structKey(f) }

// FunctionArg is a formal parameter pattern of Func.
type FunctionArg struct {
	Func     ir.FuncId
	File     ir.FileId
	Pattern  ir.Name
	Span     ir.Span
	Implicit bool
}

func (a FunctionArg) Key() string { return structKey(a) }

// LetDecl, ConstDecl, VarDecl: the three lexical/hoisted declaration forms.
// Span is the declared pattern's span.
type LetDecl struct {
	Stmt     ir.StmtId
	File     ir.FileId
	Pattern  ir.Opt[ir.Name]
	Value    ir.Opt[ir.ExprId]
	Span     ir.Span
	Exported bool
}

func (d LetDecl) Key() string { return structKey(d) }

type ConstDecl struct {
	Stmt     ir.StmtId
	File     ir.FileId
	Pattern  ir.Opt[ir.Name]
	Value    ir.Opt[ir.ExprId]
	Span     ir.Span
	Exported bool
}

func (d ConstDecl) Key() string { return structKey(d) }

type VarDecl struct {
	Stmt     ir.StmtId
	File     ir.FileId
	Pattern  ir.Opt[ir.Name]
	Value    ir.Opt[ir.ExprId]
	Span     ir.Span
	Exported bool
}

func (d VarDecl) Key() string { return structKey(d) }

// Class is a class declared at statement position; ClassExpr is the
// expression-form counterpart.
type Class struct {
	Id       ir.ClassId
	File     ir.FileId
	Name     ir.Opt[ir.Name]
	Parent   ir.Opt[ir.ExprId]
	Elements ir.Opt[ir.ScopeId]
	Scope    ir.ScopeId
	Span     ir.Span
	Exported bool
}

func (c Class) Key() string { return structKey(c) }

type ClassExpr struct {
	Expr     ir.ExprId
	File     ir.FileId
	Elements ir.Opt[ir.ScopeId]
}

func (c ClassExpr) Key() string { return structKey(c) }

// ArrowBody is either an expression body or a statement (block) body.
type ArrowBody struct {
	IsExpr bool
	Expr   ir.ExprId
	Stmt   ir.StmtId
}

// Arrow is an arrow function expression.
type Arrow struct {
	Expr ir.ExprId
	File ir.FileId
	Body ir.Opt[ArrowBody]
}

func (a Arrow) Key() string { return structKey(a) }

// ArrowParam is a formal parameter of an arrow function.
type ArrowParam struct {
	Arrow    ir.ExprId
	File     ir.FileId
	Pattern  ir.Name
	Span     ir.Span
	Implicit bool
}

func (p ArrowParam) Key() string { return structKey(p) }

// InlineFunc is a function expression (as opposed to a statement Function).
type InlineFunc struct {
	Expr  ir.ExprId
	File  ir.FileId
	Name  ir.Opt[ir.Name]
	Body  ir.ScopeId
}

func (f InlineFunc) Key() string { return structKey(f) }

// InlineFuncParam is a formal parameter of an InlineFunc.
type InlineFuncParam struct {
	Func     ir.ExprId
	File     ir.FileId
	Pattern  ir.Name
	Span     ir.Span
	Implicit bool
}

func (p InlineFuncParam) Key() string { return structKey(p) }

// NameRef is a bare identifier reference.
type NameRef struct {
	Expr  ir.ExprId
	File  ir.FileId
	Value ir.Name
}

func (n NameRef) Key() string { return structKey(n) }

// Call and New share the same (callee/object, args) shape.
type Call struct {
	Expr   ir.ExprId
	File   ir.FileId
	Callee ir.Opt[ir.ExprId]
	Args   []ir.ExprId
}

func (c Call) Key() string { return structKey(c) }

type New struct {
	Expr   ir.ExprId
	File   ir.FileId
	Object ir.Opt[ir.ExprId]
	Args   []ir.ExprId
}

func (n New) Key() string { return structKey(n) }

// DotAccess and BracketAccess are property chain links; ChainedWith's
// transitive closure is computed over these two relations (see rules/chain.go).
type DotAccess struct {
	Expr     ir.ExprId
	File     ir.FileId
	Object   ir.Opt[ir.ExprId]
	Property ir.Opt[ir.Name]
}

func (d DotAccess) Key() string { return structKey(d) }

type BracketAccess struct {
	Expr     ir.ExprId
	File     ir.FileId
	Object   ir.Opt[ir.ExprId]
	Property ir.Opt[ir.ExprId]
}

func (b BracketAccess) Key() string { return structKey(b) }

// UnaryOp covers all prefix unary operators; Typeof is the one rules/typeof.go cares about.
type UnaryOpCode uint8

const (
	OpTypeof UnaryOpCode = iota
	OpVoid
	OpNot
	OpNeg
	OpPos
	OpBitNot
	OpDelete
)

type UnaryOp struct {
	Expr ir.ExprId
	File ir.FileId
	Op   UnaryOpCode
	Arg  ir.ExprId
}

func (u UnaryOp) Key() string { return structKey(u) }

// ImplicitGlobal is a name available in every scope of a file without
// explicit declaration (e.g. `window`, `globalThis`).
type ImplicitGlobal struct {
	Id         ir.GlobalId
	File       ir.FileId
	Name       ir.Name
	Privileges int
}

func (g ImplicitGlobal) Key() string { return structKey(g) }

// ImportDecl introduces zero or more free variables into its enclosing scope.
type ImportDecl struct {
	Stmt    ir.StmtId
	File    ir.FileId
	Scope   ir.ScopeId
	Imports []ImportedName
}

func (i ImportDecl) Key() string { return structKey(i) }

// ImportedName is one free variable bound by an import clause.
type ImportedName struct {
	Import ir.ImportId
	Local  ir.Name
}

// FileExport re-exports or exports an existing binding; Alias takes
// priority over Name when resolving which binding is exported.
type FileExport struct {
	Id    ir.ImportId
	File  ir.FileId
	Scope ir.ScopeId
	Name  ir.Opt[ir.Name]
	Alias ir.Opt[ir.Name]
}

func (e FileExport) Key() string { return structKey(e) }

// TryHandler describes a catch clause. ErrorSpan is the catch binding's own
// span, used when it is declared into NameInScope.
type TryHandler struct {
	Error     ir.Opt[ir.Name]
	ErrorSpan ir.Span
	Body      ir.Opt[ir.StmtId]
}

// Try is a try/catch/finally statement.
type Try struct {
	Stmt      ir.StmtId
	File      ir.FileId
	Body      ir.Opt[ir.StmtId]
	Handler   TryHandler
	Finalizer ir.Opt[ir.StmtId]
	// CatchScope is the scope the catch binding (Handler.Error) is declared
	// in, i.e. the catcher statement's scope.
	CatchScope ir.ScopeId
}

func (t Try) Key() string { return structKey(t) }

// The remaining input relations are accepted and stored but do not feed
// any of the derived relations directly; they round out the catalog's
// bit-exact 51 input kinds (spec.md §6) and are available to lint rules
// that are themselves out of this engine's scope (spec.md §1).

type Array struct {
	Expr     ir.ExprId
	File     ir.FileId
	Elements []ir.ExprId
}

func (a Array) Key() string { return structKey(a) }

type Assign struct {
	Expr    ir.ExprId
	File    ir.FileId
	Target  ir.ExprId
	Value   ir.Opt[ir.ExprId]
}

func (a Assign) Key() string { return structKey(a) }

type Await struct {
	Expr ir.ExprId
	File ir.FileId
	Arg  ir.ExprId
}

func (a Await) Key() string { return structKey(a) }

type BinOp struct {
	Expr  ir.ExprId
	File  ir.FileId
	Op    string
	Left  ir.ExprId
	Right ir.ExprId
}

func (b BinOp) Key() string { return structKey(b) }

type Break struct {
	Stmt  ir.StmtId
	File  ir.FileId
	Label ir.Opt[ir.Name]
}

func (b Break) Key() string { return structKey(b) }

type Continue struct {
	Stmt  ir.StmtId
	File  ir.FileId
	Label ir.Opt[ir.Name]
}

func (c Continue) Key() string { return structKey(c) }

type DoWhile struct {
	Stmt ir.StmtId
	File ir.FileId
	Test ir.ExprId
	Body ir.StmtId
}

func (d DoWhile) Key() string { return structKey(d) }

type ExprBigInt struct {
	Expr  ir.ExprId
	File  ir.FileId
	Value string
}

func (e ExprBigInt) Key() string { return structKey(e) }

type ExprBool struct {
	Expr  ir.ExprId
	File  ir.FileId
	Value bool
}

func (e ExprBool) Key() string { return structKey(e) }

type ExprNumber struct {
	Expr  ir.ExprId
	File  ir.FileId
	Value float64
}

func (e ExprNumber) Key() string { return structKey(e) }

type ExprString struct {
	Expr  ir.ExprId
	File  ir.FileId
	Value string
}

func (e ExprString) Key() string { return structKey(e) }

type For struct {
	Stmt   ir.StmtId
	File   ir.FileId
	Init   ir.Opt[ir.StmtId]
	Test   ir.Opt[ir.ExprId]
	Update ir.Opt[ir.ExprId]
	Body   ir.StmtId
}

func (f For) Key() string { return structKey(f) }

type ForIn struct {
	Stmt   ir.StmtId
	File   ir.FileId
	Left   ir.StmtId
	Right  ir.ExprId
	Body   ir.StmtId
	OfKind bool // true for for-of, false for for-in
}

func (f ForIn) Key() string { return structKey(f) }

type If struct {
	Stmt       ir.StmtId
	File       ir.FileId
	Test       ir.ExprId
	Consequent ir.StmtId
	Alternate  ir.Opt[ir.StmtId]
}

func (i If) Key() string { return structKey(i) }

type Label struct {
	Stmt  ir.StmtId
	File  ir.FileId
	Name  ir.Name
	Body  ir.StmtId
}

func (l Label) Key() string { return structKey(l) }

type Property struct {
	Expr  ir.ExprId
	File  ir.FileId
	PropName ir.Opt[ir.Name]
	Value ir.Opt[ir.ExprId]
}

func (p Property) Key() string { return structKey(p) }

type Return struct {
	Stmt ir.StmtId
	File ir.FileId
	Arg  ir.Opt[ir.ExprId]
}

func (r Return) Key() string { return structKey(r) }

// Statement is the generic statement shell, mirroring Expression.
type Statement struct {
	Id    ir.StmtId
	File  ir.FileId
	Scope ir.ScopeId
	Span  ir.Span
}

func (s Statement) Key() string { return structKey(s) }

type Switch struct {
	Stmt         ir.StmtId
	File         ir.FileId
	Discriminant ir.ExprId
	Cases        []ir.StmtId
}

func (s Switch) Key() string { return structKey(s) }

type SwitchCase struct {
	Stmt ir.StmtId
	File ir.FileId
	Test ir.Opt[ir.ExprId]
	Body []ir.StmtId
}

func (s SwitchCase) Key() string { return structKey(s) }

type Template struct {
	Expr         ir.ExprId
	File         ir.FileId
	Quasis       []string
	Expressions  []ir.ExprId
}

func (t Template) Key() string { return structKey(t) }

type Ternary struct {
	Expr       ir.ExprId
	File       ir.FileId
	Test       ir.ExprId
	Consequent ir.ExprId
	Alternate  ir.ExprId
}

func (t Ternary) Key() string { return structKey(t) }

type Throw struct {
	Stmt ir.StmtId
	File ir.FileId
	Arg  ir.ExprId
}

func (t Throw) Key() string { return structKey(t) }

type While struct {
	Stmt ir.StmtId
	File ir.FileId
	Test ir.ExprId
	Body ir.StmtId
}

func (w While) Key() string { return structKey(w) }

type With struct {
	Stmt   ir.StmtId
	File   ir.FileId
	Object ir.ExprId
	Body   ir.StmtId
}

func (w With) Key() string { return structKey(w) }

type Yield struct {
	Expr     ir.ExprId
	File     ir.FileId
	Arg      ir.Opt[ir.ExprId]
	Delegate bool
}

func (y Yield) Key() string { return structKey(y) }

func structKey(v any) string { return relation.StructKey(v) }
