// Package catalog holds the build-time-generated bijections between
// relation/index ids and their stable external names (C7 of the design,
// spec.md §6 and §4.7). The tables are hand-authored rather than generated
// by a build step, matching the teacher's own style of small hand-authored
// lookup tables (e.g. linage.AccessKind's Read/Write/Call/Xfer constants);
// a code-generator for this catalog would be a collaborator concern under
// spec.md §1's "out of scope: CLI, configuration, ... beyond what §6
// specifies".
package catalog

import "fmt"

// RelationID uniquely identifies one relation, input or derived.
type RelationID uint32

// IndexID uniquely identifies one public arrangement exposed for external
// query (a strict subset of all arrangements - see ArrangementIndex).
type IndexID uint32

// Output relation ids, in the order spec.md §6 lists them.
const (
	ChainedWith RelationID = iota + 1
	ChildScope
	FunctionLevelScope
	IsExported
	NameInScope
	NoUndef
	TypeofUndef
	UnusedVariables
	UseBeforeDecl
	VariableUsages
	WithinTypeofExpr
)

// Input relation ids: the 51 inputs::<Kind> fact tables of spec.md §6.
const (
	InputArray RelationID = iota + 100
	InputArrow
	InputArrowParam
	InputAssign
	InputAwait
	InputBinOp
	InputBracketAccess
	InputBreak
	InputCall
	InputClass
	InputClassExpr
	InputConstDecl
	InputContinue
	InputDoWhile
	InputDotAccess
	InputEveryScope
	InputExprBigInt
	InputExprBool
	InputExprNumber
	InputExprString
	InputExpression
	InputFile
	InputFileExport
	InputFor
	InputForIn
	InputFunction
	InputFunctionArg
	InputIf
	InputImplicitGlobal
	InputImportDecl
	InputInlineFunc
	InputInlineFuncParam
	InputInputScope
	InputLabel
	InputLetDecl
	InputNameRef
	InputNew
	InputProperty
	InputReturn
	InputStatement
	InputSwitch
	InputSwitchCase
	InputTemplate
	InputTernary
	InputThrow
	InputTry
	InputUnaryOp
	InputVarDecl
	InputWhile
	InputWith
	InputYield
)

var outputNames = map[RelationID]string{
	ChainedWith:        "ChainedWith",
	ChildScope:         "ChildScope",
	FunctionLevelScope: "FunctionLevelScope",
	IsExported:         "IsExported",
	NameInScope:        "NameInScope",
	NoUndef:            "NoUndef",
	TypeofUndef:        "TypeofUndef",
	UnusedVariables:    "UnusedVariables",
	UseBeforeDecl:      "UseBeforeDecl",
	VariableUsages:     "VariableUsages",
	WithinTypeofExpr:   "WithinTypeofExpr",
}

var inputKinds = []string{
	"Array", "Arrow", "ArrowParam", "Assign", "Await", "BinOp", "BracketAccess",
	"Break", "Call", "Class", "ClassExpr", "ConstDecl", "Continue", "DoWhile",
	"DotAccess", "EveryScope", "ExprBigInt", "ExprBool", "ExprNumber", "ExprString",
	"Expression", "File", "FileExport", "For", "ForIn", "Function", "FunctionArg",
	"If", "ImplicitGlobal", "ImportDecl", "InlineFunc", "InlineFuncParam",
	"InputScope", "Label", "LetDecl", "NameRef", "New", "Property", "Return",
	"Statement", "Switch", "SwitchCase", "Template", "Ternary", "Throw", "Try",
	"UnaryOp", "VarDecl", "While", "With", "Yield",
}

var (
	idToName = map[RelationID]string{}
	nameToID = map[string]RelationID{}
	inputSet = map[RelationID]bool{}
)

func register(id RelationID, name string, input bool) {
	if existing, ok := idToName[id]; ok {
		panic(fmt.Sprintf("catalog: relation id %d already registered as %q (collision with %q)", id, existing, name))
	}
	if _, ok := nameToID[name]; ok {
		panic(fmt.Sprintf("catalog: relation name %q already registered (CatalogCollision)", name))
	}
	idToName[id] = name
	nameToID[name] = id
	if input {
		inputSet[id] = true
	}
}

func init() {
	for id, name := range outputNames {
		register(id, name, false)
	}
	for i, kind := range inputKinds {
		id := InputArray + RelationID(i)
		register(id, "inputs::"+kind, true)
	}
}

// Name returns the stable external name of a relation id, and false if id
// is unknown (the UnknownRelation error kind of spec.md §7).
func Name(id RelationID) (string, bool) {
	n, ok := idToName[id]
	return n, ok
}

// Lookup resolves a relation name back to its id.
func Lookup(name string) (RelationID, bool) {
	id, ok := nameToID[name]
	return id, ok
}

// IsInput reports whether id names an input relation (producer-written,
// never written by rules).
func IsInput(id RelationID) bool { return inputSet[id] }

// IsOutput reports whether id names a derived/output relation.
func IsOutput(id RelationID) bool {
	_, ok := idToName[id]
	return ok && !inputSet[id]
}

// Public indexes of spec.md §6: queryable by external callers via
// engine.Engine.QueryIndex.
const (
	IndexChildScopeByParent IndexID = iota + 1
	IndexVariableInScope
	IndexVariablesForScope
	IndexExpressionById
	IndexExpressionBySpan
	IndexInputScopeByChild
	IndexInputScopeByParent
)

var indexNames = map[IndexID]string{
	IndexChildScopeByParent: "ChildScopeByParent",
	IndexVariableInScope:    "Index_VariableInScope",
	IndexVariablesForScope:  "Index_VariablesForScope",
	IndexExpressionById:     "inputs::ExpressionById",
	IndexExpressionBySpan:   "inputs::ExpressionBySpan",
	IndexInputScopeByChild:  "inputs::InputScopeByChild",
	IndexInputScopeByParent: "inputs::InputScopeByParent",
}

// IndexBinding associates a public index with the relation it arranges and
// the arrangement's position within that relation's arrangement list (so
// external callers never see internal arrangement numbering, only the
// public IndexID).
type IndexBinding struct {
	Relation  RelationID
	Arrangement int
}

var indexBindings = map[IndexID]IndexBinding{
	IndexChildScopeByParent: {Relation: ChildScope, Arrangement: 0},
	IndexVariableInScope:    {Relation: NameInScope, Arrangement: 0},
	IndexVariablesForScope:  {Relation: NameInScope, Arrangement: 1},
	IndexExpressionById:     {Relation: InputExpression, Arrangement: 0},
	IndexExpressionBySpan:   {Relation: InputExpression, Arrangement: 1},
	IndexInputScopeByChild:  {Relation: InputInputScope, Arrangement: 0},
	IndexInputScopeByParent: {Relation: InputInputScope, Arrangement: 1},
}

// IndexName returns the stable external name of an index id.
func IndexName(id IndexID) (string, bool) {
	n, ok := indexNames[id]
	return n, ok
}

// Binding resolves a public index id to the relation and internal
// arrangement slot it addresses.
func Binding(id IndexID) (IndexBinding, bool) {
	b, ok := indexBindings[id]
	return b, ok
}
