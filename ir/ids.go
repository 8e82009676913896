// Package ir defines the value domain shared by every other relscope
// package: opaque entity identifiers, source spans, interned names and the
// tagged AnyId union that lets a single field range over entities of
// different kinds.
package ir

import "fmt"

// FileId, ScopeId, ExprId, StmtId, FuncId, ClassId, ImportId and GlobalId
// are opaque, totally-ordered identifiers, unique within their own kind.
// Equality and ordering are structural (plain integer comparison); nothing
// about their numeric value is meaningful outside the producer that minted
// them.
type (
	FileId   uint64
	ScopeId  uint64
	ExprId   uint64
	StmtId   uint64
	FuncId   uint64
	ClassId  uint64
	ImportId uint64
	GlobalId uint64
)

// Span is a half-open source range [Start, End) within a file. The
// containing file is implicit from context (the relation the Span appears
// in always carries a FileId alongside it).
type Span struct {
	Start int
	End   int
}

// AnyKind tags which field of AnyId is populated.
type AnyKind uint8

const (
	AnyFunc AnyKind = iota
	AnyClass
	AnyStmt
	AnyExpr
	AnyFile
	AnyImport
	AnyGlobal
)

func (k AnyKind) String() string {
	switch k {
	case AnyFunc:
		return "Func"
	case AnyClass:
		return "Class"
	case AnyStmt:
		return "Stmt"
	case AnyExpr:
		return "Expr"
	case AnyFile:
		return "File"
	case AnyImport:
		return "Import"
	case AnyGlobal:
		return "Global"
	default:
		return "Unknown"
	}
}

// AnyId is a closed tagged union over the entity kinds a declaration or
// usage can resolve to. Exactly one field is meaningful, selected by Kind;
// the type never collides across kinds because Kind is total and every
// constructor below sets it.
type AnyId struct {
	Kind   AnyKind
	Func   FuncId
	Class  ClassId
	Stmt   StmtId
	Expr   ExprId
	File   FileId
	Import ImportId
	Global GlobalId
}

func AnyIdFunc(id FuncId) AnyId     { return AnyId{Kind: AnyFunc, Func: id} }
func AnyIdClass(id ClassId) AnyId   { return AnyId{Kind: AnyClass, Class: id} }
func AnyIdStmt(id StmtId) AnyId     { return AnyId{Kind: AnyStmt, Stmt: id} }
func AnyIdExpr(id ExprId) AnyId     { return AnyId{Kind: AnyExpr, Expr: id} }
func AnyIdFile(id FileId) AnyId     { return AnyId{Kind: AnyFile, File: id} }
func AnyIdImport(id ImportId) AnyId { return AnyId{Kind: AnyImport, Import: id} }
func AnyIdGlobal(id GlobalId) AnyId { return AnyId{Kind: AnyGlobal, Global: id} }

// String renders AnyId for diagnostics and test failure messages.
func (a AnyId) String() string {
	switch a.Kind {
	case AnyFunc:
		return fmt.Sprintf("Func(%d)", a.Func)
	case AnyClass:
		return fmt.Sprintf("Class(%d)", a.Class)
	case AnyStmt:
		return fmt.Sprintf("Stmt(%d)", a.Stmt)
	case AnyExpr:
		return fmt.Sprintf("Expr(%d)", a.Expr)
	case AnyFile:
		return fmt.Sprintf("File(%d)", a.File)
	case AnyImport:
		return fmt.Sprintf("Import(%d)", a.Import)
	case AnyGlobal:
		return fmt.Sprintf("Global(%d)", a.Global)
	default:
		return "Any(?)"
	}
}
