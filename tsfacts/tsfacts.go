// Package tsfacts is a tree-sitter-based JS/TS fact producer: it walks a
// parsed source file and emits the inputs::<Kind> tuples package engine
// consumes. It exists to drive the engine end-to-end in the demo and
// integration tests; the AST producer itself is deliberately outside the
// engine's core (any producer - tree-sitter, a full type-checker, a
// hand-rolled parser - can feed the same relations).
//
// Grounded on the teacher's own tree-sitter inspectors
// (inspector/golang.TreeSitterInspector, inspector/jsx.Inspector): a
// sitter.NewParser + ParseCtx + manual recursive node walk, generalized
// here from "build a graph.File" to "emit relation tuples".
package tsfacts

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/viant/relscope/catalog"
	"github.com/viant/relscope/driver"
	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/ir"
	"github.com/viant/relscope/relation"
)

// Facts is everything produced from one source file.
type Facts struct {
	File            inputs.File
	InputScope      []inputs.InputScope
	EveryScope      []inputs.EveryScope
	Statements      []inputs.Statement
	Functions       []inputs.Function
	FunctionArgs    []inputs.FunctionArg
	Arrows          []inputs.Arrow
	ArrowParams     []inputs.ArrowParam
	LetDecls        []inputs.LetDecl
	ConstDecls      []inputs.ConstDecl
	VarDecls        []inputs.VarDecl
	Classes         []inputs.Class
	Expressions     []inputs.Expression
	NameRefs        []inputs.NameRef
	DotAccesses     []inputs.DotAccess
	BracketAccesses []inputs.BracketAccess
	UnaryOps        []inputs.UnaryOp
	ImplicitGlobals []inputs.ImplicitGlobal
	Calls           []inputs.Call
	Assigns         []inputs.Assign
	BinOps          []inputs.BinOp
	Ifs             []inputs.If
	Returns         []inputs.Return
}

// Updates renders every fact as an Insert update, for driver.Driver.Apply.
func (f *Facts) Updates() []driver.Update {
	var out []driver.Update
	add := func(rel func() []driver.Update) { out = append(out, rel()...) }

	out = append(out, driver.Update{Kind: driver.Insert, Relation: relID("inputs::File"), Tuple: f.File})

	add(func() []driver.Update { return insertAll("inputs::InputScope", f.InputScope) })
	add(func() []driver.Update { return insertAll("inputs::EveryScope", f.EveryScope) })
	add(func() []driver.Update { return insertAll("inputs::Statement", f.Statements) })
	add(func() []driver.Update { return insertAll("inputs::Function", f.Functions) })
	add(func() []driver.Update { return insertAll("inputs::FunctionArg", f.FunctionArgs) })
	add(func() []driver.Update { return insertAll("inputs::Arrow", f.Arrows) })
	add(func() []driver.Update { return insertAll("inputs::ArrowParam", f.ArrowParams) })
	add(func() []driver.Update { return insertAll("inputs::LetDecl", f.LetDecls) })
	add(func() []driver.Update { return insertAll("inputs::ConstDecl", f.ConstDecls) })
	add(func() []driver.Update { return insertAll("inputs::VarDecl", f.VarDecls) })
	add(func() []driver.Update { return insertAll("inputs::Class", f.Classes) })
	add(func() []driver.Update { return insertAll("inputs::Expression", f.Expressions) })
	add(func() []driver.Update { return insertAll("inputs::NameRef", f.NameRefs) })
	add(func() []driver.Update { return insertAll("inputs::DotAccess", f.DotAccesses) })
	add(func() []driver.Update { return insertAll("inputs::BracketAccess", f.BracketAccesses) })
	add(func() []driver.Update { return insertAll("inputs::UnaryOp", f.UnaryOps) })
	add(func() []driver.Update { return insertAll("inputs::ImplicitGlobal", f.ImplicitGlobals) })
	add(func() []driver.Update { return insertAll("inputs::Call", f.Calls) })
	add(func() []driver.Update { return insertAll("inputs::Assign", f.Assigns) })
	add(func() []driver.Update { return insertAll("inputs::BinOp", f.BinOps) })
	add(func() []driver.Update { return insertAll("inputs::If", f.Ifs) })
	add(func() []driver.Update { return insertAll("inputs::Return", f.Returns) })
	return out
}

func insertAll[T relation.Tuple](name string, ts []T) []driver.Update {
	out := make([]driver.Update, len(ts))
	for i, t := range ts {
		out[i] = driver.Update{Kind: driver.Insert, Relation: relID(name), Tuple: t}
	}
	return out
}

// implicitGlobalNames are the host-environment bindings every JS/TS module
// sees without an explicit declaration or import.
var implicitGlobalNames = []string{"window", "globalThis", "console", "document", "process", "require", "module", "exports", "undefined", "NaN", "Infinity"}

type producer struct {
	file       ir.FileId
	interner   *ir.Interner
	src        []byte
	nextScope  ir.ScopeId
	nextExpr   ir.ExprId
	nextStmt   ir.StmtId
	nextFunc   ir.FuncId
	nextClass  ir.ClassId
	nextGlobal ir.GlobalId

	facts *Facts
}

// Produce parses src (a .js/.jsx/.ts/.tsx file named by path) and returns
// its facts. interner is shared across files so ir.Name values stay
// comparable across a whole project.
func Produce(path string, src []byte, file ir.FileId, interner *ir.Interner) (*Facts, error) {
	lang := javascript.GetLanguage()
	if ext := filepath.Ext(path); ext == ".ts" || ext == ".tsx" {
		lang = typescript.GetLanguage()
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("tsfacts: parse %s: %w", path, err)
	}

	p := &producer{file: file, interner: interner, src: src, nextScope: 1, facts: &Facts{}}
	fileScope := p.newScope()
	p.facts.File = inputs.File{Id: file, Path: path, Scope: fileScope}
	p.seedImplicitGlobals(fileScope)
	p.walkStatements(tree.RootNode(), fileScope)
	return p.facts, nil
}

func (p *producer) newScope() ir.ScopeId {
	s := p.nextScope
	p.nextScope++
	p.facts.EveryScope = append(p.facts.EveryScope, inputs.EveryScope{Scope: s, File: p.file})
	return s
}

func (p *producer) childScope(parent ir.ScopeId) ir.ScopeId {
	child := p.newScope()
	p.facts.InputScope = append(p.facts.InputScope, inputs.InputScope{Parent: parent, Child: child, File: p.file})
	return child
}

func (p *producer) seedImplicitGlobals(scope ir.ScopeId) {
	for _, name := range implicitGlobalNames {
		p.nextGlobal++
		p.facts.ImplicitGlobals = append(p.facts.ImplicitGlobals, inputs.ImplicitGlobal{
			Id: p.nextGlobal, File: p.file, Name: p.interner.Intern(name),
		})
	}
}

func spanOf(n *sitter.Node) ir.Span { return ir.Span{Start: int(n.StartByte()), End: int(n.EndByte())} }

// walkStatements visits every statement-level child of a block-like node
// (program or statement_block) under scope.
func (p *producer) walkStatements(block *sitter.Node, scope ir.ScopeId) {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		p.walkStatement(block.NamedChild(i), scope)
	}
}

func (p *producer) walkStatement(n *sitter.Node, scope ir.ScopeId) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "function_declaration", "generator_function_declaration":
		p.walkFunctionDecl(n, scope)
		return
	case "class_declaration":
		p.walkClassDecl(n, scope)
		return
	case "lexical_declaration", "variable_declaration":
		p.walkVariableDeclaration(n, scope)
		return
	case "statement_block":
		p.emitStatement(n, scope)
		child := p.childScope(scope)
		p.walkStatements(n, child)
		return
	case "if_statement":
		stmt := p.emitStatement(n, scope)
		var test ir.ExprId
		if cond := n.ChildByFieldName("condition"); cond != nil {
			test = p.walkExpr(cond, scope)
		}
		var consequent ir.StmtId
		if cons := n.ChildByFieldName("consequence"); cons != nil {
			consequent = p.nextStmt + 1
			p.walkStatement(cons, scope)
		}
		var alternate ir.Opt[ir.StmtId]
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			next := p.nextStmt + 1
			p.walkStatement(alt, scope)
			alternate = ir.Some(next)
		}
		p.facts.Ifs = append(p.facts.Ifs, inputs.If{
			Stmt: stmt, File: p.file, Test: test, Consequent: consequent, Alternate: alternate,
		})
		return
	case "while_statement", "do_statement":
		p.emitStatement(n, scope)
		if cond := n.ChildByFieldName("condition"); cond != nil {
			p.walkExpr(cond, scope)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			p.walkStatement(body, scope)
		}
		return
	case "for_statement", "for_in_statement":
		p.emitStatement(n, scope)
		loopScope := p.childScope(scope)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "statement_block" {
				p.walkStatements(child, loopScope)
			} else {
				p.walkExpr(child, loopScope)
			}
		}
		return
	case "return_statement":
		stmt := p.emitStatement(n, scope)
		var arg ir.Opt[ir.ExprId]
		if n.NamedChildCount() > 0 {
			arg = ir.Some(p.walkExpr(n.NamedChild(0), scope))
		}
		p.facts.Returns = append(p.facts.Returns, inputs.Return{Stmt: stmt, File: p.file, Arg: arg})
		return
	case "expression_statement":
		p.emitStatement(n, scope)
		if n.NamedChildCount() > 0 {
			p.walkExpr(n.NamedChild(0), scope)
		}
		return
	default:
		p.emitStatement(n, scope)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			p.walkStatement(n.NamedChild(i), scope)
		}
	}
}

func (p *producer) emitStatement(n *sitter.Node, scope ir.ScopeId) ir.StmtId {
	p.nextStmt++
	id := p.nextStmt
	p.facts.Statements = append(p.facts.Statements, inputs.Statement{Id: id, File: p.file, Scope: scope, Span: spanOf(n)})
	return id
}

func (p *producer) walkFunctionDecl(n *sitter.Node, scope ir.ScopeId) {
	p.nextFunc++
	id := p.nextFunc
	var name ir.Opt[ir.Name]
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = ir.Some(p.interner.Intern(nameNode.Content(p.src)))
	}
	body := p.childScope(scope)
	p.facts.Functions = append(p.facts.Functions, inputs.Function{
		Id: id, File: p.file, Name: name, Scope: scope, Body: body, Span: spanOf(n),
	})
	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p.emitFunctionArg(id, params.NamedChild(i))
		}
	}
	if bodyNode := n.ChildByFieldName("body"); bodyNode != nil {
		p.walkStatements(bodyNode, body)
	}
}

func (p *producer) emitFunctionArg(fn ir.FuncId, n *sitter.Node) {
	switch n.Type() {
	case "identifier":
		p.facts.FunctionArgs = append(p.facts.FunctionArgs, inputs.FunctionArg{
			Func: fn, File: p.file, Pattern: p.interner.Intern(n.Content(p.src)), Span: spanOf(n),
		})
	case "assignment_pattern":
		if left := n.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
			p.facts.FunctionArgs = append(p.facts.FunctionArgs, inputs.FunctionArg{
				Func: fn, File: p.file, Pattern: p.interner.Intern(left.Content(p.src)), Span: spanOf(left),
			})
		}
	case "rest_pattern":
		if id := n.NamedChild(0); id != nil && id.Type() == "identifier" {
			p.facts.FunctionArgs = append(p.facts.FunctionArgs, inputs.FunctionArg{
				Func: fn, File: p.file, Pattern: p.interner.Intern(id.Content(p.src)), Span: spanOf(id), Implicit: false,
			})
		}
	}
}

func (p *producer) walkClassDecl(n *sitter.Node, scope ir.ScopeId) {
	p.nextClass++
	id := p.nextClass
	var name ir.Opt[ir.Name]
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = ir.Some(p.interner.Intern(nameNode.Content(p.src)))
	}
	p.facts.Classes = append(p.facts.Classes, inputs.Class{
		Id: id, File: p.file, Name: name, Scope: scope, Span: spanOf(n),
	})
}

func (p *producer) walkVariableDeclaration(n *sitter.Node, scope ir.ScopeId) {
	stmt := p.emitStatement(n, scope)
	kind := "var"
	if child := n.Child(0); child != nil {
		switch child.Content(p.src) {
		case "let":
			kind = "let"
		case "const":
			kind = "const"
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		decl := n.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		p.emitDeclarator(stmt, kind, decl, scope)
	}
}

func (p *producer) emitDeclarator(stmt ir.StmtId, kind string, decl *sitter.Node, scope ir.ScopeId) {
	nameNode := decl.ChildByFieldName("name")
	var pattern ir.Opt[ir.Name]
	if nameNode != nil && nameNode.Type() == "identifier" {
		pattern = ir.Some(p.interner.Intern(nameNode.Content(p.src)))
	}
	var value ir.Opt[ir.ExprId]
	if valueNode := decl.ChildByFieldName("value"); valueNode != nil {
		value = ir.Some(p.walkExpr(valueNode, scope))
	}
	span := spanOf(decl)
	switch kind {
	case "let":
		p.facts.LetDecls = append(p.facts.LetDecls, inputs.LetDecl{Stmt: stmt, File: p.file, Pattern: pattern, Value: value, Span: span})
	case "const":
		p.facts.ConstDecls = append(p.facts.ConstDecls, inputs.ConstDecl{Stmt: stmt, File: p.file, Pattern: pattern, Value: value, Span: span})
	default:
		p.facts.VarDecls = append(p.facts.VarDecls, inputs.VarDecl{Stmt: stmt, File: p.file, Pattern: pattern, Value: value, Span: span})
	}
}

// walkExpr assigns an Expression fact to n and returns its id, recursing
// into sub-expressions as needed for the relations rules/*.go derive from.
func (p *producer) walkExpr(n *sitter.Node, scope ir.ScopeId) ir.ExprId {
	p.nextExpr++
	id := p.nextExpr
	span := spanOf(n)

	switch n.Type() {
	case "identifier":
		p.facts.Expressions = append(p.facts.Expressions, inputs.Expression{Id: id, File: p.file, Kind: inputs.ExprKind{Tag: inputs.ExprNameRef}, Scope: scope, Span: span})
		p.facts.NameRefs = append(p.facts.NameRefs, inputs.NameRef{Expr: id, File: p.file, Value: p.interner.Intern(n.Content(p.src))})
	case "parenthesized_expression":
		inner := n.NamedChild(0)
		innerId := p.walkExpr(inner, scope)
		p.facts.Expressions = append(p.facts.Expressions, inputs.Expression{Id: id, File: p.file, Kind: inputs.ExprKind{Tag: inputs.ExprGrouping, Grouping: innerId}, Scope: scope, Span: span})
	case "sequence_expression":
		var items []ir.ExprId
		for i := 0; i < int(n.NamedChildCount()); i++ {
			items = append(items, p.walkExpr(n.NamedChild(i), scope))
		}
		p.facts.Expressions = append(p.facts.Expressions, inputs.Expression{Id: id, File: p.file, Kind: inputs.ExprKind{Tag: inputs.ExprSequence, Sequence: items}, Scope: scope, Span: span})
	case "member_expression":
		p.facts.Expressions = append(p.facts.Expressions, inputs.Expression{Id: id, File: p.file, Kind: inputs.ExprKind{Tag: inputs.ExprDotAccessKind}, Scope: scope, Span: span})
		var object ir.Opt[ir.ExprId]
		if objNode := n.ChildByFieldName("object"); objNode != nil {
			object = ir.Some(p.walkExpr(objNode, scope))
		}
		var property ir.Opt[ir.Name]
		if propNode := n.ChildByFieldName("property"); propNode != nil {
			property = ir.Some(p.interner.Intern(propNode.Content(p.src)))
		}
		p.facts.DotAccesses = append(p.facts.DotAccesses, inputs.DotAccess{Expr: id, File: p.file, Object: object, Property: property})
	case "subscript_expression":
		p.facts.Expressions = append(p.facts.Expressions, inputs.Expression{Id: id, File: p.file, Kind: inputs.ExprKind{Tag: inputs.ExprBracketAccessKind}, Scope: scope, Span: span})
		var object ir.Opt[ir.ExprId]
		if objNode := n.ChildByFieldName("object"); objNode != nil {
			object = ir.Some(p.walkExpr(objNode, scope))
		}
		var property ir.Opt[ir.ExprId]
		if idxNode := n.ChildByFieldName("index"); idxNode != nil {
			property = ir.Some(p.walkExpr(idxNode, scope))
		}
		p.facts.BracketAccesses = append(p.facts.BracketAccesses, inputs.BracketAccess{Expr: id, File: p.file, Object: object, Property: property})
	case "unary_expression":
		op, ok := p.unaryOpOf(n.ChildByFieldName("operator"))
		p.facts.Expressions = append(p.facts.Expressions, inputs.Expression{Id: id, File: p.file, Kind: inputs.ExprKind{Tag: inputs.ExprUnaryOpKind}, Scope: scope, Span: span})
		if ok {
			arg := n.ChildByFieldName("argument")
			var argId ir.ExprId
			if arg != nil {
				argId = p.walkExpr(arg, scope)
			}
			p.facts.UnaryOps = append(p.facts.UnaryOps, inputs.UnaryOp{Expr: id, File: p.file, Op: op, Arg: argId})
		}
	case "call_expression":
		p.facts.Expressions = append(p.facts.Expressions, inputs.Expression{Id: id, File: p.file, Kind: inputs.ExprKind{Tag: inputs.ExprCallKind}, Scope: scope, Span: span})
		var callee ir.Opt[ir.ExprId]
		var args []ir.ExprId
		if fn := n.ChildByFieldName("function"); fn != nil {
			callee = ir.Some(p.walkExpr(fn, scope))
		}
		if argsNode := n.ChildByFieldName("arguments"); argsNode != nil {
			for i := 0; i < int(argsNode.NamedChildCount()); i++ {
				args = append(args, p.walkExpr(argsNode.NamedChild(i), scope))
			}
		}
		p.facts.Calls = append(p.facts.Calls, inputs.Call{Expr: id, File: p.file, Callee: callee, Args: args})
	case "assignment_expression":
		p.facts.Expressions = append(p.facts.Expressions, inputs.Expression{Id: id, File: p.file, Kind: inputs.ExprKind{Tag: inputs.ExprAssignKind}, Scope: scope, Span: span})
		var target ir.ExprId
		if left := n.ChildByFieldName("left"); left != nil {
			target = p.walkExpr(left, scope)
		}
		var value ir.Opt[ir.ExprId]
		if right := n.ChildByFieldName("right"); right != nil {
			value = ir.Some(p.walkExpr(right, scope))
		}
		p.facts.Assigns = append(p.facts.Assigns, inputs.Assign{Expr: id, File: p.file, Target: target, Value: value})
	case "binary_expression":
		p.facts.Expressions = append(p.facts.Expressions, inputs.Expression{Id: id, File: p.file, Kind: inputs.ExprKind{Tag: inputs.ExprBinOpKind}, Scope: scope, Span: span})
		op := ""
		if opNode := n.ChildByFieldName("operator"); opNode != nil {
			op = opNode.Content(p.src)
		}
		var left, right ir.ExprId
		if leftNode := n.ChildByFieldName("left"); leftNode != nil {
			left = p.walkExpr(leftNode, scope)
		}
		if rightNode := n.ChildByFieldName("right"); rightNode != nil {
			right = p.walkExpr(rightNode, scope)
		}
		p.facts.BinOps = append(p.facts.BinOps, inputs.BinOp{Expr: id, File: p.file, Op: op, Left: left, Right: right})
	default:
		p.facts.Expressions = append(p.facts.Expressions, inputs.Expression{Id: id, File: p.file, Kind: inputs.ExprKind{Tag: inputs.ExprNameRef}, Scope: scope, Span: span})
		for i := 0; i < int(n.NamedChildCount()); i++ {
			p.walkExpr(n.NamedChild(i), scope)
		}
	}
	return id
}

func (p *producer) unaryOpOf(opNode *sitter.Node) (inputs.UnaryOpCode, bool) {
	if opNode == nil {
		return 0, false
	}
	switch strings.TrimSpace(opNode.Content(p.src)) {
	case "typeof":
		return inputs.OpTypeof, true
	case "void":
		return inputs.OpVoid, true
	case "!":
		return inputs.OpNot, true
	case "-":
		return inputs.OpNeg, true
	case "+":
		return inputs.OpPos, true
	case "~":
		return inputs.OpBitNot, true
	case "delete":
		return inputs.OpDelete, true
	default:
		return 0, false
	}
}

// relID resolves a catalog relation name to its id. Every name passed here
// is a constant from this file, so a missing entry is a programmer error.
func relID(name string) catalog.RelationID {
	id, ok := catalog.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("tsfacts: unknown relation %q", name))
	}
	return id
}
