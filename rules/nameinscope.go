package rules

import (
	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/ir"
)

// DeriveNameInScope computes name visibility: every base declaration fact
// at its declaring scope, propagated downward through ChildScope (spec.md
// §4.4's "Name visibility" rule family).
func DeriveNameInScope(w World, childScope []ChildScope, fls []FunctionLevelScope) []NameInScope {
	var base []NameInScope

	// Implicit globals: visible in every scope of their file, no span.
	for _, g := range w.ImplicitGlobals {
		for _, s := range w.EveryScope {
			if s.File != g.File {
				continue
			}
			base = append(base, NameInScope{
				File: g.File, Name: g.Name, Scope: s.Scope,
				Span: ir.None[ir.Span](), DeclaredIn: ir.AnyIdGlobal(g.Id), Implicit: true,
			})
		}
	}

	// Imports: one fact per free variable extracted from the clause.
	for _, imp := range w.Imports {
		for _, bound := range imp.Imports {
			base = append(base, NameInScope{
				File: imp.File, Name: bound.Local, Scope: imp.Scope,
				Span: ir.None[ir.Span](), DeclaredIn: ir.AnyIdImport(bound.Import), Implicit: false,
			})
		}
	}

	// Classes declared by statement: unnamed classes contribute no tuple.
	for _, c := range w.Classes {
		name, ok := c.Name.Get()
		if !ok {
			continue
		}
		base = append(base, NameInScope{
			File: c.File, Name: name, Scope: c.Scope,
			Span: ir.Some(c.Span), DeclaredIn: ir.AnyIdClass(c.Id), Implicit: false,
		})
	}

	// let/const: at their statement's scope.
	for _, d := range w.LetDecls {
		name, ok := d.Pattern.Get()
		if !ok {
			continue
		}
		base = append(base, NameInScope{
			File: d.File, Name: name, Scope: statementScope(w, d.Stmt, d.File),
			Span: ir.Some(d.Span), DeclaredIn: ir.AnyIdStmt(d.Stmt), Implicit: false,
		})
	}
	for _, d := range w.ConstDecls {
		name, ok := d.Pattern.Get()
		if !ok {
			continue
		}
		base = append(base, NameInScope{
			File: d.File, Name: name, Scope: statementScope(w, d.Stmt, d.File),
			Span: ir.Some(d.Span), DeclaredIn: ir.AnyIdStmt(d.Stmt), Implicit: false,
		})
	}

	// var: promoted to the function-level scope.
	for _, d := range w.VarDecls {
		name, ok := d.Pattern.Get()
		if !ok {
			continue
		}
		declScope := statementScope(w, d.Stmt, d.File)
		nearest, ok := NearestFunctionLevelScope(fls, declScope, d.File)
		if !ok {
			nearest = declScope
		}
		base = append(base, NameInScope{
			File: d.File, Name: name, Scope: nearest,
			Span: ir.Some(d.Span), DeclaredIn: ir.AnyIdStmt(d.Stmt), Implicit: false,
		})
	}

	// Function declarations: at their enclosing scope.
	for _, f := range w.Functions {
		name, ok := f.Name.Get()
		if !ok {
			continue
		}
		base = append(base, NameInScope{
			File: f.File, Name: name, Scope: f.Scope,
			Span: ir.Some(f.Span), DeclaredIn: ir.AnyIdFunc(f.Id), Implicit: false,
		})
	}

	// Function parameters: at the function body scope.
	for _, a := range w.FunctionArgs {
		base = append(base, NameInScope{
			File: a.File, Name: a.Pattern, Scope: functionBodyScope(w, a.Func),
			Span: ir.Some(a.Span), DeclaredIn: ir.AnyIdFunc(a.Func), Implicit: a.Implicit,
		})
	}

	// Arrow parameters: at the arrow body's scope.
	for _, p := range w.ArrowParams {
		scope, ok := arrowBodyScope(w, p.Arrow, p.File)
		if !ok {
			continue
		}
		base = append(base, NameInScope{
			File: p.File, Name: p.Pattern, Scope: scope,
			Span: ir.Some(p.Span), DeclaredIn: ir.AnyIdExpr(p.Arrow), Implicit: p.Implicit,
		})
	}

	// Inline-function name and parameters: at the function body scope.
	for _, f := range w.InlineFuncs {
		if name, ok := f.Name.Get(); ok {
			base = append(base, NameInScope{
				File: f.File, Name: name, Scope: f.Body,
				Span: ir.None[ir.Span](), DeclaredIn: ir.AnyIdExpr(f.Expr), Implicit: false,
			})
		}
	}
	for _, p := range w.InlineFuncArgs {
		base = append(base, NameInScope{
			File: p.File, Name: p.Pattern, Scope: inlineFuncBodyScope(w, p.Func),
			Span: ir.Some(p.Span), DeclaredIn: ir.AnyIdExpr(p.Func), Implicit: p.Implicit,
		})
	}

	// catch clause error-binding: at the catcher statement's scope.
	for _, t := range w.Tries {
		name, ok := t.Handler.Error.Get()
		if !ok {
			continue
		}
		base = append(base, NameInScope{
			File: t.File, Name: name, Scope: t.CatchScope,
			Span: ir.Some(t.Handler.ErrorSpan), DeclaredIn: ir.AnyIdStmt(t.Stmt), Implicit: false,
		})
	}

	byFromFile := Arrange(childScope, func(c ChildScope) (fileScopeKey, bool) {
		return fileScopeKey{Scope: c.Parent, File: c.File}, true
	})

	out := make([]NameInScope, 0, len(base)*2)
	seen := make(map[string]struct{}, len(base)*2)
	add := func(n NameInScope) {
		k := n.Key()
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, n)
	}
	for _, n := range base {
		add(n)
		for _, edge := range byFromFile.Lookup(fileScopeKey{Scope: n.Scope, File: n.File}) {
			add(NameInScope{
				File: n.File, Name: n.Name, Scope: edge.Child,
				Span: n.Span, DeclaredIn: n.DeclaredIn, Implicit: n.Implicit,
			})
		}
	}
	return out
}

func statementScope(w World, stmt ir.StmtId, file ir.FileId) ir.ScopeId {
	for _, s := range w.Statements {
		if s.Id == stmt && s.File == file {
			return s.Scope
		}
	}
	for _, f := range w.Files {
		if f.Id == file {
			return f.Scope
		}
	}
	return 0
}

func functionBodyScope(w World, fn ir.FuncId) ir.ScopeId {
	for _, f := range w.Functions {
		if f.Id == fn {
			return f.Body
		}
	}
	return 0
}

func inlineFuncBodyScope(w World, expr ir.ExprId) ir.ScopeId {
	for _, f := range w.InlineFuncs {
		if f.Expr == expr {
			return f.Body
		}
	}
	return 0
}

func arrowBodyScope(w World, arrow ir.ExprId, file ir.FileId) (ir.ScopeId, bool) {
	for _, a := range w.Arrows {
		if a.Expr != arrow || a.File != file {
			continue
		}
		body, ok := a.Body.Get()
		if !ok {
			return 0, false
		}
		if body.IsExpr {
			for _, e := range w.Expressions {
				if e.Id == body.Expr && e.File == file {
					return e.Scope, true
				}
			}
			return 0, false
		}
		for _, s := range w.Statements {
			if s.Id == body.Stmt && s.File == file {
				return s.Scope, true
			}
		}
		return 0, false
	}
	return 0, false
}
