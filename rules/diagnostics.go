package rules

import (
	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/ir"
)

// DeriveNoUndef flags NameRef occurrences with no resolving NameInScope
// entry, excluding the property side of a ChainedWith and positions
// enclosed by typeof (spec.md §4.4). Assignment targets that are simple
// identifiers already appear as a NameRef on the same expression id and so
// are covered by the same scan; this input catalog carries no separate
// destructuring-pattern relation for the remaining assignment forms spec.md
// alludes to.
func DeriveNoUndef(refs []inputs.NameRef, expressions []inputs.Expression, nameInScope []NameInScope, chained []ChainedWith, within []WithinTypeofExpr) []NoUndef {
	scopeOf := make(map[exprFileKey]inputs.Expression, len(expressions))
	for _, e := range expressions {
		scopeOf[exprFileKey{Expr: e.Id, File: e.File}] = e
	}
	declared := KeySet(nameInScope, func(n NameInScope) (fileScopeNameKey, bool) {
		return fileScopeNameKey{File: n.File, Scope: n.Scope, Name: n.Name}, true
	})

	var out []NoUndef
	for _, r := range refs {
		e, ok := scopeOf[exprFileKey{Expr: r.Expr, File: r.File}]
		if !ok {
			continue
		}
		if e.Kind.Tag != inputs.ExprNameRef {
			continue
		}
		if IsChainedProperty(chained, r.Expr, r.File) {
			continue
		}
		if IsWithinTypeof(within, r.Expr, r.File) {
			continue
		}
		if declared.Contains(fileScopeNameKey{File: r.File, Scope: e.Scope, Name: r.Value}) {
			continue
		}
		out = append(out, NoUndef{Name: r.Value, Scope: e.Scope, Span: e.Span, File: r.File})
	}
	return out
}

// DeriveTypeofUndef is NoUndef restricted to references enclosed by typeof,
// emitting the enclosing typeof expression id instead of being excluded.
func DeriveTypeofUndef(refs []inputs.NameRef, expressions []inputs.Expression, nameInScope []NameInScope, within []WithinTypeofExpr) []TypeofUndef {
	scopeOf := make(map[exprFileKey]inputs.Expression, len(expressions))
	for _, e := range expressions {
		scopeOf[exprFileKey{Expr: e.Id, File: e.File}] = e
	}
	declared := KeySet(nameInScope, func(n NameInScope) (fileScopeNameKey, bool) {
		return fileScopeNameKey{File: n.File, Scope: n.Scope, Name: n.Name}, true
	})
	enclosing := Arrange(within, func(w WithinTypeofExpr) (exprFileKey, bool) {
		return exprFileKey{Expr: w.Expr, File: w.File}, true
	})

	var out []TypeofUndef
	for _, r := range refs {
		e, ok := scopeOf[exprFileKey{Expr: r.Expr, File: r.File}]
		if !ok {
			continue
		}
		if e.Kind.Tag != inputs.ExprNameRef {
			continue
		}
		if declared.Contains(fileScopeNameKey{File: r.File, Scope: e.Scope, Name: r.Value}) {
			continue
		}
		for _, w := range enclosing.Lookup(exprFileKey{Expr: r.Expr, File: r.File}) {
			out = append(out, TypeofUndef{Whole: w.TypeOf, Undefined: r.Expr, File: r.File})
		}
	}
	return out
}

// hoistable reports whether declared's kind is one where hoisting/TDZ
// applies: var, function, class, or let/const initialized with a class
// expression (spec.md §4.4's UseBeforeDecl rule).
func hoistable(declared ir.AnyId, w World) bool {
	switch declared.Kind {
	case ir.AnyFunc:
		return true
	case ir.AnyClass:
		return true
	case ir.AnyStmt:
		for _, d := range w.VarDecls {
			if d.Stmt == declared.Stmt {
				return true
			}
		}
		for _, d := range w.LetDecls {
			if d.Stmt == declared.Stmt {
				return classExprInitialized(d.Value, w)
			}
		}
		for _, d := range w.ConstDecls {
			if d.Stmt == declared.Stmt {
				return classExprInitialized(d.Value, w)
			}
		}
	}
	return false
}

func classExprInitialized(value ir.Opt[ir.ExprId], w World) bool {
	v, ok := value.Get()
	if !ok {
		return false
	}
	for _, c := range w.ClassExprs {
		if c.Expr == v {
			return true
		}
	}
	return false
}

func declSpan(declared ir.AnyId, w World) (ir.Span, bool) {
	switch declared.Kind {
	case ir.AnyFunc:
		for _, f := range w.Functions {
			if f.Id == declared.Func {
				return f.Span, true
			}
		}
	case ir.AnyClass:
		for _, c := range w.Classes {
			if c.Id == declared.Class {
				return c.Span, true
			}
		}
	case ir.AnyStmt:
		for _, d := range w.VarDecls {
			if d.Stmt == declared.Stmt {
				return d.Span, true
			}
		}
		for _, d := range w.LetDecls {
			if d.Stmt == declared.Stmt {
				return d.Span, true
			}
		}
		for _, d := range w.ConstDecls {
			if d.Stmt == declared.Stmt {
				return d.Span, true
			}
		}
	}
	return ir.Span{}, false
}

// baseDeclScope is the scope a declaration construct is itself textually
// written in - for var this is its own statement scope, not the function-level
// scope NameInScope promotes it to. UseBeforeDecl's "strictly descendant"
// check is defined over this textual scope (spec.md §4.4): a var promoted
// out of a nested block is still "declared in" that nested block for this
// purpose, even though its name becomes visible at the function-level scope.
func baseDeclScope(declared ir.AnyId, w World) (ir.ScopeId, bool) {
	switch declared.Kind {
	case ir.AnyFunc:
		for _, f := range w.Functions {
			if f.Id == declared.Func {
				return f.Scope, true
			}
		}
	case ir.AnyClass:
		for _, c := range w.Classes {
			if c.Id == declared.Class {
				return c.Scope, true
			}
		}
	case ir.AnyStmt:
		for _, d := range w.VarDecls {
			if d.Stmt == declared.Stmt {
				return statementScope(w, d.Stmt, d.File), true
			}
		}
		for _, d := range w.LetDecls {
			if d.Stmt == declared.Stmt {
				return statementScope(w, d.Stmt, d.File), true
			}
		}
		for _, d := range w.ConstDecls {
			if d.Stmt == declared.Stmt {
				return statementScope(w, d.Stmt, d.File), true
			}
		}
	}
	return 0, false
}

// DeriveUseBeforeDecl flags a reference that resolves, but to a declaration
// whose own scope is a strict descendant of the usage's scope, for
// hoistable declaration forms.
func DeriveUseBeforeDecl(w World, expressions []inputs.Expression, nameInScope []NameInScope, childScope []ChildScope) []UseBeforeDecl {
	scopeOf := make(map[exprFileKey]inputs.Expression, len(expressions))
	for _, e := range expressions {
		scopeOf[exprFileKey{Expr: e.Id, File: e.File}] = e
	}
	descendantOf := Arrange(childScope, func(c ChildScope) (fileScopeKey, bool) {
		return fileScopeKey{Scope: c.Parent, File: c.File}, true
	})

	var out []UseBeforeDecl
	for _, r := range w.NameRefs {
		e, ok := scopeOf[exprFileKey{Expr: r.Expr, File: r.File}]
		if !ok {
			continue
		}
		for _, n := range nameInScope {
			if n.File != r.File || n.Name != r.Value || n.Scope != e.Scope {
				continue
			}
			if !hoistable(n.DeclaredIn, w) {
				continue
			}
			dScope, ok := baseDeclScope(n.DeclaredIn, w)
			if !ok {
				continue
			}
			isStrictDescendant := false
			for _, edge := range descendantOf.Lookup(fileScopeKey{Scope: e.Scope, File: r.File}) {
				if edge.Child == dScope {
					isStrictDescendant = true
					break
				}
			}
			if !isStrictDescendant {
				continue
			}
			dSpan, ok := declSpan(n.DeclaredIn, w)
			if !ok {
				continue
			}
			out = append(out, UseBeforeDecl{
				Name: r.Value, Used: r.Expr, UsedIn: e.Span,
				Declared: n.DeclaredIn, DeclaredIn: dSpan, File: r.File,
			})
		}
	}
	return out
}

// DeriveUnusedVariables flags a non-implicit NameInScope declaration that is
// not exported and has no VariableUsages match. The not-exported and
// no-usage legs are genuinely independent rule conditions (spec.md §4.4
// treats "not exported" and "not used" as two separate join legs feeding
// the same antijoin), so candidates are filtered down to declarations that
// survive the first leg and then run through the antijoin primitive for
// the second.
func DeriveUnusedVariables(nameInScope []NameInScope, exported []IsExported, usages []VariableUsages) []UnusedVariables {
	used := KeySet(usages, func(u VariableUsages) (declUsageKey, bool) {
		return declUsageKey{File: u.File, DeclaredIn: u.DeclaredIn}, true
	})

	candidates := FilterMap(nameInScope, func(n NameInScope) (NameInScope, bool) {
		if n.Implicit {
			return n, false
		}
		if _, ok := n.Span.Get(); !ok {
			return n, false
		}
		if IsDeclaredExported(exported, n.DeclaredIn) {
			return n, false
		}
		return n, true
	})
	unreferenced := Antijoin(candidates, used, func(n NameInScope) (declUsageKey, bool) {
		return declUsageKey{File: n.File, DeclaredIn: n.DeclaredIn}, true
	})

	seen := make(map[string]struct{})
	var out []UnusedVariables
	for _, n := range unreferenced {
		span, _ := n.Span.Get()
		u := UnusedVariables{Name: n.Name, Declared: n.DeclaredIn, Span: span, File: n.File}
		k := u.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, u)
	}
	return out
}

type declUsageKey struct {
	File       ir.FileId
	DeclaredIn ir.AnyId
}
