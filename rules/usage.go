package rules

import (
	"github.com/viant/relscope/inputs"
)

// DeriveVariableUsages joins every NameRef occurrence against NameInScope by
// (file, name, scope): for NameRef(expr,file,name) found in an Expression
// with scope=s, and NameInScope(file,name,s,...,declared,_), emit
// (file,name,s,declared). Kept distinct (spec.md §4.4).
func DeriveVariableUsages(refs []inputs.NameRef, expressions []inputs.Expression, nameInScope []NameInScope) []VariableUsages {
	scopeOf := make(map[exprFileKey]inputs.Expression, len(expressions))
	for _, e := range expressions {
		scopeOf[exprFileKey{Expr: e.Id, File: e.File}] = e
	}

	byFileScopeName := Arrange(nameInScope, func(n NameInScope) (fileScopeNameKey, bool) {
		return fileScopeNameKey{File: n.File, Scope: n.Scope, Name: n.Name}, true
	})

	seen := make(map[string]struct{})
	var out []VariableUsages
	for _, r := range refs {
		e, ok := scopeOf[exprFileKey{Expr: r.Expr, File: r.File}]
		if !ok {
			continue
		}
		for _, n := range byFileScopeName.Lookup(fileScopeNameKey{File: r.File, Scope: e.Scope, Name: r.Value}) {
			u := VariableUsages{File: r.File, Name: r.Value, Scope: e.Scope, DeclaredIn: n.DeclaredIn}
			k := u.Key()
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, u)
		}
	}
	return out
}
