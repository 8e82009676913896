package rules

import (
	"github.com/viant/relscope/ir"
)

// DeriveIsExported marks declarations exported directly by a function,
// class, var, let, or const's own flag, plus whatever a re-export clause
// resolves to through NameInScope - alias takes priority over name, and a
// clause with neither produces no tuple (spec.md §9's open question).
func DeriveIsExported(w World, nameInScope []NameInScope) []IsExported {
	var out []IsExported

	for _, f := range w.Functions {
		if f.Exported {
			out = append(out, IsExported{DeclaredIn: ir.AnyIdFunc(f.Id), File: f.File, Name: f.Name})
		}
	}
	for _, c := range w.Classes {
		if c.Exported {
			out = append(out, IsExported{DeclaredIn: ir.AnyIdClass(c.Id), File: c.File, Name: c.Name})
		}
	}
	for _, d := range w.LetDecls {
		if d.Exported {
			out = append(out, IsExported{DeclaredIn: ir.AnyIdStmt(d.Stmt), File: d.File, Name: d.Pattern})
		}
	}
	for _, d := range w.ConstDecls {
		if d.Exported {
			out = append(out, IsExported{DeclaredIn: ir.AnyIdStmt(d.Stmt), File: d.File, Name: d.Pattern})
		}
	}
	for _, d := range w.VarDecls {
		if d.Exported {
			out = append(out, IsExported{DeclaredIn: ir.AnyIdStmt(d.Stmt), File: d.File, Name: d.Pattern})
		}
	}

	byFileScopeName := Arrange(nameInScope, func(n NameInScope) (fileScopeNameKey, bool) {
		return fileScopeNameKey{File: n.File, Scope: n.Scope, Name: n.Name}, true
	})

	for _, e := range w.Exports {
		var target ir.Name
		var ok bool
		if target, ok = e.Alias.Get(); !ok {
			if target, ok = e.Name.Get(); !ok {
				continue
			}
		}
		matches := byFileScopeName.Lookup(fileScopeNameKey{File: e.File, Scope: e.Scope, Name: target})
		for _, m := range matches {
			out = append(out, IsExported{DeclaredIn: m.DeclaredIn, File: e.File, Name: ir.Some(target)})
		}
	}

	seen := make(map[string]struct{}, len(out))
	dedup := make([]IsExported, 0, len(out))
	for _, x := range out {
		k := x.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		dedup = append(dedup, x)
	}
	return dedup
}

type fileScopeNameKey struct {
	File  ir.FileId
	Scope ir.ScopeId
	Name  ir.Name
}

// IsDeclaredExported reports whether declared has any IsExported tuple.
func IsDeclaredExported(exported []IsExported, declared ir.AnyId) bool {
	for _, e := range exported {
		if e.DeclaredIn == declared {
			return true
		}
	}
	return false
}
