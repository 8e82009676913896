package rules

import (
	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/ir"
)

// fileScopeKey pairs a scope with its file, since scope ids are only
// unique within a file (spec.md §3: "unique within their kind").
type fileScopeKey struct {
	Scope ir.ScopeId
	File  ir.FileId
}

// DeriveChildScope computes the transitive, irreflexive closure of
// InputScope within each file (spec.md §4.4's scope-nesting closure
// stratum). A scope can never be its own ancestor: the base and step rules
// both exclude parent == child, so a self-referencing InputScope tuple
// produces no ChildScope tuple at all (spec.md §8's boundary case).
func DeriveChildScope(scopes []inputs.InputScope) []ChildScope {
	seed := make([]ChildScope, 0, len(scopes))
	for _, s := range scopes {
		if s.Parent == s.Child {
			continue
		}
		seed = append(seed, ChildScope{Parent: s.Parent, Child: s.Child, File: s.File})
	}

	keyOf := func(c ChildScope) string { return c.Key() }
	byParentPerFile := Arrange(scopes, func(s inputs.InputScope) (fileScopeKey, bool) {
		return fileScopeKey{Scope: s.Parent, File: s.File}, true
	})

	fixed := FixedPoint(seed, keyOf, func(delta []ChildScope, all map[string]ChildScope) []ChildScope {
		var next []ChildScope
		for _, d := range delta {
			// InputScope(d.Child, m, file) together with ChildScope(parent,
			// child=m-ancestor...) - we extend from the *child* end: for
			// every direct child of d.Child, d.Parent reaches it too.
			for _, edge := range byParentPerFile.Lookup(fileScopeKey{Scope: d.Child, File: d.File}) {
				if d.Parent == edge.Child {
					continue
				}
				next = append(next, ChildScope{Parent: d.Parent, Child: edge.Child, File: d.File})
			}
		}
		return next
	})

	out := make([]ChildScope, 0, len(fixed))
	for _, c := range fixed {
		out = append(out, c)
	}
	return out
}

// DeriveFunctionLevelScope anchors every scope to its nearest enclosing
// function body or file scope. Propagation walks direct InputScope edges
// (not the already-closed ChildScope) in a multi-source breadth-first
// spread from every base anchor: a scope that is itself a function body or
// file scope is seeded with itself before the spread starts, so an outer
// anchor reaching it through its parent never overwrites it and the spread
// naturally halts at the first function boundary it meets on the way down.
func DeriveFunctionLevelScope(functions []inputs.Function, files []inputs.File, scopes []inputs.InputScope) []FunctionLevelScope {
	assigned := make(map[fileScopeKey]FunctionLevelScope)
	var queue []FunctionLevelScope

	seed := func(fls FunctionLevelScope) {
		k := fileScopeKey{Scope: fls.Scope, File: fls.File}
		if _, ok := assigned[k]; ok {
			return
		}
		assigned[k] = fls
		queue = append(queue, fls)
	}
	for _, f := range functions {
		seed(FunctionLevelScope{Scope: f.Body, Nearest: f.Body, File: f.File, Id: ir.AnyIdFunc(f.Id)})
	}
	for _, f := range files {
		seed(FunctionLevelScope{Scope: f.Scope, Nearest: f.Scope, File: f.Id, Id: ir.AnyIdFile(f.Id)})
	}

	byParent := Arrange(scopes, func(s inputs.InputScope) (fileScopeKey, bool) {
		return fileScopeKey{Scope: s.Parent, File: s.File}, true
	})

	for i := 0; i < len(queue); i++ {
		cur := queue[i]
		for _, edge := range byParent.Lookup(fileScopeKey{Scope: cur.Scope, File: cur.File}) {
			childKey := fileScopeKey{Scope: edge.Child, File: cur.File}
			if _, ok := assigned[childKey]; ok {
				continue
			}
			child := FunctionLevelScope{Scope: edge.Child, Nearest: cur.Nearest, File: cur.File, Id: cur.Id}
			assigned[childKey] = child
			queue = append(queue, child)
		}
	}

	out := make([]FunctionLevelScope, 0, len(assigned))
	for _, fls := range assigned {
		out = append(out, fls)
	}
	return out
}

// NearestFunctionLevelScope returns the function/file anchor scope is
// classified under, used by NameInScope's var-declaration promotion rule.
func NearestFunctionLevelScope(fls []FunctionLevelScope, scope ir.ScopeId, file ir.FileId) (ir.ScopeId, bool) {
	for _, f := range fls {
		if f.Scope == scope && f.File == file {
			return f.Nearest, true
		}
	}
	return 0, false
}
