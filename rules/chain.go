package rules

import (
	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/ir"
)

// DeriveChainedWith computes the transitive closure of property-chain
// access: (object, property) meaning property's expression must not be
// treated as a free reference because it is the dotted/bracketed member of
// object. Base facts require a concrete object (dot-access) or a concrete
// object and property (bracket-access, since the property there is itself
// an expression that could be a free reference in its own right and must
// resolve independently - only the *result* expression of the bracket
// access is chained).
func DeriveChainedWith(dots []inputs.DotAccess, brackets []inputs.BracketAccess) []ChainedWith {
	var seed []ChainedWith
	for _, d := range dots {
		obj, ok := d.Object.Get()
		if !ok {
			continue
		}
		seed = append(seed, ChainedWith{Object: obj, Property: d.Expr, File: d.File})
	}
	for _, b := range brackets {
		obj, ok1 := b.Object.Get()
		_, ok2 := b.Property.Get()
		if !ok1 || !ok2 {
			continue
		}
		seed = append(seed, ChainedWith{Object: obj, Property: b.Expr, File: b.File})
	}

	keyOf := func(c ChainedWith) string { return c.Key() }
	type fileExpr struct {
		Expr ir.ExprId
		File ir.FileId
	}
	byObject := Arrange(seed, func(c ChainedWith) (fileExpr, bool) {
		return fileExpr{Expr: c.Object, File: c.File}, true
	})

	fixed := FixedPoint(seed, keyOf, func(delta []ChainedWith, all map[string]ChainedWith) []ChainedWith {
		var next []ChainedWith
		for _, d := range delta {
			for _, edge := range byObject.Lookup(fileExpr{Expr: d.Property, File: d.File}) {
				next = append(next, ChainedWith{Object: d.Object, Property: edge.Property, File: d.File})
			}
		}
		return next
	})

	out := make([]ChainedWith, 0, len(fixed))
	for _, c := range fixed {
		out = append(out, c)
	}
	return out
}

// IsChainedProperty reports whether expr is the property side of some
// ChainedWith fact in file - used by NoUndef to exclude chained member
// accesses from undefined-reference diagnostics (spec.md §4.4, §8 scenario 3).
func IsChainedProperty(chained []ChainedWith, expr ir.ExprId, file ir.FileId) bool {
	for _, c := range chained {
		if c.Property == expr && c.File == file {
			return true
		}
	}
	return false
}
