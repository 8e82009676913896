package rules

import (
	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/ir"
)

type exprFileKey struct {
	Expr ir.ExprId
	File ir.FileId
}

// DeriveWithinTypeofExpr relates a typeof expression to every expression
// reached by unwrapping it through parenthesized groupings and the final
// element of comma sequences - the positions where an undeclared reference
// is exempt from NoUndef (spec.md §4.4, §8 scenario 4). An empty sequence
// unwraps to nothing, terminating that branch with no fact (spec.md §9).
func DeriveWithinTypeofExpr(unaryOps []inputs.UnaryOp, expressions []inputs.Expression) []WithinTypeofExpr {
	byExpr := make(map[exprFileKey]inputs.Expression, len(expressions))
	for _, e := range expressions {
		byExpr[exprFileKey{Expr: e.Id, File: e.File}] = e
	}

	var seed []WithinTypeofExpr
	for _, u := range unaryOps {
		if u.Op != inputs.OpTypeof {
			continue
		}
		seed = append(seed, WithinTypeofExpr{TypeOf: u.Expr, Expr: u.Arg, File: u.File})
	}

	keyOf := func(w WithinTypeofExpr) string { return w.Key() }
	unwrap := func(w WithinTypeofExpr) (WithinTypeofExpr, bool) {
		e, ok := byExpr[exprFileKey{Expr: w.Expr, File: w.File}]
		if !ok {
			return WithinTypeofExpr{}, false
		}
		switch e.Kind.Tag {
		case inputs.ExprGrouping:
			return WithinTypeofExpr{TypeOf: w.TypeOf, Expr: e.Kind.Grouping, File: w.File}, true
		case inputs.ExprSequence:
			if len(e.Kind.Sequence) == 0 {
				return WithinTypeofExpr{}, false
			}
			last := e.Kind.Sequence[len(e.Kind.Sequence)-1]
			return WithinTypeofExpr{TypeOf: w.TypeOf, Expr: last, File: w.File}, true
		default:
			return WithinTypeofExpr{}, false
		}
	}

	fixed := FixedPoint(seed, keyOf, func(delta []WithinTypeofExpr, all map[string]WithinTypeofExpr) []WithinTypeofExpr {
		var next []WithinTypeofExpr
		for _, d := range delta {
			if w, ok := unwrap(d); ok {
				next = append(next, w)
			}
		}
		return next
	})

	out := make([]WithinTypeofExpr, 0, len(fixed))
	for _, w := range fixed {
		out = append(out, w)
	}
	return out
}

// IsWithinTypeof reports whether expr is reached by unwrapping some typeof
// expression in file - used by NoUndef to exempt those positions.
func IsWithinTypeof(within []WithinTypeofExpr, expr ir.ExprId, file ir.FileId) bool {
	for _, w := range within {
		if w.Expr == expr && w.File == file {
			return true
		}
	}
	return false
}
