package rules

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result holds every derived relation produced from one World snapshot.
type Result struct {
	ChildScope         []ChildScope
	FunctionLevelScope []FunctionLevelScope
	ChainedWith        []ChainedWith
	WithinTypeofExpr   []WithinTypeofExpr
	NameInScope        []NameInScope
	IsExported         []IsExported
	VariableUsages     []VariableUsages
	NoUndef            []NoUndef
	TypeofUndef        []TypeofUndef
	UseBeforeDecl      []UseBeforeDecl
	UnusedVariables    []UnusedVariables
}

// Evaluate runs the full rule graph over w, stratum by stratum, fanning out
// the mutually independent relations of each stratum across goroutines
// (spec.md §5's worker-pool concurrency model, adapted here to relscope's
// full re-derivation-per-commit strategy: one fork-join pass per commit
// rather than per-delta). Negation (antijoin) never crosses a stratum
// boundary backwards here - every Derive* function only reads relations
// computed in a strictly earlier stratum, satisfying stratified negation
// by construction.
func Evaluate(ctx context.Context, w World) (Result, error) {
	var res Result

	// Stratum 1: ChildScope, FunctionLevelScope, ChainedWith and
	// WithinTypeofExpr are mutually independent - each reads only base
	// inputs, none of the others' outputs.
	g1, _ := errgroup.WithContext(ctx)
	g1.Go(func() error {
		res.ChildScope = DeriveChildScope(w.InputScope)
		return nil
	})
	g1.Go(func() error {
		res.FunctionLevelScope = DeriveFunctionLevelScope(w.Functions, w.Files, w.InputScope)
		return nil
	})
	g1.Go(func() error {
		res.ChainedWith = DeriveChainedWith(w.DotAccesses, w.BracketAccesses)
		return nil
	})
	g1.Go(func() error {
		res.WithinTypeofExpr = DeriveWithinTypeofExpr(w.UnaryOps, w.Expressions)
		return nil
	})
	if err := g1.Wait(); err != nil {
		return Result{}, err
	}

	// Stratum 2: NameInScope needs ChildScope and FunctionLevelScope.
	res.NameInScope = DeriveNameInScope(w, res.ChildScope, res.FunctionLevelScope)

	// Stratum 3: IsExported and VariableUsages both read NameInScope only.
	g4, _ := errgroup.WithContext(ctx)
	g4.Go(func() error {
		res.IsExported = DeriveIsExported(w, res.NameInScope)
		return nil
	})
	g4.Go(func() error {
		res.VariableUsages = DeriveVariableUsages(w.NameRefs, w.Expressions, res.NameInScope)
		return nil
	})
	if err := g4.Wait(); err != nil {
		return Result{}, err
	}

	// Stratum 4: the diagnostics. NoUndef, TypeofUndef and UseBeforeDecl
	// depend only on strata 1-2; UnusedVariables additionally needs
	// stratum 3's outputs, but nothing downstream feeds back into them, so
	// all four can still run in one fan-out.
	g5, _ := errgroup.WithContext(ctx)
	g5.Go(func() error {
		res.NoUndef = DeriveNoUndef(w.NameRefs, w.Expressions, res.NameInScope, res.ChainedWith, res.WithinTypeofExpr)
		return nil
	})
	g5.Go(func() error {
		res.TypeofUndef = DeriveTypeofUndef(w.NameRefs, w.Expressions, res.NameInScope, res.WithinTypeofExpr)
		return nil
	})
	g5.Go(func() error {
		res.UseBeforeDecl = DeriveUseBeforeDecl(w, w.Expressions, res.NameInScope, res.ChildScope)
		return nil
	})
	g5.Go(func() error {
		res.UnusedVariables = DeriveUnusedVariables(res.NameInScope, res.IsExported, res.VariableUsages)
		return nil
	})
	if err := g5.Wait(); err != nil {
		return Result{}, err
	}

	return res, nil
}
