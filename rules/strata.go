package rules

import "fmt"

// Relation names a derived relation for the purpose of describing the rule
// graph's dependency shape; it plays no role in evaluation itself, which
// Evaluate (graph.go) still carries out with concrete, statically-typed
// calls into the Derive* functions.
type Relation string

const (
	RelChildScope         Relation = "ChildScope"
	RelFunctionLevelScope Relation = "FunctionLevelScope"
	RelChainedWith        Relation = "ChainedWith"
	RelWithinTypeofExpr   Relation = "WithinTypeofExpr"
	RelNameInScope        Relation = "NameInScope"
	RelIsExported         Relation = "IsExported"
	RelVariableUsages     Relation = "VariableUsages"
	RelNoUndef            Relation = "NoUndef"
	RelTypeofUndef        Relation = "TypeofUndef"
	RelUseBeforeDecl      Relation = "UseBeforeDecl"
	RelUnusedVariables    Relation = "UnusedVariables"
)

// Rule is one node of the declarative rule graph: the relation it produces,
// the relations it joins or recurses over (Reads), and the relations it
// consults only to exclude matches (Antijoin). Reads and Antijoin overlap
// freely - UnusedVariables both reads VariableUsages (by implication, via
// the candidate/antijoin split in DeriveUnusedVariables) and antijoins it.
type Rule struct {
	Produces Relation
	Reads    []Relation
	Antijoin []Relation
}

// Stratum is a set of rules safe to evaluate together: every rule in a
// stratum depends only on relations produced in a strictly earlier
// stratum, so nothing within the stratum can observe another rule of the
// same stratum's output, positively or negatively (spec.md §4.4's
// stratification requirement).
type Stratum struct {
	Rules []Rule
}

// Graph is the full stratified rule graph. It exists to give the
// dependency structure Evaluate's hand-written fan-out already implements
// a validated, inspectable shape - a change that introduces a same-stratum
// antijoin is caught at process start rather than as a subtle evaluation
// bug.
type Graph struct {
	Strata []Stratum
}

var ruleGraph Graph

func init() {
	g := buildGraph()
	if err := validateGraph(g); err != nil {
		panic(err)
	}
	ruleGraph = g
}

// RuleGraph returns the build-once, validated rule graph described above.
func RuleGraph() Graph { return ruleGraph }

// buildGraph mirrors Evaluate's strata exactly: same membership, same
// dependency edges. Keep the two in sync by hand - this is metadata about
// Evaluate, not a graph it is interpreted from.
func buildGraph() Graph {
	return Graph{
		Strata: []Stratum{
			{Rules: []Rule{
				{Produces: RelChildScope},
				{Produces: RelFunctionLevelScope},
				{Produces: RelChainedWith},
				{Produces: RelWithinTypeofExpr},
			}},
			{Rules: []Rule{
				{Produces: RelNameInScope, Reads: []Relation{RelChildScope, RelFunctionLevelScope}},
			}},
			{Rules: []Rule{
				{Produces: RelIsExported, Reads: []Relation{RelNameInScope}},
				{Produces: RelVariableUsages, Reads: []Relation{RelNameInScope}},
			}},
			{Rules: []Rule{
				{Produces: RelNoUndef, Reads: []Relation{RelNameInScope, RelChainedWith, RelWithinTypeofExpr}, Antijoin: []Relation{RelNameInScope}},
				{Produces: RelTypeofUndef, Reads: []Relation{RelNameInScope, RelWithinTypeofExpr}, Antijoin: []Relation{RelNameInScope}},
				{Produces: RelUseBeforeDecl, Reads: []Relation{RelNameInScope, RelChildScope}},
				{Produces: RelUnusedVariables, Reads: []Relation{RelNameInScope, RelIsExported, RelVariableUsages}, Antijoin: []Relation{RelVariableUsages}},
			}},
		},
	}
}

// validateGraph rejects any stratum whose rule antijoins a relation
// produced elsewhere in that same stratum. An antijoin can only exclude
// against a relation that has already fully settled, which requires it to
// come from a strictly earlier stratum than the rule doing the excluding.
func validateGraph(g Graph) error {
	for i, stratum := range g.Strata {
		produced := make(map[Relation]bool, len(stratum.Rules))
		for _, r := range stratum.Rules {
			produced[r.Produces] = true
		}
		for _, r := range stratum.Rules {
			for _, neg := range r.Antijoin {
				if produced[neg] {
					return fmt.Errorf("rules: stratum %d: %s antijoins %s, produced in the same stratum", i, r.Produces, neg)
				}
			}
		}
	}
	return nil
}
