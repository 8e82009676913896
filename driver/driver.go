// Package driver implements the incremental driver (C5): the
// Idle/Transaction/Committing state machine of spec.md §4.5 over the full
// relation store. Because relscope re-derives every output relation from
// scratch on commit (see rules.World's doc comment), rollback here is
// trivial by construction: a transaction's updates are validated against
// every target relation's schema before any table is mutated, so an
// aborted commit never touches live state and "restoring pre-commit state"
// is simply declining to apply the buffer.
package driver

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/relscope/catalog"
	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/relation"
	"github.com/viant/relscope/relerr"
	"github.com/viant/relscope/rules"
)

// State is the driver's transaction state.
type State uint8

const (
	Idle State = iota
	Transaction
	Committing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Transaction:
		return "Transaction"
	case Committing:
		return "Committing"
	default:
		return "Unknown"
	}
}

// UpdateKind is the shape of one buffered change, per spec.md §4.6.
type UpdateKind uint8

const (
	Insert UpdateKind = iota
	DeleteValue
	DeleteKey
	Modify
)

// Update is one entry of an apply_updates call.
type Update struct {
	Kind     UpdateKind
	Relation catalog.RelationID
	Tuple    relation.Tuple
	Key      string
}

type pendingDelta struct {
	tuple relation.Tuple
	delta int32
}

// Driver owns every relation table - input tables the AST producer writes
// to directly, and derived tables the rule graph replaces wholesale on
// commit - plus the transaction buffer.
type Driver struct {
	mu      sync.Mutex
	state   State
	stopped bool

	store *relation.Store[catalog.RelationID]

	inputScope      *relation.Table[inputs.InputScope]
	files           *relation.Table[inputs.File]
	everyScope      *relation.Table[inputs.EveryScope]
	statements      *relation.Table[inputs.Statement]
	functions       *relation.Table[inputs.Function]
	functionArgs    *relation.Table[inputs.FunctionArg]
	arrows          *relation.Table[inputs.Arrow]
	arrowParams     *relation.Table[inputs.ArrowParam]
	inlineFuncs     *relation.Table[inputs.InlineFunc]
	inlineFuncArgs  *relation.Table[inputs.InlineFuncParam]
	letDecls        *relation.Table[inputs.LetDecl]
	constDecls      *relation.Table[inputs.ConstDecl]
	varDecls        *relation.Table[inputs.VarDecl]
	classes         *relation.Table[inputs.Class]
	classExprs      *relation.Table[inputs.ClassExpr]
	implicitGlobals *relation.Table[inputs.ImplicitGlobal]
	imports         *relation.Table[inputs.ImportDecl]
	exports         *relation.Table[inputs.FileExport]
	tries           *relation.Table[inputs.Try]
	expressions     *relation.Table[inputs.Expression]
	nameRefs        *relation.Table[inputs.NameRef]
	dotAccesses     *relation.Table[inputs.DotAccess]
	bracketAccesses *relation.Table[inputs.BracketAccess]
	unaryOps        *relation.Table[inputs.UnaryOp]

	childScope         *relation.Table[rules.ChildScope]
	functionLevelScope *relation.Table[rules.FunctionLevelScope]
	chainedWith        *relation.Table[rules.ChainedWith]
	withinTypeofExpr   *relation.Table[rules.WithinTypeofExpr]
	nameInScope        *relation.Table[rules.NameInScope]
	isExported         *relation.Table[rules.IsExported]
	variableUsages     *relation.Table[rules.VariableUsages]
	noUndef            *relation.Table[rules.NoUndef]
	typeofUndef        *relation.Table[rules.TypeofUndef]
	useBeforeDecl      *relation.Table[rules.UseBeforeDecl]
	unusedVariables    *relation.Table[rules.UnusedVariables]

	pending map[catalog.RelationID][]pendingDelta
}

func register[T relation.Tuple](d *Driver, id catalog.RelationID, input, distinct bool) *relation.Table[T] {
	name, _ := catalog.Name(id)
	table := relation.NewTable[T](name, input, distinct, false)
	d.store.Register(id, table)
	return table
}

// New builds a Driver with every relation of the catalog registered, ready
// to accept transactions. All input relations are distinct (set-semantics)
// except where a relation is genuinely positional (none in this core); all
// output relations are distinct per spec.md invariant 1.
func New() *Driver {
	d := &Driver{store: relation.NewStore[catalog.RelationID](), pending: make(map[catalog.RelationID][]pendingDelta)}

	d.inputScope = register[inputs.InputScope](d, catalog.InputInputScope, true, true)
	d.files = register[inputs.File](d, catalog.InputFile, true, true)
	d.everyScope = register[inputs.EveryScope](d, catalog.InputEveryScope, true, true)
	d.statements = register[inputs.Statement](d, catalog.InputStatement, true, true)
	d.functions = register[inputs.Function](d, catalog.InputFunction, true, true)
	d.functionArgs = register[inputs.FunctionArg](d, catalog.InputFunctionArg, true, true)
	d.arrows = register[inputs.Arrow](d, catalog.InputArrow, true, true)
	d.arrowParams = register[inputs.ArrowParam](d, catalog.InputArrowParam, true, true)
	d.inlineFuncs = register[inputs.InlineFunc](d, catalog.InputInlineFunc, true, true)
	d.inlineFuncArgs = register[inputs.InlineFuncParam](d, catalog.InputInlineFuncParam, true, true)
	d.letDecls = register[inputs.LetDecl](d, catalog.InputLetDecl, true, true)
	d.constDecls = register[inputs.ConstDecl](d, catalog.InputConstDecl, true, true)
	d.varDecls = register[inputs.VarDecl](d, catalog.InputVarDecl, true, true)
	d.classes = register[inputs.Class](d, catalog.InputClass, true, true)
	d.classExprs = register[inputs.ClassExpr](d, catalog.InputClassExpr, true, true)
	d.implicitGlobals = register[inputs.ImplicitGlobal](d, catalog.InputImplicitGlobal, true, true)
	d.imports = register[inputs.ImportDecl](d, catalog.InputImportDecl, true, true)
	d.exports = register[inputs.FileExport](d, catalog.InputFileExport, true, true)
	d.tries = register[inputs.Try](d, catalog.InputTry, true, true)
	d.expressions = register[inputs.Expression](d, catalog.InputExpression, true, true)
	d.nameRefs = register[inputs.NameRef](d, catalog.InputNameRef, true, true)
	d.dotAccesses = register[inputs.DotAccess](d, catalog.InputDotAccess, true, true)
	d.bracketAccesses = register[inputs.BracketAccess](d, catalog.InputBracketAccess, true, true)
	d.unaryOps = register[inputs.UnaryOp](d, catalog.InputUnaryOp, true, true)

	// The remaining input kinds round out the catalog (spec.md §6) but feed
	// no rule directly; they still accept inserts/deletes and participate
	// in dump_table, just via the generic store rather than a named field.
	register[inputs.Array](d, catalog.InputArray, true, true)
	register[inputs.Assign](d, catalog.InputAssign, true, true)
	register[inputs.Await](d, catalog.InputAwait, true, true)
	register[inputs.BinOp](d, catalog.InputBinOp, true, true)
	register[inputs.Break](d, catalog.InputBreak, true, true)
	register[inputs.Call](d, catalog.InputCall, true, true)
	register[inputs.Continue](d, catalog.InputContinue, true, true)
	register[inputs.DoWhile](d, catalog.InputDoWhile, true, true)
	register[inputs.ExprBigInt](d, catalog.InputExprBigInt, true, true)
	register[inputs.ExprBool](d, catalog.InputExprBool, true, true)
	register[inputs.ExprNumber](d, catalog.InputExprNumber, true, true)
	register[inputs.ExprString](d, catalog.InputExprString, true, true)
	register[inputs.For](d, catalog.InputFor, true, true)
	register[inputs.ForIn](d, catalog.InputForIn, true, true)
	register[inputs.If](d, catalog.InputIf, true, true)
	register[inputs.Label](d, catalog.InputLabel, true, true)
	register[inputs.New](d, catalog.InputNew, true, true)
	register[inputs.Property](d, catalog.InputProperty, true, true)
	register[inputs.Return](d, catalog.InputReturn, true, true)
	register[inputs.Switch](d, catalog.InputSwitch, true, true)
	register[inputs.SwitchCase](d, catalog.InputSwitchCase, true, true)
	register[inputs.Template](d, catalog.InputTemplate, true, true)
	register[inputs.Ternary](d, catalog.InputTernary, true, true)
	register[inputs.Throw](d, catalog.InputThrow, true, true)
	register[inputs.While](d, catalog.InputWhile, true, true)
	register[inputs.With](d, catalog.InputWith, true, true)
	register[inputs.Yield](d, catalog.InputYield, true, true)

	d.childScope = register[rules.ChildScope](d, catalog.ChildScope, false, true)
	d.functionLevelScope = register[rules.FunctionLevelScope](d, catalog.FunctionLevelScope, false, true)
	d.chainedWith = register[rules.ChainedWith](d, catalog.ChainedWith, false, true)
	d.withinTypeofExpr = register[rules.WithinTypeofExpr](d, catalog.WithinTypeofExpr, false, true)
	d.nameInScope = register[rules.NameInScope](d, catalog.NameInScope, false, true)
	d.isExported = register[rules.IsExported](d, catalog.IsExported, false, true)
	d.variableUsages = register[rules.VariableUsages](d, catalog.VariableUsages, false, true)
	d.noUndef = register[rules.NoUndef](d, catalog.NoUndef, false, true)
	d.typeofUndef = register[rules.TypeofUndef](d, catalog.TypeofUndef, false, true)
	d.useBeforeDecl = register[rules.UseBeforeDecl](d, catalog.UseBeforeDecl, false, true)
	d.unusedVariables = register[rules.UnusedVariables](d, catalog.UnusedVariables, false, true)

	return d
}

// Store exposes the generic relation store for id-based dispatch (package engine).
func (d *Driver) Store() *relation.Store[catalog.RelationID] { return d.store }

// State reports the driver's current transaction state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Start brings a Driver built by New into (or back into) the running state
// that accepts transactions. A fresh Driver is already running, so Start
// is only needed to resume one previously taken down with Stop; calling it
// on a running Driver is a no-op.
func (d *Driver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = false
	return nil
}

// Stop takes the Driver out of the running state: any transaction left
// pending is discarded and the Driver returns to Idle, and every
// subsequent StartTransaction fails until the next Start. It is the outer
// lifecycle bookend of spec.md §6's Public API, distinct from the
// per-transaction StartTransaction/Commit pair below.
func (d *Driver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.state = Idle
	d.pending = make(map[catalog.RelationID][]pendingDelta)
	return nil
}

// StartTransaction moves Idle -> Transaction, allocating a fresh delta buffer.
func (d *Driver) StartTransaction() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return relerr.NewTransactionState("Started", "Stopped")
	}
	if d.state != Idle {
		return relerr.NewTransactionState(Idle.String(), d.state.String())
	}
	d.state = Transaction
	d.pending = make(map[catalog.RelationID][]pendingDelta)
	return nil
}

// Apply buffers one update. Only Insert and DeleteValue are supported by
// any relation in this core - no relation exposes a lookup-by-key
// operation separate from structural equality, so DeleteKey is always
// UnsupportedUpdate, and Modify has no mutator protocol defined at this
// layer (spec.md §4.6's "the core supports the subset actually referenced
// by its rules").
func (d *Driver) Apply(u Update) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Transaction {
		return relerr.NewTransactionState(Transaction.String(), d.state.String())
	}
	table, ok := d.store.Table(u.Relation)
	if !ok {
		return relerr.NewUnknownRelation(u.Relation)
	}
	switch u.Kind {
	case Insert:
		if !table.MatchesType(u.Tuple) {
			return relerr.NewSchemaMismatch(table.Name(), u.Tuple, u.Tuple)
		}
		d.pending[u.Relation] = append(d.pending[u.Relation], pendingDelta{tuple: u.Tuple, delta: +1})
	case DeleteValue:
		if !table.MatchesType(u.Tuple) {
			return relerr.NewSchemaMismatch(table.Name(), u.Tuple, u.Tuple)
		}
		d.pending[u.Relation] = append(d.pending[u.Relation], pendingDelta{tuple: u.Tuple, delta: -1})
	case DeleteKey:
		return relerr.NewUnsupportedUpdate(table.Name(), "DeleteKey")
	case Modify:
		return relerr.NewUnsupportedUpdate(table.Name(), "Modify")
	default:
		return relerr.NewUnsupportedUpdate(table.Name(), fmt.Sprintf("kind %d", u.Kind))
	}
	return nil
}

// Commit validates every buffered update against its relation's schema,
// applies them atomically, re-derives every output relation stratum by
// stratum, and returns to Idle. On any validation error no table is
// touched and the driver returns to Idle with the error (spec.md §4.5:
// "on any error the driver aborts, restores pre-commit state").
func (d *Driver) Commit() (rules.Result, error) {
	d.mu.Lock()
	if d.state != Transaction {
		d.mu.Unlock()
		return rules.Result{}, relerr.NewTransactionState(Transaction.String(), d.state.String())
	}
	d.state = Committing
	pending := d.pending
	d.mu.Unlock()

	for rel, deltas := range pending {
		table, ok := d.store.Table(rel)
		if !ok {
			d.abort()
			return rules.Result{}, relerr.NewUnknownRelation(rel)
		}
		for _, pd := range deltas {
			if !table.MatchesType(pd.tuple) {
				d.abort()
				return rules.Result{}, relerr.NewSchemaMismatch(table.Name(), pd.tuple, pd.tuple)
			}
		}
	}

	for rel, deltas := range pending {
		table, _ := d.store.Table(rel)
		// Net the buffered deltas per tuple so the order of inserts and
		// deletes does not matter and each tuple changes at most once.
		net := make(map[string]pendingDelta, len(deltas))
		for _, pd := range deltas {
			acc := net[pd.tuple.Key()]
			acc.tuple = pd.tuple
			acc.delta += pd.delta
			net[pd.tuple.Key()] = acc
		}
		for _, acc := range net {
			if acc.delta != 0 {
				_ = table.ApplyDeltaAny(acc.tuple, acc.delta)
			}
		}
	}

	world := d.buildWorld()
	result, err := rules.Evaluate(context.Background(), world)
	if err != nil {
		d.abort()
		return rules.Result{}, err
	}
	d.replaceWithResult(result)

	d.mu.Lock()
	d.state = Idle
	d.pending = make(map[catalog.RelationID][]pendingDelta)
	d.mu.Unlock()
	return result, nil
}

func (d *Driver) abort() {
	d.mu.Lock()
	d.state = Idle
	d.pending = make(map[catalog.RelationID][]pendingDelta)
	d.mu.Unlock()
}

// Rollback discards the pending buffer without touching any table -
// trivial here because Apply only ever buffers, it never mutates.
func (d *Driver) Rollback() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Transaction {
		return relerr.NewTransactionState(Transaction.String(), d.state.String())
	}
	d.state = Idle
	d.pending = make(map[catalog.RelationID][]pendingDelta)
	return nil
}

func (d *Driver) buildWorld() rules.World {
	return rules.World{
		InputScope:      d.inputScope.Snapshot(),
		Files:           d.files.Snapshot(),
		EveryScope:      d.everyScope.Snapshot(),
		Statements:      d.statements.Snapshot(),
		Functions:       d.functions.Snapshot(),
		FunctionArgs:    d.functionArgs.Snapshot(),
		Arrows:          d.arrows.Snapshot(),
		ArrowParams:     d.arrowParams.Snapshot(),
		InlineFuncs:     d.inlineFuncs.Snapshot(),
		InlineFuncArgs:  d.inlineFuncArgs.Snapshot(),
		LetDecls:        d.letDecls.Snapshot(),
		ConstDecls:      d.constDecls.Snapshot(),
		VarDecls:        d.varDecls.Snapshot(),
		Classes:         d.classes.Snapshot(),
		ClassExprs:      d.classExprs.Snapshot(),
		ImplicitGlobals: d.implicitGlobals.Snapshot(),
		Imports:         d.imports.Snapshot(),
		Exports:         d.exports.Snapshot(),
		Tries:           d.tries.Snapshot(),
		Expressions:     d.expressions.Snapshot(),
		NameRefs:        d.nameRefs.Snapshot(),
		DotAccesses:     d.dotAccesses.Snapshot(),
		BracketAccesses: d.bracketAccesses.Snapshot(),
		UnaryOps:        d.unaryOps.Snapshot(),
	}
}

func (d *Driver) replaceWithResult(r rules.Result) {
	d.childScope.ReplaceWith(keyedOf(r.ChildScope))
	d.functionLevelScope.ReplaceWith(keyedOf(r.FunctionLevelScope))
	d.chainedWith.ReplaceWith(keyedOf(r.ChainedWith))
	d.withinTypeofExpr.ReplaceWith(keyedOf(r.WithinTypeofExpr))
	d.nameInScope.ReplaceWith(keyedOf(r.NameInScope))
	d.isExported.ReplaceWith(keyedOf(r.IsExported))
	d.variableUsages.ReplaceWith(keyedOf(r.VariableUsages))
	d.noUndef.ReplaceWith(keyedOf(r.NoUndef))
	d.typeofUndef.ReplaceWith(keyedOf(r.TypeofUndef))
	d.useBeforeDecl.ReplaceWith(keyedOf(r.UseBeforeDecl))
	d.unusedVariables.ReplaceWith(keyedOf(r.UnusedVariables))
}

func keyedOf[T relation.Tuple](ts []T) map[string]T {
	out := make(map[string]T, len(ts))
	for _, t := range ts {
		out[t.Key()] = t
	}
	return out
}

