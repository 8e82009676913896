// Package engine implements the public API (C6): the single entry point a
// caller uses to feed facts in, commit, and query results back out. It
// wraps package driver's transaction state machine with the seven public
// arrangement indexes of spec.md §6 and a change-subscription API,
// mirroring the teacher's small facade-over-subsystems shape
// (inspector.Factory/inspector.Inspector, analyzer.NewAnalyzer's
// functional-options constructor).
package engine

import (
	"fmt"

	"github.com/viant/relscope/arrange"
	"github.com/viant/relscope/catalog"
	"github.com/viant/relscope/driver"
	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/ir"
	"github.com/viant/relscope/relation"
	"github.com/viant/relscope/relerr"
	"github.com/viant/relscope/rules"
)

// Option configures an Engine at construction, in the teacher's functional
// options style (analyzer/option.go's GolangFiles/JavaFiles predicates).
type Option func(*Engine)

// WithInterner supplies a pre-populated name interner, useful when a
// caller wants stable ir.Name values across multiple Engine instances.
func WithInterner(interner *ir.Interner) Option {
	return func(e *Engine) { e.interner = interner }
}

// Engine is the facade over one Driver plus its derived query indexes and
// change subscriptions.
type Engine struct {
	drv      *driver.Driver
	interner *ir.Interner

	started bool

	childScopeByParent *arrange.MapArrangement[rules.ChildScope, string, rules.ChildScope]
	variableInScope    *arrange.MapArrangement[rules.NameInScope, string, rules.NameInScope]
	variablesForScope  *arrange.MapArrangement[rules.NameInScope, string, rules.NameInScope]
	expressionById     *arrange.MapArrangement[inputs.Expression, string, inputs.Expression]
	expressionBySpan   *arrange.MapArrangement[inputs.Expression, string, inputs.Expression]
	inputScopeByChild  *arrange.MapArrangement[inputs.InputScope, string, inputs.InputScope]
	inputScopeByParent *arrange.MapArrangement[inputs.InputScope, string, inputs.InputScope]
}

// New constructs an Engine with its public indexes wired up and already
// Start-ed - a fresh Engine accepts transactions immediately, the same way
// driver.New does. Start/Stop exist for callers that need to suspend and
// later resume the same Engine (see Stop).
func New(opts ...Option) *Engine {
	e := &Engine{drv: driver.New(), interner: ir.NewInterner(), started: true}
	e.childScopeByParent = arrange.NewMapArrangement(func(cs rules.ChildScope) (string, rules.ChildScope, bool) {
		return parentFileKey(cs.Parent, cs.File), cs, true
	})
	e.variableInScope = arrange.NewMapArrangement(func(n rules.NameInScope) (string, rules.NameInScope, bool) {
		return fileScopeNameKey(n.File, n.Scope, n.Name), n, true
	})
	e.variablesForScope = arrange.NewMapArrangement(func(n rules.NameInScope) (string, rules.NameInScope, bool) {
		return fileScopeKey(n.File, n.Scope), n, true
	})
	e.expressionById = arrange.NewMapArrangement(func(ex inputs.Expression) (string, inputs.Expression, bool) {
		return fileExprKey(ex.File, ex.Id), ex, true
	})
	e.expressionBySpan = arrange.NewMapArrangement(func(ex inputs.Expression) (string, inputs.Expression, bool) {
		return fileSpanKey(ex.File, ex.Span), ex, true
	})
	e.inputScopeByChild = arrange.NewMapArrangement(func(s inputs.InputScope) (string, inputs.InputScope, bool) {
		return childFileKey(s.Child, s.File), s, true
	})
	e.inputScopeByParent = arrange.NewMapArrangement(func(s inputs.InputScope) (string, inputs.InputScope, bool) {
		return parentFileKey(s.Parent, s.File), s, true
	})
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func parentFileKey(parent ir.ScopeId, file ir.FileId) string  { return fmt.Sprintf("p%d/f%d", parent, file) }
func childFileKey(child ir.ScopeId, file ir.FileId) string    { return fmt.Sprintf("c%d/f%d", child, file) }
func fileScopeKey(file ir.FileId, scope ir.ScopeId) string    { return fmt.Sprintf("f%d/s%d", file, scope) }
func fileExprKey(file ir.FileId, id ir.ExprId) string         { return fmt.Sprintf("f%d/e%d", file, id) }
func fileSpanKey(file ir.FileId, span ir.Span) string         { return fmt.Sprintf("f%d/%d-%d", file, span.Start, span.End) }
func fileScopeNameKey(file ir.FileId, scope ir.ScopeId, name ir.Name) string {
	return fmt.Sprintf("f%d/s%d/n%d", file, scope, name)
}

// Interner exposes the engine's name interner, needed to turn a string
// name into the ir.Name a query key expects.
func (e *Engine) Interner() *ir.Interner { return e.interner }

// Start brings the engine into the running state in which it accepts
// transactions. It is idempotent: starting an already-started Engine is a
// no-op, mirroring driver.Driver.Start's own idempotence at the outer
// lifecycle level (spec.md §6's Start/Stop, distinct from the
// per-transaction TransactionStart/TransactionCommit pair below).
func (e *Engine) Start() error {
	e.started = true
	return nil
}

// Stop takes the engine out of the running state. A transaction left
// pending across Stop is rolled back, so a caller that calls Stop always
// leaves the underlying driver Idle.
func (e *Engine) Stop() error {
	if !e.started {
		return nil
	}
	e.started = false
	if e.drv.State() == driver.Transaction {
		return e.drv.Rollback()
	}
	return nil
}

// TransactionStart begins a new transaction; see driver.Driver.StartTransaction.
func (e *Engine) TransactionStart() error {
	if !e.started {
		return relerr.NewTransactionState("Started", "Stopped")
	}
	return e.drv.StartTransaction()
}

// TransactionRollback discards the pending transaction.
func (e *Engine) TransactionRollback() error { return e.drv.Rollback() }

// ApplyUpdates buffers a batch of updates within the current transaction.
func (e *Engine) ApplyUpdates(updates []driver.Update) error {
	for i, u := range updates {
		if err := e.drv.Apply(u); err != nil {
			return fmt.Errorf("update %d: %w", i, err)
		}
	}
	return nil
}

// TransactionCommit validates and applies the pending transaction,
// re-derives every output relation, rebuilds the public indexes, and
// returns the fresh derived result.
func (e *Engine) TransactionCommit() (rules.Result, error) {
	result, err := e.drv.Commit()
	if err != nil {
		return rules.Result{}, err
	}
	e.childScopeByParent.Rebuild(result.ChildScope, func(v rules.ChildScope) string { return v.Key() })
	e.variableInScope.Rebuild(result.NameInScope, func(v rules.NameInScope) string { return v.Key() })
	e.variablesForScope.Rebuild(result.NameInScope, func(v rules.NameInScope) string { return v.Key() })
	e.inputScopeByParent.Rebuild(snapshotTable[inputs.InputScope](e, catalog.InputInputScope), func(v inputs.InputScope) string { return v.Key() })
	e.inputScopeByChild.Rebuild(snapshotTable[inputs.InputScope](e, catalog.InputInputScope), func(v inputs.InputScope) string { return v.Key() })
	e.expressionById.Rebuild(snapshotTable[inputs.Expression](e, catalog.InputExpression), func(v inputs.Expression) string { return v.Key() })
	e.expressionBySpan.Rebuild(snapshotTable[inputs.Expression](e, catalog.InputExpression), func(v inputs.Expression) string { return v.Key() })
	return result, nil
}

func snapshotTable[T relation.Tuple](e *Engine, id catalog.RelationID) []T {
	table, ok := e.drv.Store().Table(id)
	if !ok {
		return nil
	}
	snapshot := table.SnapshotAny()
	out := make([]T, 0, len(snapshot))
	for _, a := range snapshot {
		if t, ok := a.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// QueryKey is the generic lookup key for QueryIndex; only the fields the
// target index actually keys on need to be set.
type QueryKey struct {
	File   ir.FileId
	Scope  ir.ScopeId
	Name   ir.Name
	Parent ir.ScopeId
	Child  ir.ScopeId
	Expr   ir.ExprId
	Span   ir.Span
}

// QueryIndex resolves one of the seven public indexes of spec.md §6 by id.
func (e *Engine) QueryIndex(id catalog.IndexID, q QueryKey) ([]relation.Tuple, error) {
	switch id {
	case catalog.IndexChildScopeByParent:
		return boxAll(e.childScopeByParent.Lookup(parentFileKey(q.Parent, q.File))), nil
	case catalog.IndexVariableInScope:
		return boxAll(e.variableInScope.Lookup(fileScopeNameKey(q.File, q.Scope, q.Name))), nil
	case catalog.IndexVariablesForScope:
		return boxAll(e.variablesForScope.Lookup(fileScopeKey(q.File, q.Scope))), nil
	case catalog.IndexExpressionById:
		return boxAll(e.expressionById.Lookup(fileExprKey(q.File, q.Expr))), nil
	case catalog.IndexExpressionBySpan:
		return boxAll(e.expressionBySpan.Lookup(fileSpanKey(q.File, q.Span))), nil
	case catalog.IndexInputScopeByChild:
		return boxAll(e.inputScopeByChild.Lookup(childFileKey(q.Child, q.File))), nil
	case catalog.IndexInputScopeByParent:
		return boxAll(e.inputScopeByParent.Lookup(parentFileKey(q.Parent, q.File))), nil
	default:
		return nil, relerr.NewUnknownRelation(id)
	}
}

func boxAll[T relation.Tuple](ts []T) []relation.Tuple {
	out := make([]relation.Tuple, len(ts))
	for i, t := range ts {
		out[i] = t
	}
	return out
}

// DumpTable returns every tuple currently present in relation id, by name.
func (e *Engine) DumpTable(name string) ([]relation.Tuple, error) {
	id, ok := catalog.Lookup(name)
	if !ok {
		return nil, relerr.NewUnknownRelation(name)
	}
	table, ok := e.drv.Store().Table(id)
	if !ok {
		return nil, relerr.NewUnknownRelation(name)
	}
	return table.SnapshotAny(), nil
}

// Subscribe registers fn to be called once per net-changed tuple in
// relation name across every future commit (spec.md §4.2's optional change
// callback, generalized to the id-based dispatch the Store provides).
func (e *Engine) Subscribe(name string, fn func(tuple relation.Tuple, delta int32)) error {
	id, ok := catalog.Lookup(name)
	if !ok {
		return relerr.NewUnknownRelation(name)
	}
	table, ok := e.drv.Store().Table(id)
	if !ok {
		return relerr.NewUnknownRelation(name)
	}
	table.OnChangeAny(fn)
	return nil
}

// Driver exposes the underlying driver for callers (e.g. tsfacts) that
// need to apply updates against relations with no dedicated index.
func (e *Engine) Driver() *driver.Driver { return e.drv }
