package ir

import "sync/atomic"
import "sync"

// Name is an interned string handle. Equality is identity on the handle;
// the underlying text is retrieved through the Interner that produced it.
type Name uint32

// Interner is a process-wide, append-only string pool. Handles are stable
// for the life of the engine; there is no eviction. Lookup in both
// directions is safe for concurrent use without an exclusive lock on the
// common path, matching the read-optimized discipline the rest of the
// engine uses for shared state (see the driver and arrange packages).
type Interner struct {
	next   uint32
	byText sync.Map // string -> Name
	byID   sync.Map // Name -> string
}

// NewInterner returns an empty pool. Name(0) is never issued, so the zero
// value of Name can be used as "no name" where that is meaningful.
func NewInterner() *Interner {
	return &Interner{}
}

// Intern returns the handle for s, minting a new one on first sight.
func (p *Interner) Intern(s string) Name {
	if v, ok := p.byText.Load(s); ok {
		return v.(Name)
	}
	id := Name(atomic.AddUint32(&p.next, 1))
	actual, loaded := p.byText.LoadOrStore(s, id)
	if loaded {
		return actual.(Name)
	}
	p.byID.Store(id, s)
	return id
}

// Text returns the string s interned as n. It panics if n was never
// produced by this Interner, since that indicates a programmer error
// (crossing handles between pools).
func (p *Interner) Text(n Name) string {
	v, ok := p.byID.Load(n)
	if !ok {
		panic("ir: Name not registered in this Interner")
	}
	return v.(string)
}
