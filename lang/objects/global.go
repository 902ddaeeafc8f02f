package objects

import (
	"fmt"
	"math"

	"github.com/dolthub/swiss"
)

// GlobalKind is the tag of a Global variant.
type GlobalKind uint8

const (
	GlobalInteger GlobalKind = iota
	GlobalFloat
	GlobalString
	GlobalIdentifier
	GlobalFunction
	GlobalNative
)

// Global is a top-level constant or named binding stored in a GlobalStore
// and referenced from opcodes by stable index.
type Global struct {
	Kind     GlobalKind
	Int      int64
	Float    float64
	Str      string    // GlobalString value, or the name for GlobalIdentifier/GlobalFunction/GlobalNative
	Function *Function // non-nil iff Kind == GlobalFunction
	Native   *NativeFunction
}

func NewIntegerGlobal(v int64) Global    { return Global{Kind: GlobalInteger, Int: v} }
func NewFloatGlobal(v float64) Global    { return Global{Kind: GlobalFloat, Float: v} }
func NewStringGlobal(v string) Global    { return Global{Kind: GlobalString, Str: v} }
func NewIdentifierGlobal(name string) Global {
	return Global{Kind: GlobalIdentifier, Str: name}
}
func NewFunctionGlobal(name string, fn *Function) Global {
	return Global{Kind: GlobalFunction, Str: name, Function: fn}
}
func NewNativeGlobal(name string, n *NativeFunction) Global {
	return Global{Kind: GlobalNative, Str: name, Native: n}
}

// Name returns the binding name for Identifier/Function/Native globals, or
// "" for constants.
func (g Global) Name() string {
	switch g.Kind {
	case GlobalIdentifier, GlobalFunction, GlobalNative:
		return g.Str
	default:
		return ""
	}
}

func (g Global) String() string {
	switch g.Kind {
	case GlobalInteger:
		return fmt.Sprintf("%d", g.Int)
	case GlobalFloat:
		return fmt.Sprintf("%g", g.Float)
	case GlobalString:
		return g.Str
	case GlobalIdentifier:
		return g.Str
	case GlobalFunction:
		return fmt.Sprintf("<function %s>", g.Str)
	case GlobalNative:
		return fmt.Sprintf("<native %s>", g.Str)
	default:
		return "<global>"
	}
}

// dedupKey is the comparable projection of a Global used to coalesce
// duplicate constants. Identifier/Function/Native globals are never
// coalesced (each declaration is a distinct binding site).
type dedupKey struct {
	kind  GlobalKind
	i     int64
	f     float64
	s     string
	unsharable uintptr // non-zero defeats deduplication
}

// GlobalStore is an ordered, append-only table of up to maxGlobals entries.
// Indices are stable once assigned; opcodes refer to globals by index.
// Lookup by value uses structural equality and a dolthub/swiss hash map
// keeps that lookup average O(1) even for programs with many constants.
type GlobalStore struct {
	entries []Global
	index   *swiss.Map[dedupKey, int]
	seq     uintptr
}

// MaxGlobals is the maximum number of entries a GlobalStore may hold.
const MaxGlobals = 1000

// NewGlobalStore returns an empty, ready-to-use GlobalStore.
func NewGlobalStore() *GlobalStore {
	return &GlobalStore{index: swiss.NewMap[dedupKey, int](64)}
}

// Add inserts g, returning its stable index. If an equal constant already
// exists, its existing index is returned instead (deduplication). Returns
// an error if the store is full, or if g is a NaN float constant (the spec
// forbids NaN globals to keep structural-equality dedup well defined).
func (gs *GlobalStore) Add(g Global) (int, error) {
	if g.Kind == GlobalFloat && math.IsNaN(g.Float) {
		return 0, fmt.Errorf("NaN float constants are not permitted as globals")
	}

	key, sharable := gs.keyFor(g)
	if sharable {
		if idx, ok := gs.index.Get(key); ok {
			return idx, nil
		}
	}

	if len(gs.entries) >= MaxGlobals {
		return 0, fmt.Errorf("global store is full (max %d entries)", MaxGlobals)
	}

	idx := len(gs.entries)
	gs.entries = append(gs.entries, g)
	if sharable {
		gs.index.Put(key, idx)
	}
	return idx, nil
}

func (gs *GlobalStore) keyFor(g Global) (dedupKey, bool) {
	switch g.Kind {
	case GlobalInteger:
		return dedupKey{kind: g.Kind, i: g.Int}, true
	case GlobalFloat:
		return dedupKey{kind: g.Kind, f: g.Float}, true
	case GlobalString:
		return dedupKey{kind: g.Kind, s: g.Str}, true
	default:
		// Identifier/Function/Native globals are each a distinct declaration
		// site: never coalesce them.
		gs.seq++
		return dedupKey{kind: g.Kind, unsharable: gs.seq}, false
	}
}

// SetEntry overwrites the content of an already-reserved slot, keeping its
// index stable. Used by the compiler to turn a placeholder Identifier
// global (reserved before compiling a function's body, so the function can
// reference its own name for recursion) into the finished Function global
// once the body has been compiled. Only valid before execution begins.
func (gs *GlobalStore) SetEntry(i int, g Global) { gs.entries[i] = g }

// Get returns the global at index i.
func (gs *GlobalStore) Get(i int) Global { return gs.entries[i] }

// GetPtr returns a stable pointer to the global at index i. Safe to retain
// once compilation has finished (entries is never reallocated during
// execution, per GlobalStore's append-only contract).
func (gs *GlobalStore) GetPtr(i int) *Global { return &gs.entries[i] }

// Len returns the number of globals stored.
func (gs *GlobalStore) Len() int { return len(gs.entries) }

// All returns the globals in insertion order. The returned slice must not
// be mutated by the caller.
func (gs *GlobalStore) All() []Global { return gs.entries }
