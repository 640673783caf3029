package bounds

import "fmt"

// BKind is the shape of an ABounds value (§3 ABounds).
type BKind int

const (
	BInvalid BKind = iota
	BCount
	BCountPlusOne
	BByteCount
	BRange
)

// ABounds is one of Count(key), CountPlusOne(key), ByteCount(key),
// Range(lo_key, hi_key), or invalid (§3). Range bounds are constructed but
// the inference never produces one on its own (§9 open question #3: the
// original's RangeBound has several `assert(false && "Not implemented")`
// paths, so range bounds stay out of scope here unless a future feature
// flag enables them — see DESIGN.md).
type ABounds struct {
	Kind   BKind
	Key    Key // valid for Count/CountPlusOne/ByteCount
	LoKey  Key // valid for Range
	HiKey  Key // valid for Range
}

func Count(k Key) ABounds         { return ABounds{Kind: BCount, Key: k} }
func CountPlusOne(k Key) ABounds  { return ABounds{Kind: BCountPlusOne, Key: k} }
func ByteCount(k Key) ABounds     { return ABounds{Kind: BByteCount, Key: k} }
func Range(lo, hi Key) ABounds    { return ABounds{Kind: BRange, LoKey: lo, HiKey: hi} }
func InvalidBounds() ABounds      { return ABounds{Kind: BInvalid} }

// Valid reports whether b carries a real bound.
func (b ABounds) Valid() bool { return b.Kind != BInvalid }

// SameKind reports whether a and b are the same ABounds shape (Count vs.
// ByteCount vs. ...), ignoring which key they name — used by the §4.8.2
// convergence rule's "preference order Count > ByteCount" comparison.
func (b ABounds) SameKind(o ABounds) bool { return b.Kind == o.Kind }

func (b ABounds) String() string {
	switch b.Kind {
	case BCount:
		return fmt.Sprintf("count(%s)", b.Key)
	case BCountPlusOne:
		return fmt.Sprintf("count(%s+1)", b.Key)
	case BByteCount:
		return fmt.Sprintf("byte_count(%s)", b.Key)
	case BRange:
		return fmt.Sprintf("bounds(%s, %s)", b.LoKey, b.HiKey)
	default:
		return "<invalid-bounds>"
	}
}

// Priority orders competing bound sources for one pointer (§3 Priority,
// least to greatest: Declared, Allocator, FlowInferred, Heuristics — "a
// later/greater priority wins when both are present").
type Priority int

const (
	Declared Priority = iota
	Allocator
	FlowInferred
	Heuristics
)

func (p Priority) String() string {
	switch p {
	case Declared:
		return "declared"
	case Allocator:
		return "allocator"
	case FlowInferred:
		return "flow-inferred"
	case Heuristics:
		return "heuristic"
	default:
		return "?"
	}
}
