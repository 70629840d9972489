package tomasulo

import (
	"fmt"

	"github.com/sarchlab/tomasim/insts"
)

// StationKind identifies a pool or queue of slots.
type StationKind uint8

// Station kinds, in the order the writeback arbiter broadcasts them.
const (
	StationLoad StationKind = iota
	StationAddSub
	StationMulDiv
	StationStore
	numStationKinds
)

var stationPrefixes = [...]string{
	StationLoad:   "Load",
	StationAddSub: "Add",
	StationMulDiv: "Mult",
	StationStore:  "Store",
}

// String returns the slot name prefix of the station, e.g. Add.
func (k StationKind) String() string {
	if k < numStationKinds {
		return stationPrefixes[k]
	}
	return fmt.Sprintf("Station(%d)", uint8(k))
}

// Tag identifies the slot that will produce a not-yet-known value.
//
// Seq is the occupancy number of the slot, so a tag held past the release of
// its slot never matches the next occupant.
type Tag struct {
	Station StationKind
	Index   int
	Seq     uint64
}

// String returns the slot name, e.g. Mult1.
func (t Tag) String() string {
	return fmt.Sprintf("%s%d", t.Station, t.Index+1)
}

// MaybeTag is an optional producer tag.
type MaybeTag struct {
	tag   Tag
	valid bool
}

// Some wraps a tag.
func Some(t Tag) MaybeTag {
	return MaybeTag{tag: t, valid: true}
}

// None returns the empty MaybeTag.
func None() MaybeTag {
	return MaybeTag{}
}

// Get returns the tag and whether it is present.
func (m MaybeTag) Get() (Tag, bool) {
	return m.tag, m.valid
}

// IsSome returns true if a tag is present.
func (m MaybeTag) IsSome() bool {
	return m.valid
}

// Is returns true if the tag is present and equal to t.
func (m MaybeTag) Is(t Tag) bool {
	return m.valid && m.tag == t
}

// String returns the tag name, or an empty string when absent.
func (m MaybeTag) String() string {
	if !m.valid {
		return ""
	}
	return m.tag.String()
}

// Value is a symbolic result. Only dependencies are tracked, so a value is
// the expression that would have produced the number, e.g. F2+F4.
type Value string

// Combine builds the symbolic result of an arithmetic operation. Compound
// operands are parenthesized to keep the expression unambiguous.
func Combine(op insts.Op, a, b Value) Value {
	return Value(group(a) + op.Operator() + group(b))
}

// MemoryValue is the symbolic result of loading from address.
func MemoryValue(address string) Value {
	return Value("M(" + address + ")")
}

func group(v Value) string {
	depth := 0
	for _, r := range string(v) {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case '+', '-', '*', '/':
			if depth == 0 {
				return "(" + string(v) + ")"
			}
		}
	}
	return string(v)
}

// Operand is either a resolved value or a pending producer tag.
type Operand struct {
	Value    Value
	Producer MaybeTag
}

// Resolved creates an operand holding a known value.
func Resolved(v Value) Operand {
	return Operand{Value: v}
}

// Pending creates an operand waiting for the slot identified by t.
func Pending(t Tag) Operand {
	return Operand{Producer: Some(t)}
}

// Ready returns true if the operand value is known.
func (o Operand) Ready() bool {
	return !o.Producer.IsSome()
}

// String returns the producer name when pending, the value otherwise.
func (o Operand) String() string {
	if o.Producer.IsSome() {
		return o.Producer.String()
	}
	return string(o.Value)
}

// capture stores v if the operand is waiting for t. It returns true if the
// operand changed.
func (o *Operand) capture(t Tag, v Value) bool {
	if !o.Producer.Is(t) {
		return false
	}
	o.Value = v
	o.Producer = None()
	return true
}
