package law

import (
	"fmt"
	"strings"
)

// Well-known attribute keys consumed by the built-in leaf conditions.
const (
	AttrAge             = "age"
	AttrIncome          = "income"
	AttrResidencyMonths = "residency_months"
)

// MaxConditionDepth is the maximum nesting depth accepted for a condition
// tree. Evaluation, rendering, and cloning are all iterative and tolerate
// arbitrary depth, but catalog compilation and builder validation reject
// trees deeper than this so that hostile statute text cannot degrade the
// engine with pathological inputs.
const MaxConditionDepth = 10000

// CompareOp is a comparison operator carried by leaf conditions.
type CompareOp string

const (
	OpEqual          CompareOp = "=="
	OpNotEqual       CompareOp = "!="
	OpGreaterThan    CompareOp = ">"
	OpGreaterOrEqual CompareOp = ">="
	OpLessThan       CompareOp = "<"
	OpLessOrEqual    CompareOp = "<="
)

// Valid reports whether op is one of the six supported operators.
func (op CompareOp) Valid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual:
		return true
	}
	return false
}

// Condition is a sealed interface over the boolean rule-expression tree.
// Only the leaf types (Age, Income, Residency, Attribute, HasAttribute)
// and the combinators (And, Or, Not) implement it.
//
// Conditions are immutable values; sharing a Condition across statutes
// and goroutines is safe.
type Condition interface {
	condition() // Sealed - only these types implement it
}

// Age compares the entity's "age" attribute against Years.
type Age struct {
	Op    CompareOp
	Years int64
}

func (Age) condition() {}

// Income compares the entity's "income" attribute against Amount.
type Income struct {
	Op     CompareOp
	Amount int64
}

func (Income) condition() {}

// Residency compares the entity's "residency_months" attribute against
// Months. Durations are always whole months.
type Residency struct {
	Op     CompareOp
	Months int64
}

func (Residency) condition() {}

// Attribute compares an arbitrary free-text attribute against Value.
// OpEqual and OpNotEqual use exact string equality; the ordering
// operators compare lexicographically.
type Attribute struct {
	Key   string
	Op    CompareOp
	Value string
}

func (Attribute) condition() {}

// HasAttribute is a presence check: true when the entity carries the
// attribute at all, regardless of its value.
type HasAttribute struct {
	Key string
}

func (HasAttribute) condition() {}

// And is the conjunction of two conditions. Evaluation short-circuits
// left to right.
type And struct {
	Left, Right Condition
}

func (And) condition() {}

// Or is the disjunction of two conditions. Evaluation short-circuits
// left to right.
type Or struct {
	Left, Right Condition
}

func (Or) condition() {}

// Not negates its single child.
type Not struct {
	Inner Condition
}

func (Not) condition() {}

// renderItem is a work item for the iterative renderer: either a
// condition still to be expanded or a literal token to emit.
type renderItem struct {
	cond Condition
	lit  string
}

// Render produces the audit/debug text form of a condition tree.
//
// Render is total: it never fails and never recurses, so adversarially
// deep trees cannot exhaust the call stack. A nil condition (or nil
// combinator child) renders as "<none>".
func Render(c Condition) string {
	var b strings.Builder
	stack := []renderItem{{cond: c}}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if it.cond == nil && it.lit != "" {
			b.WriteString(it.lit)
			continue
		}

		switch n := it.cond.(type) {
		case nil:
			b.WriteString("<none>")
		case Age:
			fmt.Fprintf(&b, "%s %s %d", AttrAge, n.Op, n.Years)
		case Income:
			fmt.Fprintf(&b, "%s %s %d", AttrIncome, n.Op, n.Amount)
		case Residency:
			fmt.Fprintf(&b, "%s %s %d", AttrResidencyMonths, n.Op, n.Months)
		case Attribute:
			fmt.Fprintf(&b, "attr[%q] %s %q", n.Key, n.Op, n.Value)
		case HasAttribute:
			fmt.Fprintf(&b, "has_attr[%q]", n.Key)
		case And:
			// Emitted left to right, so pushed in reverse.
			stack = append(stack,
				renderItem{lit: ")"},
				renderItem{cond: n.Right},
				renderItem{lit: " AND "},
				renderItem{cond: n.Left},
				renderItem{lit: "("},
			)
		case Or:
			stack = append(stack,
				renderItem{lit: ")"},
				renderItem{cond: n.Right},
				renderItem{lit: " OR "},
				renderItem{cond: n.Left},
				renderItem{lit: "("},
			)
		case Not:
			stack = append(stack,
				renderItem{lit: ")"},
				renderItem{cond: n.Inner},
				renderItem{lit: "(NOT "},
			)
		default:
			fmt.Fprintf(&b, "<unknown %T>", it.cond)
		}
	}

	return b.String()
}

// Clone returns a structural copy of a condition tree.
//
// Leaves are plain values so the copy is straightforward; the point of
// Clone is that it is iterative and therefore total over trees of any
// depth, same as Render and Evaluate.
func Clone(c Condition) Condition {
	if c == nil {
		return nil
	}

	type frame struct {
		cond Condition
		step uint8
	}
	frames := []frame{{cond: c}}
	var out []Condition // post-order result stack

	pop2 := func() (Condition, Condition) {
		right := out[len(out)-1]
		left := out[len(out)-2]
		out = out[:len(out)-2]
		return left, right
	}

	for len(frames) > 0 {
		f := &frames[len(frames)-1]
		switch n := f.cond.(type) {
		case And:
			if f.step == 0 {
				f.step = 1
				// Right first so Left is processed first and sits deeper
				// in the post-order stack, matching pop2.
				frames = append(frames, frame{cond: n.Right}, frame{cond: n.Left})
				continue
			}
			left, right := pop2()
			out = append(out, And{Left: left, Right: right})
			frames = frames[:len(frames)-1]
		case Or:
			if f.step == 0 {
				f.step = 1
				frames = append(frames, frame{cond: n.Right}, frame{cond: n.Left})
				continue
			}
			left, right := pop2()
			out = append(out, Or{Left: left, Right: right})
			frames = frames[:len(frames)-1]
		case Not:
			if f.step == 0 {
				f.step = 1
				frames = append(frames, frame{cond: n.Inner})
				continue
			}
			inner := out[len(out)-1]
			out = out[:len(out)-1]
			out = append(out, Not{Inner: inner})
			frames = frames[:len(frames)-1]
		default:
			// Leaves (and nil children) copy by value.
			out = append(out, n)
			frames = frames[:len(frames)-1]
		}
	}

	return out[0]
}

// Depth returns the nesting depth of a condition tree (a leaf has depth 1).
// Iterative, so safe on trees that exceed MaxConditionDepth.
func Depth(c Condition) int {
	if c == nil {
		return 0
	}

	type entry struct {
		cond  Condition
		depth int
	}
	stack := []entry{{cond: c, depth: 1}}
	max := 0

	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if e.depth > max {
			max = e.depth
		}

		switch n := e.cond.(type) {
		case And:
			stack = append(stack,
				entry{cond: n.Left, depth: e.depth + 1},
				entry{cond: n.Right, depth: e.depth + 1},
			)
		case Or:
			stack = append(stack,
				entry{cond: n.Left, depth: e.depth + 1},
				entry{cond: n.Right, depth: e.depth + 1},
			)
		case Not:
			stack = append(stack, entry{cond: n.Inner, depth: e.depth + 1})
		}
	}

	return max
}
