package law

import "strconv"

// Evaluate checks a condition tree against one entity's attributes.
//
// Semantics:
//   - And short-circuits left to right; Or short-circuits left to right;
//     Not negates its child.
//   - A missing or non-parseable attribute makes the leaf false. Absence
//     of data means "requirement not demonstrated", not a fault, so
//     Evaluate has no error return.
//   - A nil condition (or nil combinator child) evaluates to false.
//
// Evaluate uses an explicit frame stack instead of language-level
// recursion: untrusted statute text can produce arbitrarily deep trees,
// and the goroutine stack must not be the limiting factor.
func Evaluate(c Condition, ent Entity) bool {
	type frame struct {
		cond Condition
		step uint8
	}
	frames := []frame{{cond: c}}
	result := false

	for len(frames) > 0 {
		f := &frames[len(frames)-1]
		switch n := f.cond.(type) {
		case And:
			switch f.step {
			case 0:
				f.step = 1
				frames = append(frames, frame{cond: n.Left})
			case 1:
				if !result {
					// Left false: short-circuit, And is false.
					frames = frames[:len(frames)-1]
					continue
				}
				f.step = 2
				frames = append(frames, frame{cond: n.Right})
			default:
				// Right child's value is the And's value.
				frames = frames[:len(frames)-1]
			}
		case Or:
			switch f.step {
			case 0:
				f.step = 1
				frames = append(frames, frame{cond: n.Left})
			case 1:
				if result {
					// Left true: short-circuit, Or is true.
					frames = frames[:len(frames)-1]
					continue
				}
				f.step = 2
				frames = append(frames, frame{cond: n.Right})
			default:
				frames = frames[:len(frames)-1]
			}
		case Not:
			if f.step == 0 {
				f.step = 1
				frames = append(frames, frame{cond: n.Inner})
				continue
			}
			result = !result
			frames = frames[:len(frames)-1]
		default:
			result = evalLeaf(n, ent)
			frames = frames[:len(frames)-1]
		}
	}

	return result
}

// evalLeaf evaluates a single leaf condition against the entity.
func evalLeaf(c Condition, ent Entity) bool {
	if ent == nil {
		return false
	}

	switch n := c.(type) {
	case Age:
		return compareIntAttr(ent, AttrAge, n.Op, n.Years)
	case Income:
		return compareIntAttr(ent, AttrIncome, n.Op, n.Amount)
	case Residency:
		return compareIntAttr(ent, AttrResidencyMonths, n.Op, n.Months)
	case Attribute:
		raw, ok := ent.Attribute(n.Key)
		if !ok {
			return false
		}
		return compareStrings(n.Op, raw, n.Value)
	case HasAttribute:
		_, ok := ent.Attribute(n.Key)
		return ok
	default:
		// Unknown or nil condition: requirement not demonstrated.
		return false
	}
}

// compareIntAttr parses the entity attribute as int64 and applies op.
// Missing or malformed attributes fail the comparison.
func compareIntAttr(ent Entity, key string, op CompareOp, want int64) bool {
	raw, ok := ent.Attribute(key)
	if !ok {
		return false
	}
	got, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	return compareInts(op, got, want)
}

func compareInts(op CompareOp, a, b int64) bool {
	switch op {
	case OpEqual:
		return a == b
	case OpNotEqual:
		return a != b
	case OpGreaterThan:
		return a > b
	case OpGreaterOrEqual:
		return a >= b
	case OpLessThan:
		return a < b
	case OpLessOrEqual:
		return a <= b
	}
	return false
}

func compareStrings(op CompareOp, a, b string) bool {
	switch op {
	case OpEqual:
		return a == b
	case OpNotEqual:
		return a != b
	case OpGreaterThan:
		return a > b
	case OpGreaterOrEqual:
		return a >= b
	case OpLessThan:
		return a < b
	case OpLessOrEqual:
		return a <= b
	}
	return false
}
