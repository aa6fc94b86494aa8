package catalog

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/lexsim/internal/law"
)

// CompileStatute parses a CUE value into a Statute.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the statute struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`statute: "child-benefit": { ... }`)
//	st, err := CompileStatute(v.LookupPath(cue.ParsePath(`statute."child-benefit"`)))
func CompileStatute(v cue.Value) (law.Statute, error) {
	var st law.Statute

	if err := v.Err(); err != nil {
		return st, formatCUEError(err)
	}

	// Statute id comes from the struct label (the path selector).
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		st.ID = labels[len(labels)-1].Unquoted()
	}

	// Title (required).
	titleVal := v.LookupPath(cue.ParsePath("title"))
	if !titleVal.Exists() {
		return st, &CompileError{
			Field:   "title",
			Message: "title is required",
			Pos:     v.Pos(),
		}
	}
	title, err := titleVal.String()
	if err != nil {
		return st, formatCUEError(err)
	}
	st.Title = title

	// Preconditions (optional, can be empty - the statute then always applies).
	precondVal := v.LookupPath(cue.ParsePath("preconditions"))
	if precondVal.Exists() {
		iter, err := precondVal.List()
		if err != nil {
			return st, formatCUEError(err)
		}
		for iter.Next() {
			cond, err := compileCondition(iter.Value(), 1)
			if err != nil {
				return st, err
			}
			st.Preconditions = append(st.Preconditions, cond)
		}
	}

	// Effect (required).
	effectVal := v.LookupPath(cue.ParsePath("effect"))
	if !effectVal.Exists() {
		return st, &CompileError{
			Field:   "effect",
			Message: "effect is required",
			Pos:     v.Pos(),
		}
	}
	st.Effect, err = compileEffect(effectVal)
	if err != nil {
		return st, err
	}

	// Discretion marker and hint (optional).
	if dl := v.LookupPath(cue.ParsePath("discretion_logic")); dl.Exists() {
		st.DiscretionLogic, err = dl.String()
		if err != nil {
			return st, formatCUEError(err)
		}
	}
	if nh := v.LookupPath(cue.ParsePath("narrative_hint")); nh.Exists() {
		st.NarrativeHint, err = nh.String()
		if err != nil {
			return st, formatCUEError(err)
		}
	}

	return st, nil
}

// compileCondition parses one condition node. Leaves are discriminated by
// a "kind" field; combinators use all/any/not. The depth counter caps
// nesting so a hostile catalog cannot smuggle in a pathological tree.
func compileCondition(v cue.Value, depth int) (law.Condition, error) {
	if depth > law.MaxConditionDepth {
		return nil, &CompileError{
			Field:   "preconditions",
			Message: fmt.Sprintf("condition nesting exceeds the %d level limit", law.MaxConditionDepth),
			Pos:     v.Pos(),
		}
	}

	// Combinators first: all / any / not.
	if allVal := v.LookupPath(cue.ParsePath("all")); allVal.Exists() {
		return compileJunction(allVal, depth, func(l, r law.Condition) law.Condition {
			return law.And{Left: l, Right: r}
		})
	}
	if anyVal := v.LookupPath(cue.ParsePath("any")); anyVal.Exists() {
		return compileJunction(anyVal, depth, func(l, r law.Condition) law.Condition {
			return law.Or{Left: l, Right: r}
		})
	}
	if notVal := v.LookupPath(cue.ParsePath("not")); notVal.Exists() {
		inner, err := compileCondition(notVal, depth+1)
		if err != nil {
			return nil, err
		}
		return law.Not{Inner: inner}, nil
	}

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return nil, &CompileError{
			Field:   "preconditions",
			Message: "condition must have a kind or be an all/any/not combinator",
			Pos:     v.Pos(),
		}
	}
	kind, err := kindVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}

	switch kind {
	case "age":
		op, err := compileOp(v)
		if err != nil {
			return nil, err
		}
		years, err := v.LookupPath(cue.ParsePath("years")).Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return law.Age{Op: op, Years: years}, nil

	case "income":
		op, err := compileOp(v)
		if err != nil {
			return nil, err
		}
		amount, err := v.LookupPath(cue.ParsePath("amount")).Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return law.Income{Op: op, Amount: amount}, nil

	case "residency":
		op, err := compileOp(v)
		if err != nil {
			return nil, err
		}
		months, err := v.LookupPath(cue.ParsePath("months")).Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return law.Residency{Op: op, Months: months}, nil

	case "attr":
		key, err := v.LookupPath(cue.ParsePath("key")).String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		op, err := compileOp(v)
		if err != nil {
			return nil, err
		}
		value, err := v.LookupPath(cue.ParsePath("value")).String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return law.Attribute{Key: key, Op: op, Value: value}, nil

	case "has_attr":
		key, err := v.LookupPath(cue.ParsePath("key")).String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return law.HasAttribute{Key: key}, nil

	default:
		return nil, &CompileError{
			Field:   "preconditions",
			Message: fmt.Sprintf("unknown condition kind: %q", kind),
			Pos:     v.Pos(),
		}
	}
}

// compileJunction folds a non-empty condition list into a left-leaning
// binary tree with the given combinator.
func compileJunction(v cue.Value, depth int, join func(l, r law.Condition) law.Condition) (law.Condition, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var acc law.Condition
	for iter.Next() {
		cond, err := compileCondition(iter.Value(), depth+1)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			acc = cond
			continue
		}
		acc = join(acc, cond)
	}
	if acc == nil {
		return nil, &CompileError{
			Field:   "preconditions",
			Message: "combinator requires at least one condition",
			Pos:     v.Pos(),
		}
	}
	return acc, nil
}

func compileOp(v cue.Value) (law.CompareOp, error) {
	opStr, err := v.LookupPath(cue.ParsePath("op")).String()
	if err != nil {
		return "", formatCUEError(err)
	}
	op := law.CompareOp(opStr)
	if !op.Valid() {
		return "", &CompileError{
			Field:   "op",
			Message: fmt.Sprintf("invalid comparison operator: %q", opStr),
			Pos:     v.Pos(),
		}
	}
	return op, nil
}

func compileEffect(v cue.Value) (law.Effect, error) {
	var eff law.Effect

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return eff, &CompileError{
			Field:   "effect",
			Message: "effect kind is required",
			Pos:     v.Pos(),
		}
	}
	kind, err := kindVal.String()
	if err != nil {
		return eff, formatCUEError(err)
	}
	if !law.ValidEffectKinds[law.EffectKind(kind)] {
		return eff, &CompileError{
			Field:   "effect",
			Message: fmt.Sprintf("unknown effect kind: %q", kind),
			Pos:     kindVal.Pos(),
		}
	}
	eff.Kind = law.EffectKind(kind)

	if desc := v.LookupPath(cue.ParsePath("description")); desc.Exists() {
		eff.Description, err = desc.String()
		if err != nil {
			return eff, formatCUEError(err)
		}
	}

	if params := v.LookupPath(cue.ParsePath("parameters")); params.Exists() {
		iter, err := params.Fields()
		if err != nil {
			return eff, formatCUEError(err)
		}
		eff.Parameters = make(map[string]string)
		for iter.Next() {
			val, err := iter.Value().String()
			if err != nil {
				return eff, formatCUEError(err)
			}
			eff.Parameters[iter.Label()] = val
		}
	}

	return eff, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
