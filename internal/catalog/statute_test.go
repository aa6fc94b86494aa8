package catalog

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lexsim/internal/law"
)

func compileOne(t *testing.T, src, path string) (law.Statute, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return CompileStatute(v.LookupPath(cue.ParsePath(path)))
}

func TestCompileStatuteBasic(t *testing.T) {
	st, err := compileOne(t, `
		statute: "child-benefit": {
			title: "Monthly child benefit"
			preconditions: [
				{kind: "has_attr", key: "has_children"},
				{kind: "income", op: "<=", amount: 50000},
			]
			effect: {
				kind:        "monetary_transfer"
				description: "monthly child benefit"
				parameters: amount: "1054"
			}
		}
	`, `statute."child-benefit"`)
	require.NoError(t, err)

	assert.Equal(t, "child-benefit", st.ID)
	assert.Equal(t, "Monthly child benefit", st.Title)
	assert.False(t, st.Discretionary())
	require.Len(t, st.Preconditions, 2)
	assert.Equal(t, law.HasAttribute{Key: "has_children"}, st.Preconditions[0])
	assert.Equal(t, law.Income{Op: law.OpLessOrEqual, Amount: 50000}, st.Preconditions[1])
	assert.Equal(t, law.EffectMonetaryTransfer, st.Effect.Kind)
	assert.Equal(t, "1054", st.Effect.Parameters["amount"])
}

func TestCompileStatuteDiscretion(t *testing.T) {
	st, err := compileOne(t, `
		statute: "hardship-review": {
			title: "Discretionary hardship relief"
			effect: kind: "grant"
			discretion_logic: "Weigh circumstances"
			narrative_hint:   "consider dependents"
		}
	`, `statute."hardship-review"`)
	require.NoError(t, err)

	assert.True(t, st.Discretionary())
	assert.Equal(t, "Weigh circumstances", st.DiscretionLogic)
	assert.Equal(t, "consider dependents", st.NarrativeHint)
	assert.Empty(t, st.Preconditions)
}

func TestCompileStatuteCombinators(t *testing.T) {
	st, err := compileOne(t, `
		statute: "transit": {
			title: "Transit pass"
			preconditions: [
				{any: [
					{kind: "age", op: ">=", years: 65},
					{all: [
						{kind: "age", op: ">=", years: 60},
						{not: {kind: "has_attr", key: "suspended"}},
					]},
				]},
			]
			effect: kind: "grant"
		}
	`, "statute.transit")
	require.NoError(t, err)
	require.Len(t, st.Preconditions, 1)

	assert.Equal(t,
		`(age >= 65 OR (age >= 60 AND (NOT has_attr["suspended"])))`,
		law.Render(st.Preconditions[0]))
}

// TestCompileStatuteJunctionFold tests that a three-element all list folds
// into a left-leaning binary tree.
func TestCompileStatuteJunctionFold(t *testing.T) {
	st, err := compileOne(t, `
		statute: "strict": {
			title: "Strict"
			preconditions: [
				{all: [
					{kind: "age", op: ">=", years: 18},
					{kind: "income", op: "<", amount: 30000},
					{kind: "residency", op: ">=", months: 12},
				]},
			]
			effect: kind: "grant"
		}
	`, "statute.strict")
	require.NoError(t, err)

	assert.Equal(t,
		"((age >= 18 AND income < 30000) AND residency_months >= 12)",
		law.Render(st.Preconditions[0]))
}

func TestCompileStatuteAllLeafKinds(t *testing.T) {
	st, err := compileOne(t, `
		statute: "kitchen-sink": {
			title: "Every leaf kind"
			preconditions: [
				{kind: "age", op: ">", years: 21},
				{kind: "income", op: "!=", amount: 0},
				{kind: "residency", op: ">=", months: 6},
				{kind: "attr", key: "region", op: "==", value: "north"},
				{kind: "has_attr", key: "licensed"},
			]
			effect: kind: "status_change"
		}
	`, `statute."kitchen-sink"`)
	require.NoError(t, err)

	require.Len(t, st.Preconditions, 5)
	assert.Equal(t, law.Age{Op: law.OpGreaterThan, Years: 21}, st.Preconditions[0])
	assert.Equal(t, law.Income{Op: law.OpNotEqual, Amount: 0}, st.Preconditions[1])
	assert.Equal(t, law.Residency{Op: law.OpGreaterOrEqual, Months: 6}, st.Preconditions[2])
	assert.Equal(t, law.Attribute{Key: "region", Op: law.OpEqual, Value: "north"}, st.Preconditions[3])
	assert.Equal(t, law.HasAttribute{Key: "licensed"}, st.Preconditions[4])
}

func TestCompileStatuteMissingTitle(t *testing.T) {
	_, err := compileOne(t, `
		statute: "bad": {
			effect: kind: "grant"
		}
	`, "statute.bad")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "required")
}

func TestCompileStatuteMissingEffect(t *testing.T) {
	_, err := compileOne(t, `
		statute: "bad": {
			title: "No effect"
		}
	`, "statute.bad")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "effect")
	assert.Contains(t, err.Error(), "required")
}

func TestCompileStatuteUnknownConditionKind(t *testing.T) {
	_, err := compileOne(t, `
		statute: "bad": {
			title: "Unknown kind"
			preconditions: [{kind: "favourite_colour", value: "blue"}]
			effect: kind: "grant"
		}
	`, "statute.bad")

	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "favourite_colour")
}

func TestCompileStatuteInvalidOperator(t *testing.T) {
	_, err := compileOne(t, `
		statute: "bad": {
			title: "Bad op"
			preconditions: [{kind: "age", op: "~=", years: 18}]
			effect: kind: "grant"
		}
	`, "statute.bad")

	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "op", ce.Field)
}

func TestCompileStatuteUnknownEffectKind(t *testing.T) {
	_, err := compileOne(t, `
		statute: "bad": {
			title: "Bad effect"
			effect: kind: "teleport"
		}
	`, "statute.bad")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleport")
}

func TestCompileStatuteEmptyJunction(t *testing.T) {
	_, err := compileOne(t, `
		statute: "bad": {
			title: "Empty all"
			preconditions: [{all: []}]
			effect: kind: "grant"
		}
	`, "statute.bad")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one")
}
