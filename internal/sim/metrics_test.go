package sim

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lexsim/internal/law"
)

func record(m *Metrics, agent, statute string, result law.Result) {
	m.RecordResult(law.Application{AgentID: agent, StatuteID: statute, Result: result})
}

// sampleMetrics builds the aggregate used by the summary golden test:
// 6 evaluations, 2 deterministic, 1 discretionary, 3 void.
func sampleMetrics() *Metrics {
	m := NewMetrics()
	record(m, "agent-1", "child-benefit", law.Deterministic{Effect: law.Effect{Kind: law.EffectMonetaryTransfer}})
	record(m, "agent-2", "child-benefit", law.Deterministic{Effect: law.Effect{Kind: law.EffectMonetaryTransfer}})
	record(m, "agent-3", "child-benefit", law.Void{Reason: law.VoidPreconditions})
	record(m, "agent-1", "residency-review", law.JudicialDiscretion{Issue: "review", ContextID: "ctx-1"})
	record(m, "agent-2", "residency-review", law.Void{Reason: law.VoidPreconditions})
	record(m, "agent-3", "residency-review", law.Void{Reason: law.VoidPreconditions})
	return m
}

// TestMetrics_Counters tests the aggregate counters and ratios.
func TestMetrics_Counters(t *testing.T) {
	m := sampleMetrics()

	assert.Equal(t, 6, m.Total)
	assert.Equal(t, 2, m.Deterministic)
	assert.Equal(t, 1, m.Discretionary)
	assert.Equal(t, 3, m.Void)

	assert.InDelta(t, 2.0/6.0, m.DeterministicRatio(), 1e-9)
	assert.InDelta(t, 1.0/6.0, m.DiscretionRatio(), 1e-9)
	assert.InDelta(t, 3.0/6.0, m.VoidRatio(), 1e-9)
}

// TestMetrics_EmptyRatios tests division safety on the empty aggregate.
func TestMetrics_EmptyRatios(t *testing.T) {
	m := NewMetrics()
	assert.Zero(t, m.DeterministicRatio())
	assert.Zero(t, m.DiscretionRatio())
	assert.Zero(t, m.VoidRatio())
}

// TestMetrics_PerStatuteBreakdown tests the per-statute counters.
func TestMetrics_PerStatuteBreakdown(t *testing.T) {
	m := sampleMetrics()

	cb, ok := m.Breakdown("child-benefit")
	require.True(t, ok)
	assert.Equal(t, StatuteBreakdown{Total: 3, Deterministic: 2, Void: 1}, cb)

	rr, ok := m.Breakdown("residency-review")
	require.True(t, ok)
	assert.Equal(t, StatuteBreakdown{Total: 3, Discretionary: 1, Void: 2}, rr)

	_, ok = m.Breakdown("unknown")
	assert.False(t, ok)

	// PerStatute returns a copy.
	snap := m.PerStatute()
	snap["child-benefit"] = StatuteBreakdown{}
	cb, _ = m.Breakdown("child-benefit")
	assert.Equal(t, 3, cb.Total)
}

// TestMetrics_DiscretionAgents tests first-occurrence-ordered dedup.
func TestMetrics_DiscretionAgents(t *testing.T) {
	m := NewMetrics()
	record(m, "agent-b", "s1", law.JudicialDiscretion{ContextID: "c1"})
	record(m, "agent-a", "s1", law.JudicialDiscretion{ContextID: "c2"})
	record(m, "agent-b", "s2", law.JudicialDiscretion{ContextID: "c3"})

	assert.Equal(t, []string{"agent-b", "agent-a"}, m.DiscretionAgents())

	// The accessor returns a copy.
	agents := m.DiscretionAgents()
	agents[0] = "mutated"
	assert.Equal(t, "agent-b", m.DiscretionAgents()[0])
}

// TestMetrics_Merge tests folding per-worker partials.
func TestMetrics_Merge(t *testing.T) {
	a := NewMetrics()
	record(a, "agent-1", "s1", law.Deterministic{})
	record(a, "agent-2", "s1", law.JudicialDiscretion{ContextID: "c1"})

	b := NewMetrics()
	record(b, "agent-3", "s1", law.Void{})
	record(b, "agent-2", "s2", law.JudicialDiscretion{ContextID: "c2"})

	a.Merge(b)

	assert.Equal(t, 4, a.Total)
	assert.Equal(t, 1, a.Deterministic)
	assert.Equal(t, 2, a.Discretionary)
	assert.Equal(t, 1, a.Void)

	s1, _ := a.Breakdown("s1")
	assert.Equal(t, StatuteBreakdown{Total: 3, Deterministic: 1, Discretionary: 1, Void: 1}, s1)

	// agent-2 appears once despite discretion in both partials.
	assert.Equal(t, []string{"agent-2"}, a.DiscretionAgents())

	// Merging nil is a no-op.
	a.Merge(nil)
	assert.Equal(t, 4, a.Total)
}

// TestMetrics_Snapshot tests checkpoint-style deep copies.
func TestMetrics_Snapshot(t *testing.T) {
	m := sampleMetrics()
	snap := m.Snapshot()

	record(m, "agent-4", "child-benefit", law.Deterministic{})

	assert.Equal(t, 6, snap.Total)
	assert.Equal(t, 7, m.Total)

	cb, _ := snap.Breakdown("child-benefit")
	assert.Equal(t, 3, cb.Total)
}

// TestMetrics_SummaryGolden compares the rendered report against the
// golden file in testdata/golden. Regenerate with: go test ./internal/sim -update
func TestMetrics_SummaryGolden(t *testing.T) {
	m := sampleMetrics()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "summary", []byte(m.Summary()))
}

// TestMetrics_SummaryEmpty tests the report before any evaluation.
func TestMetrics_SummaryEmpty(t *testing.T) {
	s := NewMetrics().Summary()
	assert.Contains(t, s, "Evaluations       : 0")
	assert.NotContains(t, s, "Per-statute breakdown")
}
