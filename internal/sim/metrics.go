package sim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/lexsim/internal/law"
)

// StatuteBreakdown holds the per-statute outcome counters.
type StatuteBreakdown struct {
	Total         int
	Deterministic int
	Discretionary int
	Void          int
}

// Metrics is the mutable aggregate of a simulation run: outcome counters,
// a per-statute breakdown, and the agents that triggered discretionary
// review.
//
// Created empty, mutated by RecordResult as results stream in, readable
// at any time for a live snapshot. RecordResult and Merge are NOT safe
// for concurrent use; the engine folds results under a single-writer
// discipline and parallel callers must merge per-worker partials instead
// of sharing one aggregate.
type Metrics struct {
	Total         int
	Deterministic int
	Discretionary int
	Void          int

	perStatute      map[string]*StatuteBreakdown
	discretionSeen  map[string]bool
	discretionOrder []string
}

// NewMetrics creates an empty aggregate.
func NewMetrics() *Metrics {
	return &Metrics{
		perStatute:     make(map[string]*StatuteBreakdown),
		discretionSeen: make(map[string]bool),
	}
}

// RecordResult folds one (entity, statute) outcome into the aggregate.
func (m *Metrics) RecordResult(app law.Application) {
	m.Total++

	bd, ok := m.perStatute[app.StatuteID]
	if !ok {
		bd = &StatuteBreakdown{}
		m.perStatute[app.StatuteID] = bd
	}
	bd.Total++

	switch app.Result.(type) {
	case law.Deterministic:
		m.Deterministic++
		bd.Deterministic++
	case law.JudicialDiscretion:
		m.Discretionary++
		bd.Discretionary++
		if !m.discretionSeen[app.AgentID] {
			m.discretionSeen[app.AgentID] = true
			m.discretionOrder = append(m.discretionOrder, app.AgentID)
		}
	case law.Void:
		m.Void++
		bd.Void++
	}
}

// Merge folds another aggregate into this one. Used to combine
// per-worker partial metrics once at the end of a parallel run instead
// of synchronizing on every single result.
func (m *Metrics) Merge(other *Metrics) {
	if other == nil {
		return
	}

	m.Total += other.Total
	m.Deterministic += other.Deterministic
	m.Discretionary += other.Discretionary
	m.Void += other.Void

	for id, obd := range other.perStatute {
		bd, ok := m.perStatute[id]
		if !ok {
			bd = &StatuteBreakdown{}
			m.perStatute[id] = bd
		}
		bd.Total += obd.Total
		bd.Deterministic += obd.Deterministic
		bd.Discretionary += obd.Discretionary
		bd.Void += obd.Void
	}

	for _, agent := range other.discretionOrder {
		if !m.discretionSeen[agent] {
			m.discretionSeen[agent] = true
			m.discretionOrder = append(m.discretionOrder, agent)
		}
	}
}

// Snapshot returns a deep copy, suitable for checkpointing while the
// original keeps mutating.
func (m *Metrics) Snapshot() *Metrics {
	out := NewMetrics()
	out.Merge(m)
	return out
}

// DeterministicRatio returns the deterministic share of all evaluations,
// 0 when nothing has been recorded.
func (m *Metrics) DeterministicRatio() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Deterministic) / float64(m.Total)
}

// DiscretionRatio returns the discretionary share of all evaluations.
func (m *Metrics) DiscretionRatio() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Discretionary) / float64(m.Total)
}

// VoidRatio returns the void share of all evaluations.
func (m *Metrics) VoidRatio() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Void) / float64(m.Total)
}

// Breakdown returns the counters for one statute.
func (m *Metrics) Breakdown(statuteID string) (StatuteBreakdown, bool) {
	bd, ok := m.perStatute[statuteID]
	if !ok {
		return StatuteBreakdown{}, false
	}
	return *bd, true
}

// PerStatute returns a copy of the per-statute breakdown.
func (m *Metrics) PerStatute() map[string]StatuteBreakdown {
	out := make(map[string]StatuteBreakdown, len(m.perStatute))
	for id, bd := range m.perStatute {
		out[id] = *bd
	}
	return out
}

// DiscretionAgents returns the agents that triggered discretionary
// review, deduplicated, in first-occurrence order.
func (m *Metrics) DiscretionAgents() []string {
	out := make([]string, len(m.discretionOrder))
	copy(out, m.discretionOrder)
	return out
}

// Summary renders the human-readable report. Statutes are listed in
// sorted id order so the report is deterministic.
func (m *Metrics) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Simulation Summary ===\n")
	fmt.Fprintf(&b, "Evaluations       : %d\n", m.Total)
	fmt.Fprintf(&b, "  deterministic   : %d (%.1f%%)\n", m.Deterministic, 100*m.DeterministicRatio())
	fmt.Fprintf(&b, "  discretionary   : %d (%.1f%%)\n", m.Discretionary, 100*m.DiscretionRatio())
	fmt.Fprintf(&b, "  void            : %d (%.1f%%)\n", m.Void, 100*m.VoidRatio())
	fmt.Fprintf(&b, "Discretion agents : %d\n", len(m.discretionOrder))

	if len(m.perStatute) > 0 {
		fmt.Fprintf(&b, "\nPer-statute breakdown:\n")

		ids := make([]string, 0, len(m.perStatute))
		for id := range m.perStatute {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			bd := m.perStatute[id]
			fmt.Fprintf(&b, "  %-20s total=%d det=%d disc=%d void=%d\n",
				id, bd.Total, bd.Deterministic, bd.Discretionary, bd.Void)
		}
	}

	return b.String()
}
