package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/lexsim/internal/law"
	"github.com/roach88/lexsim/internal/sim"
)

// Run is the archive header for one simulation run.
type Run struct {
	ID           string
	StartedAt    time.Time
	StatuteCount int
	AgentCount   int

	// Aggregate counters copied from the run's metrics.
	Total         int
	Deterministic int
	Discretionary int
	Void          int
}

// ResultRow is one archived (agent, statute) application. Seq is the
// position in the engine's result slice; reading back ordered by seq
// reproduces the evaluation order exactly.
type ResultRow struct {
	Seq       int
	AgentID   string
	StatuteID string
	Outcome   string
	ContextID string
	Detail    string
}

// NewRun builds an archive header from a finished engine run.
func NewRun(id string, startedAt time.Time, statuteCount, agentCount int, m *sim.Metrics) Run {
	run := Run{
		ID:           id,
		StartedAt:    startedAt.UTC(),
		StatuteCount: statuteCount,
		AgentCount:   agentCount,
	}
	if m != nil {
		run.Total = m.Total
		run.Deterministic = m.Deterministic
		run.Discretionary = m.Discretionary
		run.Void = m.Void
	}
	return run
}

// WriteRun inserts a run header.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate run ids are
// silently ignored.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, started_at, statute_count, agent_count, total, deterministic, discretionary, void)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.StatuteCount,
		run.AgentCount,
		run.Total,
		run.Deterministic,
		run.Discretionary,
		run.Void,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteResults archives a run's applications in a single transaction.
// Uses ON CONFLICT DO NOTHING per row, so re-archiving the same run is a
// no-op rather than an error.
//
// Note: The run referenced by runID must exist (foreign key constraint).
func (s *Store) WriteResults(ctx context.Context, runID string, apps []law.Application) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write results: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO results
		(run_id, seq, agent_id, statute_id, outcome, context_id, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("write results: prepare: %w", err)
	}
	defer stmt.Close()

	for seq, app := range apps {
		contextID, detail := describeResult(app.Result)
		if _, err := stmt.ExecContext(ctx,
			runID,
			seq,
			app.AgentID,
			app.StatuteID,
			law.Outcome(app.Result),
			contextID,
			detail,
		); err != nil {
			return fmt.Errorf("write results: seq %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write results: commit: %w", err)
	}
	return nil
}

// ReadRun fetches a run header by id. Returns ok=false when the run does
// not exist.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, bool, error) {
	var run Run
	var startedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, statute_count, agent_count, total, deterministic, discretionary, void
		FROM runs WHERE id = ?
	`, id).Scan(
		&run.ID,
		&startedAt,
		&run.StatuteCount,
		&run.AgentCount,
		&run.Total,
		&run.Deterministic,
		&run.Discretionary,
		&run.Void,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("read run: %w", err)
	}

	run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Run{}, false, fmt.Errorf("read run: parse started_at: %w", err)
	}
	return run, true, nil
}

// ReadResults fetches a run's archived applications ordered by seq.
func (s *Store) ReadResults(ctx context.Context, runID string) ([]ResultRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, agent_id, statute_id, outcome, context_id, detail
		FROM results WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	defer rows.Close()

	var out []ResultRow
	for rows.Next() {
		var r ResultRow
		if err := rows.Scan(&r.Seq, &r.AgentID, &r.StatuteID, &r.Outcome, &r.ContextID, &r.Detail); err != nil {
			return nil, fmt.Errorf("read results: scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	return out, nil
}

// describeResult flattens a result into the archive's (context_id, detail)
// columns.
func describeResult(r law.Result) (contextID, detail string) {
	switch res := r.(type) {
	case law.Deterministic:
		return "", res.Effect.Description
	case law.JudicialDiscretion:
		return res.ContextID, res.Issue
	case law.Void:
		return "", res.Reason
	}
	return "", ""
}
