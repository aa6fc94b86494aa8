package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/lexsim/internal/law"
	"github.com/roach88/lexsim/internal/population"
)

// DefaultBatchSize is the population chunk size for RunSimulation.
const DefaultBatchSize = population.DefaultBatchSize

// Engine applies a statute catalog to a population and aggregates the
// outcomes.
//
// The statute catalog is read-only and freely shared. The population is
// read-only during RunSimulation: workers evaluate entities concurrently
// but never mutate them. The only shared mutable state is the metrics
// aggregate, which is folded by a single writer after the parallel phase.
//
// INVARIANTS:
//   - statutes slice order NEVER changes after construction; results for
//     one entity appear in catalog order
//   - the final result list preserves population order end to end
type Engine struct {
	statutes  []law.Statute
	pop       []law.Entity
	tokens    law.ContextTokenGenerator
	workers   int
	batchSize int
	dirty     *population.DirtyTracker

	mu      sync.Mutex // guards metrics
	metrics *Metrics
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithWorkers sets the number of goroutines evaluating entities inside
// each batch. Non-positive falls back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithBatchSize sets the population chunk size for a run.
// Non-positive falls back to DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		e.batchSize = n
	}
}

// WithTokenGenerator sets the context-token generator used for
// discretionary outcomes. Defaults to law.UUIDv7Generator; tests use
// law.NewFixedGenerator for deterministic context ids.
func WithTokenGenerator(gen law.ContextTokenGenerator) Option {
	return func(e *Engine) {
		if gen != nil {
			e.tokens = gen
		}
	}
}

// newEngine assembles an engine. Callers go through Builder; statute and
// population slices are copied there to prevent external mutation.
func newEngine(statutes []law.Statute, pop []law.Entity, opts ...Option) *Engine {
	e := &Engine{
		statutes:  statutes,
		pop:       pop,
		tokens:    law.UUIDv7Generator{},
		batchSize: DefaultBatchSize,
		dirty:     population.NewDirtyTracker(),
		metrics:   NewMetrics(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ApplyLaw applies one statute to one entity: a pure three-state machine
// with no intermediate states.
//
//  1. Every precondition is evaluated against the entity.
//  2. Any false precondition → Void{"preconditions not met"}, regardless
//     of the discretion marker.
//  3. All true, no discretion marker → Deterministic carrying a clone of
//     the statute's effect.
//  4. All true, discretion marker present → JudicialDiscretion with a
//     freshly minted context id.
//
// A nil generator falls back to UUIDv7.
func ApplyLaw(ent law.Entity, st law.Statute, gen law.ContextTokenGenerator) law.Application {
	app := law.Application{
		AgentID:   ent.ID(),
		StatuteID: st.ID,
	}

	for _, pre := range st.Preconditions {
		if !law.Evaluate(pre, ent) {
			app.Result = law.Void{Reason: law.VoidPreconditions}
			return app
		}
	}

	if st.Discretionary() {
		if gen == nil {
			gen = law.UUIDv7Generator{}
		}
		app.Result = law.JudicialDiscretion{
			Issue:         st.DiscretionLogic,
			ContextID:     gen.Generate(),
			NarrativeHint: st.NarrativeHint,
		}
		return app
	}

	app.Result = law.Deterministic{Effect: st.Effect.Clone()}
	return app
}

// ApplyLaw applies one statute to one entity using the engine's token
// generator. Pure: it touches no engine state besides the generator.
func (e *Engine) ApplyLaw(ent law.Entity, st law.Statute) law.Application {
	return ApplyLaw(ent, st, e.tokens)
}

// RunSimulation computes the full population × statute cross-product.
//
// Each entity is evaluated against every statute in catalog order; the
// returned list preserves population order, so the layout is
// results[i*len(statutes)+j] = (entity i, statute j). Entities are
// processed in batches with intra-batch workers; per-pair evaluation is
// independent, and outcomes are folded into a fresh Metrics aggregate by
// a single writer after the parallel phase. Entities with at least one
// non-void outcome are marked dirty.
//
// Cancellation is observed at batch boundaries; on cancellation no
// partial results or metrics are published.
func (e *Engine) RunSimulation(ctx context.Context) ([]law.Application, error) {
	slog.Info("simulation starting",
		"statutes", len(e.statutes),
		"population", len(e.pop),
		"batch_size", e.batchSize,
	)

	perEntity, err := population.Process(ctx, e.pop,
		population.Options{BatchSize: e.batchSize, Workers: e.workers},
		func(ent law.Entity) []law.Application {
			apps := make([]law.Application, 0, len(e.statutes))
			for _, st := range e.statutes {
				apps = append(apps, ApplyLaw(ent, st, e.tokens))
			}
			return apps
		})
	if err != nil {
		return nil, fmt.Errorf("process population: %w", err)
	}

	// Single-writer fold: deterministic metrics and dirty-marking without
	// per-result synchronization.
	metrics := NewMetrics()
	results := make([]law.Application, 0, len(e.pop)*len(e.statutes))
	for i, apps := range perEntity {
		touched := false
		for _, app := range apps {
			metrics.RecordResult(app)
			results = append(results, app)
			if _, void := app.Result.(law.Void); !void {
				touched = true
			}
		}
		if touched {
			e.dirty.MarkDirty(e.pop[i].ID())
		}
	}

	e.mu.Lock()
	e.metrics = metrics
	e.mu.Unlock()

	slog.Info("simulation complete",
		"evaluations", metrics.Total,
		"deterministic", metrics.Deterministic,
		"discretionary", metrics.Discretionary,
		"void", metrics.Void,
	)

	return results, nil
}

// Metrics returns the aggregate of the most recent completed run, or an
// empty aggregate before the first run.
func (e *Engine) Metrics() *Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metrics
}

// Dirty returns the tracker recording which entities the last runs
// touched.
func (e *Engine) Dirty() *population.DirtyTracker {
	return e.dirty
}

// Statutes returns the catalog in declaration order.
// Used for introspection and tests.
func (e *Engine) Statutes() []law.Statute {
	return e.statutes
}

// PopulationSize returns the number of entities in the population.
func (e *Engine) PopulationSize() int {
	return len(e.pop)
}
