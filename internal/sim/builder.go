package sim

import (
	"github.com/roach88/lexsim/internal/law"
)

// Builder validates and assembles an Engine from a statute catalog and a
// population.
//
// Build() is the safe default: it rejects an empty catalog, an empty
// population, and preconditions nested beyond law.MaxConditionDepth.
// BuildUnchecked() is the explicit escape hatch for callers who accept
// responsibility for those invariants; it never returns an error.
type Builder struct {
	statutes []law.Statute
	pop      []law.Entity
	validate bool
	opts     []Option
}

// NewBuilder creates a builder with validation enabled.
func NewBuilder() *Builder {
	return &Builder{validate: true}
}

// AddStatute appends one statute to the catalog.
func (b *Builder) AddStatute(st law.Statute) *Builder {
	b.statutes = append(b.statutes, st)
	return b
}

// AddStatutes appends statutes in order.
func (b *Builder) AddStatutes(sts []law.Statute) *Builder {
	b.statutes = append(b.statutes, sts...)
	return b
}

// WithStatutes replaces the catalog.
func (b *Builder) WithStatutes(sts []law.Statute) *Builder {
	b.statutes = append([]law.Statute(nil), sts...)
	return b
}

// AddEntity appends one entity to the population.
func (b *Builder) AddEntity(ent law.Entity) *Builder {
	b.pop = append(b.pop, ent)
	return b
}

// AddEntities appends entities in order.
func (b *Builder) AddEntities(ents []law.Entity) *Builder {
	b.pop = append(b.pop, ents...)
	return b
}

// WithPopulation replaces the population.
func (b *Builder) WithPopulation(ents []law.Entity) *Builder {
	b.pop = append([]law.Entity(nil), ents...)
	return b
}

// Validate toggles construction-time validation. Defaults to on;
// Validate(false) makes Build behave like BuildUnchecked.
func (b *Builder) Validate(on bool) *Builder {
	b.validate = on
	return b
}

// WithOptions appends engine options (workers, batch size, token
// generator) applied at build time.
func (b *Builder) WithOptions(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build validates the configuration and assembles the engine.
//
// Returns a *SimulationError with code NO_STATUTES or EMPTY_POPULATION
// for the two fatal construction-time conditions, or CONDITION_TOO_DEEP
// when a precondition tree exceeds law.MaxConditionDepth.
func (b *Builder) Build() (*Engine, error) {
	if b.validate {
		if len(b.statutes) == 0 {
			return nil, NewNoStatutesError()
		}
		if len(b.pop) == 0 {
			return nil, NewEmptyPopulationError()
		}
		for _, st := range b.statutes {
			for _, pre := range st.Preconditions {
				if d := law.Depth(pre); d > law.MaxConditionDepth {
					return nil, NewConditionTooDeepError(st.ID, d, law.MaxConditionDepth)
				}
			}
		}
	}

	return b.assemble(), nil
}

// BuildUnchecked assembles the engine without validation. It never
// fails; a caller feeding it an empty catalog simply gets an engine
// whose runs produce no results.
func (b *Builder) BuildUnchecked() *Engine {
	return b.assemble()
}

// assemble copies the catalog and population so later builder mutation
// cannot break the engine's ordering invariants.
func (b *Builder) assemble() *Engine {
	statutes := make([]law.Statute, len(b.statutes))
	copy(statutes, b.statutes)

	pop := make([]law.Entity, len(b.pop))
	copy(pop, b.pop)

	return newEngine(statutes, pop, b.opts...)
}
