package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/lexsim/internal/law"
	"github.com/roach88/lexsim/internal/population"
)

// populationFile is the on-disk shape of a population document:
//
//	entities:
//	  - id: agent-1
//	    attributes:
//	      age: "34"
//	      income: "42000"
type populationFile struct {
	Entities []entityEntry `yaml:"entities"`
}

type entityEntry struct {
	ID         string            `yaml:"id"`
	Attributes map[string]string `yaml:"attributes"`
}

// LoadPopulation reads a YAML population file into entities, preserving
// document order. Duplicate ids and missing ids are rejected: every
// simulation result is keyed by agent id, so ambiguity here would
// corrupt downstream reporting.
func LoadPopulation(path string) ([]law.Entity, error) {
	return LoadPopulationInto(path, nil)
}

// LoadPopulationInto is LoadPopulation with entity construction routed
// through pool when non-nil. Hosts rerunning a simulation release the
// previous population into the pool first, so reloads recycle entity
// instances instead of reallocating the whole population each pass.
func LoadPopulationInto(path string, pool *population.Pool) ([]law.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading population file: %v", err)}
	}

	var doc populationFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodePopulation, Message: fmt.Sprintf("parsing population file: %v", err)}
	}
	if len(doc.Entities) == 0 {
		return nil, &LoadError{Code: ErrCodePopulation, Message: fmt.Sprintf("no entities in %s", path)}
	}

	seen := make(map[string]bool, len(doc.Entities))
	pop := make([]law.Entity, 0, len(doc.Entities))
	for i, entry := range doc.Entities {
		if entry.ID == "" {
			return nil, &LoadError{Code: ErrCodePopulation, Message: fmt.Sprintf("entity %d: id is required", i)}
		}
		if seen[entry.ID] {
			return nil, &LoadError{Code: ErrCodePopulation, Message: fmt.Sprintf("duplicate entity id: %s", entry.ID)}
		}
		seen[entry.ID] = true
		pop = append(pop, materializeEntity(pool, entry.ID, entry.Attributes))
	}

	return pop, nil
}

// materializeEntity builds one entity, reusing a pooled instance when
// available. A pooled entity of a foreign concrete type cannot be reset
// and is dropped in favor of a fresh one.
func materializeEntity(pool *population.Pool, id string, attrs map[string]string) law.Entity {
	if pool == nil {
		return law.NewMapEntity(id, attrs)
	}
	ent := pool.Acquire(func() law.Entity {
		return law.NewMapEntity(id, attrs)
	})
	me, ok := ent.(*law.MapEntity)
	if !ok {
		return law.NewMapEntity(id, attrs)
	}
	me.Reset(id, attrs)
	return me
}
