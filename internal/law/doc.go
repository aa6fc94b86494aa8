// Package law defines the core contract types of the statute simulation
// engine: condition expression trees, effects, statutes, the legal entity
// capability interface, and the three-state evaluation result.
//
// Everything in this package is either immutable after construction
// (Condition, Effect, Statute, the Result variants) or exposes an explicit
// mutation surface (Entity.SetAttribute). The simulation engine in
// internal/sim composes these types; it never depends on a concrete entity
// representation, only on the Entity interface.
package law
