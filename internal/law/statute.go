package law

// Statute is a named legal rule: an ordered sequence of preconditions
// (all must hold, logical AND across the sequence), exactly one effect,
// and an optional discretion marker.
//
// Statutes are created once at catalog-load time and are immutable for
// the lifetime of a simulation run; the same statute value is shared
// read-only across the whole population.
type Statute struct {
	ID    string
	Title string

	// Preconditions gate whether the effect applies. They are evaluated
	// in order and combined with AND, in addition to any And/Or/Not
	// nesting inside each condition.
	Preconditions []Condition

	Effect Effect

	// DiscretionLogic, when non-empty, converts an otherwise-deterministic
	// statute into one requiring human judgment: a satisfied statute then
	// resolves to JudicialDiscretion instead of Deterministic.
	DiscretionLogic string

	// NarrativeHint optionally accompanies discretionary outcomes to give
	// the human reviewer framing context.
	NarrativeHint string
}

// Discretionary reports whether a satisfied statute requires human
// judgment. Presence of the discretion text is the single switch.
func (s Statute) Discretionary() bool {
	return s.DiscretionLogic != ""
}
