package law

import "fmt"

// Result is a sealed interface over the three terminal outcomes of
// applying one statute to one entity. Exactly one variant is produced
// per evaluation; there are no intermediate states.
type Result interface {
	legalResult() // Sealed - only the three variants implement it
}

// Deterministic is the outcome of a satisfied statute with no discretion
// marker. Effect is a clone of the statute's configured effect.
type Deterministic struct {
	Effect Effect
}

func (Deterministic) legalResult() {}

// JudicialDiscretion is the outcome of a satisfied statute whose
// discretion marker is present. ContextID is a fresh unique token minted
// per outcome so it can be correlated later with a human decision.
type JudicialDiscretion struct {
	Issue         string
	ContextID     string
	NarrativeHint string
}

func (JudicialDiscretion) legalResult() {}

// Void is the outcome of a statute whose preconditions are not met.
// Void is a normal outcome, not an error.
type Void struct {
	Reason string
}

func (Void) legalResult() {}

// VoidPreconditions is the reason recorded when one or more preconditions
// evaluate false.
const VoidPreconditions = "preconditions not met"

// Application is the record of one (entity, statute) evaluation.
// Immutable once produced.
type Application struct {
	AgentID   string
	StatuteID string
	Result    Result
}

// Outcome returns the short classification of a result, used for metrics
// keys and archive rows.
func Outcome(r Result) string {
	switch r.(type) {
	case Deterministic:
		return "deterministic"
	case JudicialDiscretion:
		return "discretionary"
	case Void:
		return "void"
	default:
		return fmt.Sprintf("unknown(%T)", r)
	}
}
