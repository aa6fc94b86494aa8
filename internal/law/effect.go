package law

// EffectKind categorizes the legal consequence of a statute.
type EffectKind string

const (
	EffectGrant            EffectKind = "grant"
	EffectRevoke           EffectKind = "revoke"
	EffectObligation       EffectKind = "obligation"
	EffectProhibition      EffectKind = "prohibition"
	EffectMonetaryTransfer EffectKind = "monetary_transfer"
	EffectStatusChange     EffectKind = "status_change"
	EffectCustom           EffectKind = "custom"
)

// ValidEffectKinds defines the allowed effect kinds.
var ValidEffectKinds = map[EffectKind]bool{
	EffectGrant:            true,
	EffectRevoke:           true,
	EffectObligation:       true,
	EffectProhibition:      true,
	EffectMonetaryTransfer: true,
	EffectStatusChange:     true,
	EffectCustom:           true,
}

// Effect is an immutable description of a legal consequence: a kind, a
// human-readable description, and named string parameters (amounts,
// status names, transfer targets).
type Effect struct {
	Kind        EffectKind
	Description string
	Parameters  map[string]string
}

// Clone returns a deep copy of the effect. Deterministic results carry a
// clone so that a caller mutating the returned parameters cannot corrupt
// the shared statute catalog.
func (e Effect) Clone() Effect {
	out := Effect{
		Kind:        e.Kind,
		Description: e.Description,
	}
	if e.Parameters != nil {
		out.Parameters = make(map[string]string, len(e.Parameters))
		for k, v := range e.Parameters {
			out.Parameters[k] = v
		}
	}
	return out
}
