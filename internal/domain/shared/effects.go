package shared

// DurationType represents how effect duration is measured
type DurationType string

const (
	DurationTypeRounds    DurationType = "rounds"
	DurationTypeMinutes   DurationType = "minutes"
	DurationTypeHours     DurationType = "hours"
	DurationTypeUntilRest DurationType = "until_rest"
	DurationTypePermanent DurationType = "permanent"
)

// ActiveEffect is a temporary, time-boxed modifier source on a character,
// such as a spell or condition effect.
type ActiveEffect struct {
	ID                    string       `json:"id"`
	Name                  string       `json:"name"`
	Source                string       `json:"source"`    // spell/feature that created it
	SourceID              string       `json:"source_id"` // id of caster/user
	Duration              int          `json:"duration"`  // amount remaining
	DurationType          DurationType `json:"duration_type"`
	EffectModifiers       []Modifier   `json:"modifiers"`
	RequiresConcentration bool         `json:"requires_concentration"`
	Suspended             bool         `json:"suspended,omitempty"`
}

// ModifierSourceID implements ModifierSource
func (e *ActiveEffect) ModifierSourceID() string { return e.ID }

// ModifierSourceName implements ModifierSource
func (e *ActiveEffect) ModifierSourceName() string { return e.Name }

// Modifiers implements ModifierSource
func (e *ActiveEffect) Modifiers() []Modifier { return e.EffectModifiers }

// Eligible implements ConditionalSource; a suspended or expired effect
// contributes nothing without being detached.
func (e *ActiveEffect) Eligible() bool {
	return !e.Suspended && !e.IsExpired()
}

// TickDuration decrements the duration and returns true if expired
func (e *ActiveEffect) TickDuration() bool {
	if e.DurationType != DurationTypeRounds || e.Duration <= 0 {
		return false
	}

	e.Duration--
	return e.Duration <= 0
}

// IsExpired checks if the effect should be removed
func (e *ActiveEffect) IsExpired() bool {
	switch e.DurationType {
	case DurationTypePermanent, DurationTypeUntilRest:
		return false
	default:
		return e.Duration <= 0
	}
}
