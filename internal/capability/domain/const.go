// Package domain defines the capability-based action control domain models.
// A capability is a named, individually enable/disable-able action an agent may
// request, carrying its own resource constraints.
package domain

// ModelStrength represents the declared strength of the calling model.
// Stronger models receive larger numeric limits, weaker models smaller ones.
type ModelStrength string

const (
	// ModelStrengthWeak halves every numeric limit.
	ModelStrengthWeak ModelStrength = "weak"

	// ModelStrengthMedium keeps limits unchanged.
	ModelStrengthMedium ModelStrength = "medium"

	// ModelStrengthStrong doubles every numeric limit.
	ModelStrengthStrong ModelStrength = "strong"
)

// Factor returns the multiplier applied to numeric limits for this strength.
// Unknown strengths behave as medium.
func (m ModelStrength) Factor() float64 {
	switch m {
	case ModelStrengthWeak:
		return 0.5
	case ModelStrengthStrong:
		return 2.0
	default:
		return 1.0
	}
}

// GlobalRateKey is the reserved rate-window key used for the global rate limit.
// Capability names never collide with it because it is not a valid action name.
const GlobalRateKey = "__global__"
