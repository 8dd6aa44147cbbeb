package domain

// ConstraintSet holds the limits attached to a capability. A nil ConstraintSet
// means the capability runs unconstrained. Blocked patterns always take
// precedence over allowed patterns for the same subject.
type ConstraintSet struct {
	// AllowedDomains and BlockedDomains are case-insensitive domain globs.
	AllowedDomains []string
	BlockedDomains []string

	// AllowedPaths and BlockedPaths are case-sensitive filesystem globs with
	// dot-file matching enabled, so patterns can target hidden files.
	AllowedPaths []string
	BlockedPaths []string

	// MaxPayloadBytes caps the declared payload size. Zero means no cap.
	MaxPayloadBytes int64

	// RatePerMinute is the number of calls allowed per fixed 60-second window.
	// Zero means no per-capability rate limit.
	RatePerMinute int

	// RequireConfirmation marks the capability as needing operator confirmation
	// before execution.
	RequireConfirmation bool

	// Predicate names a custom predicate resolved at validation time.
	Predicate string

	// PredicateExpr is an optional expression evaluated against the action
	// context, compiled at policy load time.
	PredicateExpr string
}

// Scaled returns a copy of the constraint set with numeric limits multiplied
// by the given factor. Domain and path rules are unaffected by scaling.
func (c *ConstraintSet) Scaled(factor float64) *ConstraintSet {
	if c == nil {
		return nil
	}
	scaled := *c
	if scaled.RatePerMinute > 0 {
		scaled.RatePerMinute = int(float64(scaled.RatePerMinute) * factor)
		if scaled.RatePerMinute < 1 {
			scaled.RatePerMinute = 1
		}
	}
	if scaled.MaxPayloadBytes > 0 {
		scaled.MaxPayloadBytes = int64(float64(scaled.MaxPayloadBytes) * factor)
		if scaled.MaxPayloadBytes < 1 {
			scaled.MaxPayloadBytes = 1
		}
	}
	return &scaled
}

// Capability is a declared action with its enablement flag and constraints.
// Capabilities are created at registry load time and never deleted at runtime.
type Capability struct {
	Name        string
	Enabled     bool
	Constraints *ConstraintSet
}

// GlobalConstraints apply across all capabilities of one registry.
type GlobalConstraints struct {
	// MaxRatePerMinute bounds the total validation call volume across all
	// capabilities. Zero means no global rate limit.
	MaxRatePerMinute int

	// AlwaysRequireConfirmation names actions that require confirmation
	// regardless of their own constraint set.
	AlwaysRequireConfirmation []string

	// BlockedDomains are merged with each capability's blocked domains.
	BlockedDomains []string
}

// RequiresConfirmation reports whether the named action is on the global
// always-confirm list.
func (g *GlobalConstraints) RequiresConfirmation(action string) bool {
	if g == nil {
		return false
	}
	for _, name := range g.AlwaysRequireConfirmation {
		if name == action {
			return true
		}
	}
	return false
}
