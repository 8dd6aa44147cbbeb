package domain

// Denial reasons reported to callers. Policy denials are results, not faults:
// they are always human-readable and never retried automatically.
const (
	ReasonUnknownCapability  = "unknown capability"
	ReasonCapabilityDisabled = "capability disabled"
	ReasonGlobalRateExceeded = "global rate limit exceeded"
	ReasonRateExceeded       = "rate limit exceeded"
	ReasonPayloadTooLarge    = "payload size exceeds maximum"
	ReasonNotInAllowlist     = "not in allowlist"
)

// ValidationResult is the decision produced for one action invocation.
type ValidationResult struct {
	Allowed              bool
	Reason               string
	Capability           string
	Constraints          *ConstraintSet
	RequiresConfirmation bool
}

// Deny builds a denial result for the given capability name.
func Deny(capability, reason string) *ValidationResult {
	return &ValidationResult{
		Allowed:    false,
		Reason:     reason,
		Capability: capability,
	}
}

// MatchResult is the outcome of a single domain or path constraint check.
type MatchResult struct {
	Allowed bool
	Reason  string
}
