// Package usecase implements the capability validator, the component that
// decides whether one candidate action invocation may proceed.
package usecase

import (
	"context"

	capabilityDomain "github.com/allisson/actionguard/internal/capability/domain"
	capabilityService "github.com/allisson/actionguard/internal/capability/service"
)

// CapabilityRegistry is the static mapping from action name to capability.
// Loaded once from the policy document; never mutated at runtime. Scaling
// produces derived registries instead of mutating shared state.
type CapabilityRegistry interface {
	// Get returns the named capability or ErrCapabilityNotFound.
	Get(name string) (*capabilityDomain.Capability, error)

	// All returns every registered capability.
	All() []*capabilityDomain.Capability

	// Global returns the global constraints, possibly nil.
	Global() *capabilityDomain.GlobalConstraints

	// Scaled returns a registry derived for a different model strength.
	Scaled(strength capabilityDomain.ModelStrength) CapabilityRegistry
}

// Validator produces an allow/deny decision per action invocation.
type Validator interface {
	// Validate evaluates an action context against the registry. It never
	// returns an error: policy denials and internal faults both resolve to a
	// denial result (fail closed).
	Validate(ctx context.Context, actionCtx *capabilityDomain.ActionContext) *capabilityDomain.ValidationResult

	// RegisterPredicate registers a named custom predicate available to
	// capability constraints.
	RegisterPredicate(name string, fn capabilityService.PredicateFunc)
}
