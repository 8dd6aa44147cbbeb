// Package service provides the pure building blocks used by the capability
// validator: glob-based constraint evaluation, fixed-window rate limiting and
// custom predicate resolution.
package service

import (
	capabilityDomain "github.com/allisson/actionguard/internal/capability/domain"
)

// ConstraintEvaluator decides whether a candidate domain or filesystem path
// satisfies an allow/deny glob set. Implementations are pure string matching;
// no network or filesystem access occurs.
type ConstraintEvaluator interface {
	// DomainAllowed checks a domain against allow/deny globs, case-insensitively.
	DomainAllowed(domain string, allowed, blocked []string) capabilityDomain.MatchResult

	// PathAllowed checks a filesystem path against allow/deny globs,
	// case-sensitively, with dot-file matching enabled.
	PathAllowed(path string, allowed, blocked []string) capabilityDomain.MatchResult
}

// RateLimiter bounds call volume per key over a fixed window.
type RateLimiter interface {
	// TryAcquire consumes one unit of quota for the key. Returns false when the
	// limit for the current window is exhausted.
	TryAcquire(key string, limit int) bool
}

// PredicateFunc is a custom validation extension invoked with the full action
// context. It returns whether the action is allowed and, when denying, a
// human-readable reason reported to the caller verbatim.
type PredicateFunc func(actionCtx *capabilityDomain.ActionContext) (allowed bool, reason string)

// PredicateRegistry maps predicate names to functions. Predicates are
// late-bound: a constraint may name a predicate that is registered after the
// validator is constructed.
type PredicateRegistry interface {
	// Register associates a predicate name with a function, replacing any
	// previous registration under the same name.
	Register(name string, fn PredicateFunc)

	// Resolve looks up a predicate by name.
	Resolve(name string) (PredicateFunc, bool)
}
