package service

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	capabilityDomain "github.com/allisson/actionguard/internal/capability/domain"
)

// constraintEvaluator implements ConstraintEvaluator using doublestar globs.
type constraintEvaluator struct{}

// NewConstraintEvaluator creates a new glob-based ConstraintEvaluator.
func NewConstraintEvaluator() ConstraintEvaluator {
	return &constraintEvaluator{}
}

// DomainAllowed checks a domain against allow/deny globs.
//
// Evaluation order:
//  1. Any blocked pattern match denies immediately, citing the pattern.
//  2. With a non-empty allow set, the domain must match at least one allow
//     pattern or it is denied with "not in allowlist".
//  3. Without an allow set, the default is allow.
//
// Matching is case-insensitive: both subject and patterns are lowercased.
func (e *constraintEvaluator) DomainAllowed(
	domain string,
	allowed, blocked []string,
) capabilityDomain.MatchResult {
	subject := strings.ToLower(strings.TrimSpace(domain))

	for _, pattern := range blocked {
		if globMatch(strings.ToLower(pattern), subject) {
			return capabilityDomain.MatchResult{
				Allowed: false,
				Reason:  fmt.Sprintf("domain %q matches blocked pattern %q", domain, pattern),
			}
		}
	}

	if len(allowed) > 0 {
		for _, pattern := range allowed {
			if globMatch(strings.ToLower(pattern), subject) {
				return capabilityDomain.MatchResult{Allowed: true}
			}
		}
		return capabilityDomain.MatchResult{
			Allowed: false,
			Reason:  fmt.Sprintf("domain %q %s", domain, capabilityDomain.ReasonNotInAllowlist),
		}
	}

	return capabilityDomain.MatchResult{Allowed: true}
}

// PathAllowed checks a filesystem path against allow/deny globs.
//
// Path separators are normalized to forward slashes before matching so
// patterns behave identically across platforms. Matching is case-sensitive
// and dot-files participate in matching, so patterns like "**/.env" can
// target hidden files.
func (e *constraintEvaluator) PathAllowed(
	path string,
	allowed, blocked []string,
) capabilityDomain.MatchResult {
	subject := normalizePath(path)

	for _, pattern := range blocked {
		if globMatch(normalizePath(pattern), subject) {
			return capabilityDomain.MatchResult{
				Allowed: false,
				Reason:  fmt.Sprintf("path %q matches blocked pattern %q", path, pattern),
			}
		}
	}

	if len(allowed) > 0 {
		for _, pattern := range allowed {
			if globMatch(normalizePath(pattern), subject) {
				return capabilityDomain.MatchResult{Allowed: true}
			}
		}
		return capabilityDomain.MatchResult{
			Allowed: false,
			Reason:  fmt.Sprintf("path %q %s", path, capabilityDomain.ReasonNotInAllowlist),
		}
	}

	return capabilityDomain.MatchResult{Allowed: true}
}

// globMatch matches a subject against a doublestar glob pattern.
// Malformed patterns never match; an invalid pattern must not fail open.
func globMatch(pattern, subject string) bool {
	matched, err := doublestar.Match(pattern, subject)
	if err != nil {
		return false
	}
	return matched
}

// normalizePath converts backslash separators to forward slashes.
func normalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
