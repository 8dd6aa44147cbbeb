package usecase

import (
	"context"
	"fmt"
	"log/slog"

	capabilityDomain "github.com/allisson/actionguard/internal/capability/domain"
	capabilityService "github.com/allisson/actionguard/internal/capability/service"
)

// validatorUseCase implements Validator by orchestrating the capability
// registry, the constraint evaluator and the shared rate limiter.
type validatorUseCase struct {
	registry   CapabilityRegistry
	evaluator  capabilityService.ConstraintEvaluator
	limiter    capabilityService.RateLimiter
	predicates capabilityService.PredicateRegistry
	logger     *slog.Logger

	// exprPredicates holds policy-declared expressions compiled once at
	// construction, keyed by capability name.
	exprPredicates map[string]capabilityService.PredicateFunc
}

// NewValidatorUseCase creates a Validator with the provided dependencies.
// Expression predicates declared in capability constraints are compiled here;
// a capability whose expression fails to compile denies every call that
// reaches its predicate step.
func NewValidatorUseCase(
	registry CapabilityRegistry,
	evaluator capabilityService.ConstraintEvaluator,
	limiter capabilityService.RateLimiter,
	predicates capabilityService.PredicateRegistry,
	logger *slog.Logger,
) Validator {
	validator := &validatorUseCase{
		registry:       registry,
		evaluator:      evaluator,
		limiter:        limiter,
		predicates:     predicates,
		logger:         logger,
		exprPredicates: make(map[string]capabilityService.PredicateFunc),
	}

	for _, capability := range registry.All() {
		if capability.Constraints == nil || capability.Constraints.PredicateExpr == "" {
			continue
		}

		source := capability.Constraints.PredicateExpr
		compiled, err := capabilityService.CompileExprPredicate(source)
		if err != nil {
			logger.Error("predicate expression failed to compile",
				slog.String("capability", capability.Name),
				slog.Any("error", err))
			// Fail closed for this capability instead of dropping the rule.
			compiled = func(_ *capabilityDomain.ActionContext) (bool, string) {
				return false, fmt.Sprintf("predicate expression %q is invalid", source)
			}
		}
		validator.exprPredicates[capability.Name] = compiled
	}

	return validator
}

// RegisterPredicate registers a named custom predicate.
func (v *validatorUseCase) RegisterPredicate(name string, fn capabilityService.PredicateFunc) {
	v.predicates.Register(name, fn)
}

// Validate evaluates one action invocation. First failure wins:
//
//  1. Unknown action name.
//  2. Capability disabled.
//  3. Global rate limit (reserved global key).
//  4. Per-capability rate limit.
//  5. Target domain against merged global + capability blocked domains.
//  6. Target path against allowed/blocked path globs.
//  7. Payload size against the configured maximum.
//  8. Custom predicate, when named.
//  9. Allow, flagging confirmation when required.
//
// Rate-limit steps consume quota even when a later step denies: quota reflects
// call volume, not success. A panic anywhere in the evaluation resolves to a
// denial; an internal fault must never fail open.
func (v *validatorUseCase) Validate(
	ctx context.Context,
	actionCtx *capabilityDomain.ActionContext,
) (result *capabilityDomain.ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("validation panic recovered",
				slog.String("action", actionCtx.Action),
				slog.Any("panic", r))
			result = capabilityDomain.Deny(actionCtx.Action, "internal validation error")
		}
	}()

	// Step 1: the action must be registered.
	capability, err := v.registry.Get(actionCtx.Action)
	if err != nil {
		v.logDenial(actionCtx, capabilityDomain.ReasonUnknownCapability)
		return capabilityDomain.Deny(actionCtx.Action, capabilityDomain.ReasonUnknownCapability)
	}

	// Step 2: the capability must be enabled.
	if !capability.Enabled {
		v.logDenial(actionCtx, capabilityDomain.ReasonCapabilityDisabled)
		return capabilityDomain.Deny(actionCtx.Action, capabilityDomain.ReasonCapabilityDisabled)
	}

	global := v.registry.Global()
	constraints := capability.Constraints

	// Step 3: global rate limit across all capabilities.
	if global != nil && global.MaxRatePerMinute > 0 {
		if !v.limiter.TryAcquire(capabilityDomain.GlobalRateKey, global.MaxRatePerMinute) {
			v.logDenial(actionCtx, capabilityDomain.ReasonGlobalRateExceeded)
			return capabilityDomain.Deny(actionCtx.Action, capabilityDomain.ReasonGlobalRateExceeded)
		}
	}

	// Step 4: per-capability rate limit.
	if constraints != nil && constraints.RatePerMinute > 0 {
		if !v.limiter.TryAcquire(capability.Name, constraints.RatePerMinute) {
			reason := fmt.Sprintf("%s for capability %q", capabilityDomain.ReasonRateExceeded, capability.Name)
			v.logDenial(actionCtx, reason)
			return capabilityDomain.Deny(actionCtx.Action, reason)
		}
	}

	// Step 5: target domain against merged blocked domains.
	if actionCtx.Domain != "" {
		var allowedDomains, blockedDomains []string
		if constraints != nil {
			allowedDomains = constraints.AllowedDomains
			blockedDomains = constraints.BlockedDomains
		}
		if global != nil && len(global.BlockedDomains) > 0 {
			merged := make([]string, 0, len(blockedDomains)+len(global.BlockedDomains))
			merged = append(merged, global.BlockedDomains...)
			merged = append(merged, blockedDomains...)
			blockedDomains = merged
		}

		if match := v.evaluator.DomainAllowed(actionCtx.Domain, allowedDomains, blockedDomains); !match.Allowed {
			v.logDenial(actionCtx, match.Reason)
			return capabilityDomain.Deny(actionCtx.Action, match.Reason)
		}
	}

	// Step 6: target path against path globs.
	if actionCtx.Path != "" && constraints != nil {
		if match := v.evaluator.PathAllowed(actionCtx.Path, constraints.AllowedPaths, constraints.BlockedPaths); !match.Allowed {
			v.logDenial(actionCtx, match.Reason)
			return capabilityDomain.Deny(actionCtx.Action, match.Reason)
		}
	}

	// Step 7: payload size cap.
	if actionCtx.HasPayloadSize() && constraints != nil && constraints.MaxPayloadBytes > 0 {
		if actionCtx.PayloadSize > constraints.MaxPayloadBytes {
			reason := fmt.Sprintf(
				"%s (%d > %d bytes)",
				capabilityDomain.ReasonPayloadTooLarge,
				actionCtx.PayloadSize,
				constraints.MaxPayloadBytes,
			)
			v.logDenial(actionCtx, reason)
			return capabilityDomain.Deny(actionCtx.Action, reason)
		}
	}

	// Step 8: custom predicate. A declared but unregistered predicate denies.
	if constraints != nil && constraints.Predicate != "" {
		predicate, ok := v.predicates.Resolve(constraints.Predicate)
		if !ok {
			reason := fmt.Sprintf("predicate %q is not registered", constraints.Predicate)
			v.logDenial(actionCtx, reason)
			return capabilityDomain.Deny(actionCtx.Action, reason)
		}

		if allowed, reason := predicate(actionCtx); !allowed {
			v.logDenial(actionCtx, reason)
			return capabilityDomain.Deny(actionCtx.Action, reason)
		}
	}

	// Policy-declared expression predicate, compiled at construction.
	if exprPredicate, ok := v.exprPredicates[capability.Name]; ok {
		if allowed, reason := exprPredicate(actionCtx); !allowed {
			v.logDenial(actionCtx, reason)
			return capabilityDomain.Deny(actionCtx.Action, reason)
		}
	}

	// Step 9: allow, flagging confirmation when required.
	requiresConfirmation := (constraints != nil && constraints.RequireConfirmation) ||
		global.RequiresConfirmation(actionCtx.Action)

	return &capabilityDomain.ValidationResult{
		Allowed:              true,
		Capability:           capability.Name,
		Constraints:          constraints,
		RequiresConfirmation: requiresConfirmation,
	}
}

// logDenial records a denial without ever logging the opaque action payload.
func (v *validatorUseCase) logDenial(actionCtx *capabilityDomain.ActionContext, reason string) {
	v.logger.Debug("action denied",
		slog.String("action", actionCtx.Action),
		slog.String("domain", actionCtx.Domain),
		slog.String("path", actionCtx.Path),
		slog.String("reason", reason))
}
