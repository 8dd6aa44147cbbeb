package usecase

import (
	"context"
	"time"

	capabilityDomain "github.com/allisson/actionguard/internal/capability/domain"
	capabilityService "github.com/allisson/actionguard/internal/capability/service"
	"github.com/allisson/actionguard/internal/metrics"
)

// validatorWithMetrics decorates Validator with metrics instrumentation.
type validatorWithMetrics struct {
	next    Validator
	metrics metrics.BusinessMetrics
}

// NewValidatorWithMetrics wraps a Validator with metrics recording.
func NewValidatorWithMetrics(validator Validator, m metrics.BusinessMetrics) Validator {
	return &validatorWithMetrics{
		next:    validator,
		metrics: m,
	}
}

// Validate records metrics for validation decisions.
func (v *validatorWithMetrics) Validate(
	ctx context.Context,
	actionCtx *capabilityDomain.ActionContext,
) *capabilityDomain.ValidationResult {
	start := time.Now()
	result := v.next.Validate(ctx, actionCtx)

	status := "allowed"
	if !result.Allowed {
		status = "denied"
	}

	v.metrics.RecordOperation(ctx, "capability", "validate", status)
	v.metrics.RecordDuration(ctx, "capability", "validate", time.Since(start), status)

	return result
}

// RegisterPredicate delegates to the wrapped validator.
func (v *validatorWithMetrics) RegisterPredicate(name string, fn capabilityService.PredicateFunc) {
	v.next.RegisterPredicate(name, fn)
}
