package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	capabilityDomain "github.com/allisson/actionguard/internal/capability/domain"
	capabilityRepository "github.com/allisson/actionguard/internal/capability/repository"
	capabilityService "github.com/allisson/actionguard/internal/capability/service"
	capabilityUseCase "github.com/allisson/actionguard/internal/capability/usecase"
)

func newValidator(
	t *testing.T,
	capabilities []*capabilityDomain.Capability,
	global *capabilityDomain.GlobalConstraints,
) capabilityUseCase.Validator {
	t.Helper()

	registry := capabilityRepository.NewMemoryCapabilityRegistry(
		capabilities,
		global,
		capabilityDomain.ModelStrengthMedium,
	)

	return capabilityUseCase.NewValidatorUseCase(
		registry,
		capabilityService.NewConstraintEvaluator(),
		capabilityService.NewRateLimiter(),
		capabilityService.NewPredicateRegistry(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func actionContext(action string) *capabilityDomain.ActionContext {
	return &capabilityDomain.ActionContext{Action: action, PayloadSize: -1}
}

func TestValidator_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_UnknownCapability", func(t *testing.T) {
		validator := newValidator(t, nil, nil)

		result := validator.Validate(ctx, actionContext("rm_rf"))

		assert.False(t, result.Allowed)
		assert.Contains(t, result.Reason, "unknown capability")
	})

	t.Run("Error_DisabledCapability", func(t *testing.T) {
		validator := newValidator(t, []*capabilityDomain.Capability{
			{Name: "shell_exec", Enabled: false},
		}, nil)

		result := validator.Validate(ctx, actionContext("shell_exec"))

		assert.False(t, result.Allowed)
		assert.Contains(t, result.Reason, "capability disabled")
	})

	t.Run("Success_UnconstrainedCapability", func(t *testing.T) {
		validator := newValidator(t, []*capabilityDomain.Capability{
			{Name: "web_fetch", Enabled: true},
		}, nil)

		result := validator.Validate(ctx, actionContext("web_fetch"))

		assert.True(t, result.Allowed)
		assert.Equal(t, "web_fetch", result.Capability)
		assert.False(t, result.RequiresConfirmation)
	})

	t.Run("Error_PerCapabilityRateLimit", func(t *testing.T) {
		validator := newValidator(t, []*capabilityDomain.Capability{
			{
				Name:        "web_fetch",
				Enabled:     true,
				Constraints: &capabilityDomain.ConstraintSet{RatePerMinute: 3},
			},
		}, nil)

		for i := 0; i < 3; i++ {
			result := validator.Validate(ctx, actionContext("web_fetch"))
			require.True(t, result.Allowed, "call %d should be allowed", i+1)
		}

		result := validator.Validate(ctx, actionContext("web_fetch"))
		assert.False(t, result.Allowed)
		assert.Contains(t, result.Reason, "rate limit exceeded")
	})

	t.Run("Error_GlobalRateLimit", func(t *testing.T) {
		validator := newValidator(t, []*capabilityDomain.Capability{
			{Name: "a", Enabled: true},
			{Name: "b", Enabled: true},
		}, &capabilityDomain.GlobalConstraints{MaxRatePerMinute: 2})

		require.True(t, validator.Validate(ctx, actionContext("a")).Allowed)
		require.True(t, validator.Validate(ctx, actionContext("b")).Allowed)

		result := validator.Validate(ctx, actionContext("a"))
		assert.False(t, result.Allowed)
		assert.Contains(t, result.Reason, "global rate limit")
	})

	t.Run("Error_BlockedDomain", func(t *testing.T) {
		validator := newValidator(t, []*capabilityDomain.Capability{
			{
				Name:    "web_fetch",
				Enabled: true,
				Constraints: &capabilityDomain.ConstraintSet{
					BlockedDomains: []string{"evil.example.com"},
				},
			},
		}, nil)

		action := actionContext("web_fetch")
		action.Domain = "evil.example.com"

		result := validator.Validate(ctx, action)
		assert.False(t, result.Allowed)
	})

	t.Run("Error_GlobalBlockedDomainsMerged", func(t *testing.T) {
		validator := newValidator(t, []*capabilityDomain.Capability{
			{Name: "web_fetch", Enabled: true},
		}, &capabilityDomain.GlobalConstraints{
			BlockedDomains: []string{"*.internal"},
		})

		action := actionContext("web_fetch")
		action.Domain = "db.internal"

		result := validator.Validate(ctx, action)
		assert.False(t, result.Allowed)
		assert.Contains(t, result.Reason, "*.internal")
	})

	t.Run("Error_BlockedDotEnvPath", func(t *testing.T) {
		validator := newValidator(t, []*capabilityDomain.Capability{
			{
				Name:    "file_read",
				Enabled: true,
				Constraints: &capabilityDomain.ConstraintSet{
					BlockedPaths: []string{"**/.env"},
				},
			},
		}, nil)

		action := actionContext("file_read")
		action.Path = "/app/.env"

		result := validator.Validate(ctx, action)
		assert.False(t, result.Allowed)
	})

	t.Run("Error_PayloadTooLarge", func(t *testing.T) {
		validator := newValidator(t, []*capabilityDomain.Capability{
			{
				Name:        "web_fetch",
				Enabled:     true,
				Constraints: &capabilityDomain.ConstraintSet{MaxPayloadBytes: 1024},
			},
		}, nil)

		action := actionContext("web_fetch")
		action.PayloadSize = 2048

		result := validator.Validate(ctx, action)
		assert.False(t, result.Allowed)
		assert.Contains(t, result.Reason, "payload size exceeds maximum")
	})

	t.Run("Success_PayloadWithinLimit", func(t *testing.T) {
		validator := newValidator(t, []*capabilityDomain.Capability{
			{
				Name:        "web_fetch",
				Enabled:     true,
				Constraints: &capabilityDomain.ConstraintSet{MaxPayloadBytes: 1024},
			},
		}, nil)

		action := actionContext("web_fetch")
		action.PayloadSize = 512

		assert.True(t, validator.Validate(ctx, action).Allowed)
	})

	t.Run("Error_UnregisteredPredicateDenies", func(t *testing.T) {
		validator := newValidator(t, []*capabilityDomain.Capability{
			{
				Name:        "api_call",
				Enabled:     true,
				Constraints: &capabilityDomain.ConstraintSet{Predicate: "business_hours"},
			},
		}, nil)

		result := validator.Validate(ctx, actionContext("api_call"))
		assert.False(t, result.Allowed)
		assert.Contains(t, result.Reason, "business_hours")
	})

	t.Run("Error_PredicateDenialReasonVerbatim", func(t *testing.T) {
		validator := newValidator(t, []*capabilityDomain.Capability{
			{
				Name:        "api_call",
				Enabled:     true,
				Constraints: &capabilityDomain.ConstraintSet{Predicate: "deny_all"},
			},
		}, nil)
		validator.RegisterPredicate("deny_all", func(_ *capabilityDomain.ActionContext) (bool, string) {
			return false, "maintenance window in progress"
		})

		result := validator.Validate(ctx, actionContext("api_call"))
		assert.False(t, result.Allowed)
		assert.Equal(t, "maintenance window in progress", result.Reason)
	})

	t.Run("Success_RegisteredPredicateAllows", func(t *testing.T) {
		validator := newValidator(t, []*capabilityDomain.Capability{
			{
				Name:        "api_call",
				Enabled:     true,
				Constraints: &capabilityDomain.ConstraintSet{Predicate: "allow_all"},
			},
		}, nil)
		validator.RegisterPredicate("allow_all", func(_ *capabilityDomain.ActionContext) (bool, string) {
			return true, ""
		})

		assert.True(t, validator.Validate(ctx, actionContext("api_call")).Allowed)
	})

	t.Run("Error_ExpressionPredicateDenies", func(t *testing.T) {
		validator := newValidator(t, []*capabilityDomain.Capability{
			{
				Name:        "web_fetch",
				Enabled:     true,
				Constraints: &capabilityDomain.ConstraintSet{PredicateExpr: "PayloadSize < 100"},
			},
		}, nil)

		action := actionContext("web_fetch")
		action.PayloadSize = 500

		result := validator.Validate(ctx, action)
		assert.False(t, result.Allowed)
	})

	t.Run("Error_PanickingPredicateFailsClosed", func(t *testing.T) {
		validator := newValidator(t, []*capabilityDomain.Capability{
			{
				Name:        "api_call",
				Enabled:     true,
				Constraints: &capabilityDomain.ConstraintSet{Predicate: "broken"},
			},
		}, nil)
		validator.RegisterPredicate("broken", func(_ *capabilityDomain.ActionContext) (bool, string) {
			panic("predicate bug")
		})

		result := validator.Validate(ctx, actionContext("api_call"))
		assert.False(t, result.Allowed)
		assert.Contains(t, result.Reason, "internal validation error")
	})

	t.Run("Success_ConfirmationFromConstraint", func(t *testing.T) {
		validator := newValidator(t, []*capabilityDomain.Capability{
			{
				Name:        "shell_exec",
				Enabled:     true,
				Constraints: &capabilityDomain.ConstraintSet{RequireConfirmation: true},
			},
		}, nil)

		result := validator.Validate(ctx, actionContext("shell_exec"))
		assert.True(t, result.Allowed)
		assert.True(t, result.RequiresConfirmation)
	})

	t.Run("Success_ConfirmationFromGlobalList", func(t *testing.T) {
		validator := newValidator(t, []*capabilityDomain.Capability{
			{Name: "shell_exec", Enabled: true},
		}, &capabilityDomain.GlobalConstraints{
			AlwaysRequireConfirmation: []string{"shell_exec"},
		})

		result := validator.Validate(ctx, actionContext("shell_exec"))
		assert.True(t, result.Allowed)
		assert.True(t, result.RequiresConfirmation)
	})

	t.Run("Success_QuotaConsumedOnDownstreamDenial", func(t *testing.T) {
		// A denied call still consumes quota: quota reflects call volume.
		validator := newValidator(t, []*capabilityDomain.Capability{
			{
				Name:    "web_fetch",
				Enabled: true,
				Constraints: &capabilityDomain.ConstraintSet{
					RatePerMinute:  2,
					BlockedDomains: []string{"evil.example.com"},
				},
			},
		}, nil)

		denied := actionContext("web_fetch")
		denied.Domain = "evil.example.com"

		// Two denied calls exhaust the quota of two.
		require.False(t, validator.Validate(ctx, denied).Allowed)
		require.False(t, validator.Validate(ctx, denied).Allowed)

		result := validator.Validate(ctx, actionContext("web_fetch"))
		assert.False(t, result.Allowed)
		assert.Contains(t, result.Reason, "rate limit exceeded")
	})
}
