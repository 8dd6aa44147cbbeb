package usecase

import (
	"context"
	"time"

	"github.com/allisson/actionguard/internal/metrics"
	vaultDomain "github.com/allisson/actionguard/internal/vault/domain"
)

// vaultWithMetrics decorates Vault with metrics instrumentation.
type vaultWithMetrics struct {
	next    Vault
	metrics metrics.BusinessMetrics
}

// NewVaultWithMetrics wraps a Vault with metrics recording.
func NewVaultWithMetrics(vault Vault, m metrics.BusinessMetrics) Vault {
	return &vaultWithMetrics{
		next:    vault,
		metrics: m,
	}
}

// RequestToken records metrics for token issuance.
func (v *vaultWithMetrics) RequestToken(
	ctx context.Context,
	secretName string,
	operation vaultDomain.OperationKind,
) *vaultDomain.TokenResult {
	start := time.Now()
	result := v.next.RequestToken(ctx, secretName, operation)

	status := "success"
	if !result.Success {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", "request_token", status)
	v.metrics.RecordDuration(ctx, "vault", "request_token", time.Since(start), status)

	return result
}

// UseToken records metrics for token redemption.
func (v *vaultWithMetrics) UseToken(ctx context.Context, token string) *vaultDomain.UseResult {
	start := time.Now()
	result := v.next.UseToken(ctx, token)

	status := "success"
	if !result.Success {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", "use_token", status)
	v.metrics.RecordDuration(ctx, "vault", "use_token", time.Since(start), status)

	return result
}

// Execute records metrics for token-mediated executions.
func (v *vaultWithMetrics) Execute(
	ctx context.Context,
	input *vaultDomain.ExecuteInput,
) *vaultDomain.ExecuteResult {
	start := time.Now()
	result := v.next.Execute(ctx, input)

	status := "success"
	if !result.Success {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", "execute", status)
	v.metrics.RecordDuration(ctx, "vault", "execute", time.Since(start), status)

	return result
}

// RegisterExecutor delegates to the wrapped vault.
func (v *vaultWithMetrics) RegisterExecutor(name string, fn ExecutorFunc) {
	v.next.RegisterExecutor(name, fn)
}

// ListSecrets delegates to the wrapped vault.
func (v *vaultWithMetrics) ListSecrets() []string {
	return v.next.ListSecrets()
}

// HasSecret delegates to the wrapped vault.
func (v *vaultWithMetrics) HasSecret(name string) bool {
	return v.next.HasSecret(name)
}

// Close delegates to the wrapped vault.
func (v *vaultWithMetrics) Close() {
	v.next.Close()
}
