// Package usecase implements the secret vault and its caller-facing client.
// The vault owns the token lifecycle (issued, consumed, expired, invalid), the
// used-nonce set and the executor registry; the client facade is the only
// surface exposed to untrusted callers and cannot return raw secret values.
package usecase

import (
	"context"

	vaultDomain "github.com/allisson/actionguard/internal/vault/domain"
)

// ExecutorFunc performs an action using a resolved secret and returns only a
// result. The secret must never appear in the returned value.
type ExecutorFunc func(ctx context.Context, secret string, params map[string]any) (any, error)

// Vault is the trusted side of the secret boundary.
type Vault interface {
	// RequestToken issues a capability token scoped to the named secret.
	RequestToken(ctx context.Context, secretName string, operation vaultDomain.OperationKind) *vaultDomain.TokenResult

	// UseToken redeems a token for the raw secret value. This is the only path
	// that ever returns a raw secret; it exists for trusted in-process
	// executors and must never be reachable from outside the vault boundary.
	UseToken(ctx context.Context, token string) *vaultDomain.UseResult

	// Execute redeems a token and runs a registered executor with the resolved
	// secret. Only the executor's result crosses the return boundary.
	Execute(ctx context.Context, input *vaultDomain.ExecuteInput) *vaultDomain.ExecuteResult

	// RegisterExecutor associates an action name with an executor function.
	RegisterExecutor(name string, fn ExecutorFunc)

	// ListSecrets returns registered secret names. Metadata only.
	ListSecrets() []string

	// HasSecret reports whether a secret name is registered. Metadata only.
	HasSecret(name string) bool

	// Close stops the background nonce sweep. Safe to call more than once.
	Close()
}

// Client is the untrusted-caller facade over the vault. The asymmetry is the
// security property: no Client method can return a raw secret value, even
// under full caller control of the inputs.
type Client interface {
	// ListSecrets returns registered secret names.
	ListSecrets() []string

	// HasSecret reports whether a secret name is registered.
	HasSecret(name string) bool

	// MakeAuthenticatedRequest performs an HTTP request authenticated with the
	// named secret via the built-in http_request executor.
	MakeAuthenticatedRequest(ctx context.Context, secretName string, params map[string]any) *vaultDomain.ClientResult

	// ExecuteWithSecret performs a request-token/execute round trip against a
	// named executor.
	ExecuteWithSecret(ctx context.Context, secretName, executorName string, params map[string]any) *vaultDomain.ClientResult
}
