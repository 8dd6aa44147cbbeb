// Package service provides capability token issuance/verification and secret
// source resolution for the vault.
package service

import (
	"time"

	vaultDomain "github.com/allisson/actionguard/internal/vault/domain"
)

// TokenService mints and verifies signed, time-bounded, single-use capability
// tokens scoped to one named secret. Implementations are stateless: nonce
// consumption is the vault's responsibility, which keeps verification pure and
// freely parallelizable.
type TokenService interface {
	// Issue mints a token for the named secret and operation with the given TTL.
	Issue(secretName string, operation vaultDomain.OperationKind, ttl time.Duration) (string, error)

	// Verify checks a token's signature and expiry and returns its payload.
	// Every failure mode collapses to ErrTokenInvalid.
	Verify(token string) (*vaultDomain.TokenPayload, error)
}

// SecretSource resolves a secret value from one kind of backing store.
type SecretSource interface {
	// Kind identifies the source kind this implementation serves.
	Kind() vaultDomain.SourceKind

	// Resolve returns the secret value for a source-specific reference.
	// Returns ErrSecretUnavailable when the store has no value for it.
	Resolve(ref string) (string, error)
}

// SourceRegistry maps source kinds to their implementations.
type SourceRegistry interface {
	// Resolve looks up the definition's source kind and resolves its value.
	Resolve(definition *vaultDomain.SecretDefinition) (string, error)
}
