package domain

import (
	"github.com/allisson/actionguard/internal/errors"
)

// Vault domain errors. Credential failures are deliberately coarse: malformed
// encoding, signature mismatch and expiry all collapse to ErrTokenInvalid so
// an adversary probing the boundary cannot tell which check failed.
var (
	// ErrSecretNotFound indicates the named secret is not registered.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "unknown secret")

	// ErrTokenInvalid indicates a token failed verification or expired.
	ErrTokenInvalid = errors.New("token invalid or expired")

	// ErrTokenAlreadyUsed indicates a token's nonce was already consumed.
	ErrTokenAlreadyUsed = errors.New("token already used")

	// ErrSecretUnavailable indicates the secret's backing source has no value.
	ErrSecretUnavailable = errors.New("secret value not available")

	// ErrExecutorNotFound indicates no executor is registered for the action.
	ErrExecutorNotFound = errors.Wrap(errors.ErrNotFound, "unknown executor action")

	// ErrSourceReserved indicates a secret declares a reserved source kind.
	ErrSourceReserved = errors.Wrap(errors.ErrInvalidInput, "secret source kind is reserved")
)
