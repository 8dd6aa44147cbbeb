// Package domain defines the token-mediated secret vault domain models.
// Secrets are exchanged for their effect through signed, time-bounded,
// single-use capability tokens; raw secret values never cross the vault
// client boundary.
package domain

// SourceKind identifies where a secret's value is resolved from.
type SourceKind string

const (
	// SourceEnv resolves the secret from an environment variable.
	SourceEnv SourceKind = "env"

	// SourceOAuth is reserved for a future OAuth-backed source.
	SourceOAuth SourceKind = "oauth"

	// SourceExternal is reserved for a future external secret manager source.
	SourceExternal SourceKind = "external"
)

// Reserved reports whether the kind is declared but not yet implemented.
func (k SourceKind) Reserved() bool {
	return k == SourceOAuth || k == SourceExternal
}

// OperationKind is the operation a capability token is scoped to.
type OperationKind string

const (
	// OperationRead scopes a token to reading the secret's effect.
	OperationRead OperationKind = "read"

	// OperationUse scopes a token to using the secret in an executor.
	OperationUse OperationKind = "use"
)
