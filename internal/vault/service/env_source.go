package service

import (
	"fmt"
	"os"

	apperrors "github.com/allisson/actionguard/internal/errors"
	vaultDomain "github.com/allisson/actionguard/internal/vault/domain"
)

// envSecretSource resolves secrets from environment variables.
type envSecretSource struct{}

// NewEnvSecretSource creates the environment-variable secret source.
func NewEnvSecretSource() SecretSource {
	return &envSecretSource{}
}

// Kind identifies this source as "env".
func (s *envSecretSource) Kind() vaultDomain.SourceKind {
	return vaultDomain.SourceEnv
}

// Resolve looks up the environment variable named by ref. An unset or empty
// variable is reported as unavailable; registration of a secret does not
// guarantee its backing value exists.
func (s *envSecretSource) Resolve(ref string) (string, error) {
	value, ok := os.LookupEnv(ref)
	if !ok || value == "" {
		return "", apperrors.Wrap(vaultDomain.ErrSecretUnavailable, fmt.Sprintf("environment variable %q", ref))
	}
	return value, nil
}
