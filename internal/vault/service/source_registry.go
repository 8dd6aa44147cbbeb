package service

import (
	"fmt"

	apperrors "github.com/allisson/actionguard/internal/errors"
	vaultDomain "github.com/allisson/actionguard/internal/vault/domain"
)

// sourceRegistry implements SourceRegistry with a static kind map built at
// construction. Secret definitions are immutable after vault construction, so
// the registry needs no locking.
type sourceRegistry struct {
	sources map[vaultDomain.SourceKind]SecretSource
}

// NewSourceRegistry creates a SourceRegistry from the given sources.
func NewSourceRegistry(sources ...SecretSource) SourceRegistry {
	registry := &sourceRegistry{
		sources: make(map[vaultDomain.SourceKind]SecretSource, len(sources)),
	}
	for _, source := range sources {
		registry.sources[source.Kind()] = source
	}
	return registry
}

// Resolve resolves a secret definition's value through its source kind.
// Reserved kinds ("oauth", "external") are rejected explicitly so the error
// distinguishes "not yet supported" from a misconfigured kind.
func (r *sourceRegistry) Resolve(definition *vaultDomain.SecretDefinition) (string, error) {
	if definition.Source.Reserved() {
		return "", apperrors.Wrap(vaultDomain.ErrSourceReserved, string(definition.Source))
	}

	source, ok := r.sources[definition.Source]
	if !ok {
		return "", apperrors.Wrap(
			apperrors.ErrInvalidInput,
			fmt.Sprintf("no source registered for kind %q", definition.Source),
		)
	}

	return source.Resolve(definition.SourceRef)
}
