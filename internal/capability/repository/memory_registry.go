// Package repository provides the in-memory capability registry. Capabilities
// are loaded once from the declarative policy document; there is no persistent
// store behind the registry.
package repository

import (
	capabilityDomain "github.com/allisson/actionguard/internal/capability/domain"
	capabilityUseCase "github.com/allisson/actionguard/internal/capability/usecase"
)

// memoryCapabilityRegistry implements CapabilityRegistry with a map built at
// construction time. The source capabilities are kept unscaled; each registry
// instance holds its own derived snapshot so model-strength scaling never
// mutates configuration observed by other validators.
type memoryCapabilityRegistry struct {
	source       []*capabilityDomain.Capability
	global       *capabilityDomain.GlobalConstraints
	strength     capabilityDomain.ModelStrength
	capabilities map[string]*capabilityDomain.Capability
	scaledGlobal *capabilityDomain.GlobalConstraints
}

// NewMemoryCapabilityRegistry creates a registry from declared capabilities and
// global constraints, deriving a snapshot scaled for the given model strength.
func NewMemoryCapabilityRegistry(
	capabilities []*capabilityDomain.Capability,
	global *capabilityDomain.GlobalConstraints,
	strength capabilityDomain.ModelStrength,
) capabilityUseCase.CapabilityRegistry {
	registry := &memoryCapabilityRegistry{
		source:   capabilities,
		global:   global,
		strength: strength,
	}
	registry.derive()
	return registry
}

// derive builds the scaled capability map from the unscaled source.
func (r *memoryCapabilityRegistry) derive() {
	factor := r.strength.Factor()

	r.capabilities = make(map[string]*capabilityDomain.Capability, len(r.source))
	for _, capability := range r.source {
		scaled := &capabilityDomain.Capability{
			Name:        capability.Name,
			Enabled:     capability.Enabled,
			Constraints: capability.Constraints.Scaled(factor),
		}
		r.capabilities[capability.Name] = scaled
	}

	if r.global != nil {
		scaledGlobal := *r.global
		if scaledGlobal.MaxRatePerMinute > 0 {
			scaledGlobal.MaxRatePerMinute = int(float64(scaledGlobal.MaxRatePerMinute) * factor)
			if scaledGlobal.MaxRatePerMinute < 1 {
				scaledGlobal.MaxRatePerMinute = 1
			}
		}
		r.scaledGlobal = &scaledGlobal
	}
}

// Get returns the named capability or ErrCapabilityNotFound.
func (r *memoryCapabilityRegistry) Get(name string) (*capabilityDomain.Capability, error) {
	capability, ok := r.capabilities[name]
	if !ok {
		return nil, capabilityDomain.ErrCapabilityNotFound
	}
	return capability, nil
}

// All returns every registered capability.
func (r *memoryCapabilityRegistry) All() []*capabilityDomain.Capability {
	all := make([]*capabilityDomain.Capability, 0, len(r.capabilities))
	for _, capability := range r.capabilities {
		all = append(all, capability)
	}
	return all
}

// Global returns the scaled global constraints, possibly nil.
func (r *memoryCapabilityRegistry) Global() *capabilityDomain.GlobalConstraints {
	return r.scaledGlobal
}

// Scaled returns a new registry derived from the same source capabilities with
// a different model strength. The receiver is left untouched.
func (r *memoryCapabilityRegistry) Scaled(
	strength capabilityDomain.ModelStrength,
) capabilityUseCase.CapabilityRegistry {
	return NewMemoryCapabilityRegistry(r.source, r.global, strength)
}
