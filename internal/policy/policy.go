// Package policy defines the declarative YAML policy document that drives the
// validator and the vault: capabilities with their constraints, the global
// constraint block, and the secret registrations.
package policy

import (
	"time"

	validation "github.com/jellydator/validation"

	capabilityDomain "github.com/allisson/actionguard/internal/capability/domain"
	appvalidation "github.com/allisson/actionguard/internal/validation"
	vaultDomain "github.com/allisson/actionguard/internal/vault/domain"
)

// Document is the root of a policy file.
type Document struct {
	ModelStrength   string                      `yaml:"model_strength"`
	TokenTTLSeconds int                         `yaml:"token_ttl_seconds"`
	VaultEnabled    *bool                       `yaml:"vault_enabled"`
	Global          *GlobalEntry                `yaml:"global"`
	Capabilities    map[string]*CapabilityEntry `yaml:"capabilities"`
	Secrets         map[string]*SecretEntry     `yaml:"secrets"`
}

// GlobalEntry is the cross-capability constraint block.
type GlobalEntry struct {
	MaxRatePerMinute          int      `yaml:"max_rate_per_minute"`
	AlwaysRequireConfirmation []string `yaml:"always_require_confirmation"`
	BlockedDomains            []string `yaml:"blocked_domains"`
}

// CapabilityEntry declares one capability. Enabled defaults to true when the
// key is omitted.
type CapabilityEntry struct {
	Enabled     *bool            `yaml:"enabled"`
	Constraints *ConstraintEntry `yaml:"constraints"`
}

// ConstraintEntry mirrors the constraint vocabulary of a capability.
type ConstraintEntry struct {
	AllowedDomains      []string `yaml:"allowed_domains"`
	BlockedDomains      []string `yaml:"blocked_domains"`
	AllowedPaths        []string `yaml:"allowed_paths"`
	BlockedPaths        []string `yaml:"blocked_paths"`
	MaxPayloadBytes     int64    `yaml:"max_payload_bytes"`
	RatePerMinute       int      `yaml:"rate_per_minute"`
	RequireConfirmation bool     `yaml:"require_confirmation"`
	Predicate           string   `yaml:"predicate"`
	PredicateExpr       string   `yaml:"predicate_expr"`
}

// SecretEntry registers one named secret with its resolution source.
type SecretEntry struct {
	Source    string `yaml:"source"`
	SourceRef string `yaml:"source_ref"`
}

// Validate checks the document and every nested entry.
func (d *Document) Validate() error {
	err := validation.ValidateStruct(d,
		validation.Field(&d.ModelStrength, appvalidation.ModelStrength),
		validation.Field(&d.TokenTTLSeconds, validation.Min(0)),
		validation.Field(&d.Global),
		validation.Field(&d.Capabilities),
		validation.Field(&d.Secrets),
	)
	if err != nil {
		return err
	}

	for name := range d.Capabilities {
		if err := validation.Validate(name, validation.Required, appvalidation.NotBlank, appvalidation.NoWhitespace); err != nil {
			return validation.Errors{name: err}
		}
	}
	for name, entry := range d.Secrets {
		if err := validation.Validate(name, validation.Required, appvalidation.NotBlank, appvalidation.NoWhitespace); err != nil {
			return validation.Errors{name: err}
		}
		if entry == nil {
			return validation.Errors{name: validation.NewError("validation_secret_entry", "must declare a source")}
		}
	}
	return nil
}

// Validate checks the global constraint block.
func (g *GlobalEntry) Validate() error {
	return validation.ValidateStruct(g,
		validation.Field(&g.MaxRatePerMinute, validation.Min(0)),
		validation.Field(&g.AlwaysRequireConfirmation, validation.Each(appvalidation.NotBlank)),
		validation.Field(&g.BlockedDomains, validation.Each(appvalidation.GlobPattern)),
	)
}

// Validate checks one capability entry.
func (c *CapabilityEntry) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Constraints),
	)
}

// Validate checks one constraint entry.
func (c *ConstraintEntry) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.AllowedDomains, validation.Each(appvalidation.GlobPattern)),
		validation.Field(&c.BlockedDomains, validation.Each(appvalidation.GlobPattern)),
		validation.Field(&c.AllowedPaths, validation.Each(appvalidation.GlobPattern)),
		validation.Field(&c.BlockedPaths, validation.Each(appvalidation.GlobPattern)),
		validation.Field(&c.MaxPayloadBytes, validation.Min(0)),
		validation.Field(&c.RatePerMinute, validation.Min(0)),
	)
}

// Validate checks one secret entry.
func (s *SecretEntry) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Source, validation.Required, appvalidation.SecretSourceKind),
		validation.Field(&s.SourceRef, validation.Required, appvalidation.NotBlank),
	)
}

// Strength returns the declared model strength, defaulting to medium.
func (d *Document) Strength() capabilityDomain.ModelStrength {
	if d.ModelStrength == "" {
		return capabilityDomain.ModelStrengthMedium
	}
	return capabilityDomain.ModelStrength(d.ModelStrength)
}

// TokenTTL returns the declared token lifetime, or zero when unset.
func (d *Document) TokenTTL() time.Duration {
	return time.Duration(d.TokenTTLSeconds) * time.Second
}

// VaultIsEnabled reports whether the vault should run. Omitting the key
// enables it.
func (d *Document) VaultIsEnabled() bool {
	if d.VaultEnabled == nil {
		return true
	}
	return *d.VaultEnabled
}

// GlobalConstraints converts the global block to its domain form.
func (d *Document) GlobalConstraints() *capabilityDomain.GlobalConstraints {
	if d.Global == nil {
		return nil
	}
	return &capabilityDomain.GlobalConstraints{
		MaxRatePerMinute:          d.Global.MaxRatePerMinute,
		AlwaysRequireConfirmation: d.Global.AlwaysRequireConfirmation,
		BlockedDomains:            d.Global.BlockedDomains,
	}
}

// CapabilityList converts the capability entries to their domain form.
func (d *Document) CapabilityList() []*capabilityDomain.Capability {
	capabilities := make([]*capabilityDomain.Capability, 0, len(d.Capabilities))
	for name, entry := range d.Capabilities {
		if entry == nil {
			entry = &CapabilityEntry{}
		}
		capability := &capabilityDomain.Capability{
			Name:    name,
			Enabled: entry.Enabled == nil || *entry.Enabled,
		}
		if entry.Constraints != nil {
			capability.Constraints = &capabilityDomain.ConstraintSet{
				AllowedDomains:      entry.Constraints.AllowedDomains,
				BlockedDomains:      entry.Constraints.BlockedDomains,
				AllowedPaths:        entry.Constraints.AllowedPaths,
				BlockedPaths:        entry.Constraints.BlockedPaths,
				MaxPayloadBytes:     entry.Constraints.MaxPayloadBytes,
				RatePerMinute:       entry.Constraints.RatePerMinute,
				RequireConfirmation: entry.Constraints.RequireConfirmation,
				Predicate:           entry.Constraints.Predicate,
				PredicateExpr:       entry.Constraints.PredicateExpr,
			}
		}
		capabilities = append(capabilities, capability)
	}
	return capabilities
}

// SecretDefinitions converts the secret entries to their domain form.
func (d *Document) SecretDefinitions() []*vaultDomain.SecretDefinition {
	definitions := make([]*vaultDomain.SecretDefinition, 0, len(d.Secrets))
	for name, entry := range d.Secrets {
		definitions = append(definitions, &vaultDomain.SecretDefinition{
			Name:      name,
			Source:    vaultDomain.SourceKind(entry.Source),
			SourceRef: entry.SourceRef,
		})
	}
	return definitions
}
