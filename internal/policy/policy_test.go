package policy_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	capabilityDomain "github.com/allisson/actionguard/internal/capability/domain"
	apperrors "github.com/allisson/actionguard/internal/errors"
	"github.com/allisson/actionguard/internal/policy"
	vaultDomain "github.com/allisson/actionguard/internal/vault/domain"
)

const samplePolicy = `
model_strength: strong
token_ttl_seconds: 120
vault_enabled: true
global:
  max_rate_per_minute: 120
  always_require_confirmation: [shell_exec]
  blocked_domains: ["*.internal"]
capabilities:
  web_fetch:
    enabled: true
    constraints:
      allowed_domains: ["*.example.com"]
      blocked_domains: ["evil.example.com"]
      max_payload_bytes: 1048576
      rate_per_minute: 30
  file_read:
    constraints:
      blocked_paths: ["**/.env", "**/id_rsa"]
  shell_exec:
    enabled: false
secrets:
  GITHUB_TOKEN:
    source: env
    source_ref: GITHUB_TOKEN
`

func TestParse(t *testing.T) {
	t.Run("Success_FullDocument", func(t *testing.T) {
		document, err := policy.Parse([]byte(samplePolicy))
		require.NoError(t, err)

		assert.Equal(t, capabilityDomain.ModelStrengthStrong, document.Strength())
		assert.Equal(t, 120*time.Second, document.TokenTTL())
		assert.True(t, document.VaultIsEnabled())

		global := document.GlobalConstraints()
		require.NotNil(t, global)
		assert.Equal(t, 120, global.MaxRatePerMinute)
		assert.True(t, global.RequiresConfirmation("shell_exec"))
		assert.Equal(t, []string{"*.internal"}, global.BlockedDomains)
	})

	t.Run("Success_CapabilityDefaults", func(t *testing.T) {
		document, err := policy.Parse([]byte(samplePolicy))
		require.NoError(t, err)

		byName := map[string]*capabilityDomain.Capability{}
		for _, capability := range document.CapabilityList() {
			byName[capability.Name] = capability
		}
		require.Len(t, byName, 3)

		// enabled omitted means enabled.
		assert.True(t, byName["file_read"].Enabled)
		assert.False(t, byName["shell_exec"].Enabled)
		assert.Equal(t, int64(1048576), byName["web_fetch"].Constraints.MaxPayloadBytes)
		assert.Equal(t, []string{"**/.env", "**/id_rsa"}, byName["file_read"].Constraints.BlockedPaths)
		assert.Nil(t, byName["shell_exec"].Constraints)
	})

	t.Run("Success_SecretDefinitions", func(t *testing.T) {
		document, err := policy.Parse([]byte(samplePolicy))
		require.NoError(t, err)

		definitions := document.SecretDefinitions()
		require.Len(t, definitions, 1)
		assert.Equal(t, "GITHUB_TOKEN", definitions[0].Name)
		assert.Equal(t, vaultDomain.SourceEnv, definitions[0].Source)
		assert.Equal(t, "GITHUB_TOKEN", definitions[0].SourceRef)
	})

	t.Run("Success_EmptyDocumentDefaults", func(t *testing.T) {
		document, err := policy.Parse([]byte("{}"))
		require.NoError(t, err)

		assert.Equal(t, capabilityDomain.ModelStrengthMedium, document.Strength())
		assert.Equal(t, time.Duration(0), document.TokenTTL())
		assert.True(t, document.VaultIsEnabled())
		assert.Nil(t, document.GlobalConstraints())
		assert.Empty(t, document.CapabilityList())
		assert.Empty(t, document.SecretDefinitions())
	})

	t.Run("Error_MalformedYAML", func(t *testing.T) {
		_, err := policy.Parse([]byte("capabilities: ["))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_UnknownModelStrength", func(t *testing.T) {
		_, err := policy.Parse([]byte("model_strength: colossal"))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_NegativeRate", func(t *testing.T) {
		document := `
capabilities:
  web_fetch:
    constraints:
      rate_per_minute: -1
`
		_, err := policy.Parse([]byte(document))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_UnknownSecretSource", func(t *testing.T) {
		document := `
secrets:
  TOKEN:
    source: carrier_pigeon
    source_ref: TOKEN
`
		_, err := policy.Parse([]byte(document))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_SecretWithoutSource", func(t *testing.T) {
		_, err := policy.Parse([]byte("secrets:\n  TOKEN:\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestLoad(t *testing.T) {
	t.Run("Success_FromFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yml")
		require.NoError(t, os.WriteFile(path, []byte(samplePolicy), 0o600))

		document, err := policy.Load(path)
		require.NoError(t, err)
		assert.Len(t, document.CapabilityList(), 3)
	})

	t.Run("Error_MissingFile", func(t *testing.T) {
		_, err := policy.Load(filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
