package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	vaultDomain "github.com/allisson/actionguard/internal/vault/domain"
	vaultService "github.com/allisson/actionguard/internal/vault/service"
	vaultUseCase "github.com/allisson/actionguard/internal/vault/usecase"
)

func newTestClient(t *testing.T, definitions []*vaultDomain.SecretDefinition) vaultUseCase.Client {
	t.Helper()

	tokenService, err := vaultService.NewTokenService()
	require.NoError(t, err)

	vault := vaultUseCase.NewSecretVault(
		vaultUseCase.Config{Enabled: true},
		tokenService,
		vaultService.NewSourceRegistry(vaultService.NewEnvSecretSource()),
		definitions,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	t.Cleanup(vault.Close)

	return vaultUseCase.NewVaultClient(vault)
}

func TestRunListSecrets(t *testing.T) {
	definitions := []*vaultDomain.SecretDefinition{
		{Name: "SLACK_TOKEN", Source: vaultDomain.SourceEnv, SourceRef: "LIST_TEST_SLACK_TOKEN"},
		{Name: "GITHUB_TOKEN", Source: vaultDomain.SourceEnv, SourceRef: "LIST_TEST_GITHUB_TOKEN"},
	}

	t.Run("text-sorted", func(t *testing.T) {
		var out bytes.Buffer

		err := RunListSecrets(newTestClient(t, definitions), &out, "text")

		require.NoError(t, err)
		require.Equal(t, "GITHUB_TOKEN\nSLACK_TOKEN\n", out.String())
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer

		err := RunListSecrets(newTestClient(t, definitions), &out, "json")

		require.NoError(t, err)

		var decoded listSecretsOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		require.Equal(t, []string{"GITHUB_TOKEN", "SLACK_TOKEN"}, decoded.Secrets)
	})

	t.Run("empty", func(t *testing.T) {
		var out bytes.Buffer

		err := RunListSecrets(newTestClient(t, nil), &out, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "no secrets declared")
	})

	t.Run("invalid-format", func(t *testing.T) {
		var out bytes.Buffer

		err := RunListSecrets(newTestClient(t, definitions), &out, "yaml")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid format")
	})
}
