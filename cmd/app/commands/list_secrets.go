package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	vaultUseCase "github.com/allisson/actionguard/internal/vault/usecase"
)

// listSecretsOutput is the JSON shape emitted by list-secrets.
type listSecretsOutput struct {
	Secrets []string `json:"secrets"`
}

// RunListSecrets writes the secret names declared in the policy document.
// Names only, never values.
func RunListSecrets(client vaultUseCase.Client, writer io.Writer, format string) error {
	names := client.ListSecrets()
	sort.Strings(names)

	switch format {
	case "json":
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(listSecretsOutput{Secrets: names}); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	case "text":
		if len(names) == 0 {
			fmt.Fprintln(writer, "no secrets declared")
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(writer, name)
		}
	default:
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}

	return nil
}
