package usecase

import (
	"context"

	vaultDomain "github.com/allisson/actionguard/internal/vault/domain"
)

// vaultClient implements Client as a thin facade over a Vault. It deliberately
// has no wrapper for UseToken: the facade's whole point is that no reachable
// method returns raw secret material.
type vaultClient struct {
	vault Vault
}

// NewVaultClient creates the caller-facing vault facade.
func NewVaultClient(vault Vault) Client {
	return &vaultClient{vault: vault}
}

// ListSecrets returns registered secret names.
func (c *vaultClient) ListSecrets() []string {
	return c.vault.ListSecrets()
}

// HasSecret reports whether a secret name is registered.
func (c *vaultClient) HasSecret(name string) bool {
	return c.vault.HasSecret(name)
}

// MakeAuthenticatedRequest performs an HTTP request authenticated with the
// named secret through the built-in http_request executor.
func (c *vaultClient) MakeAuthenticatedRequest(
	ctx context.Context,
	secretName string,
	params map[string]any,
) *vaultDomain.ClientResult {
	return c.roundTrip(ctx, secretName, httpRequestExecutorName, params)
}

// ExecuteWithSecret performs a request-token/execute round trip against a
// named executor.
func (c *vaultClient) ExecuteWithSecret(
	ctx context.Context,
	secretName, executorName string,
	params map[string]any,
) *vaultDomain.ClientResult {
	return c.roundTrip(ctx, secretName, executorName, params)
}

// roundTrip requests a token and immediately spends it on one execution.
// The token never leaves this method.
func (c *vaultClient) roundTrip(
	ctx context.Context,
	secretName, executorName string,
	params map[string]any,
) *vaultDomain.ClientResult {
	tokenResult := c.vault.RequestToken(ctx, secretName, vaultDomain.OperationUse)
	if !tokenResult.Success {
		return &vaultDomain.ClientResult{Success: false, Error: tokenResult.Error}
	}

	executeResult := c.vault.Execute(ctx, &vaultDomain.ExecuteInput{
		Token:         tokenResult.Token,
		ExecuteAction: executorName,
		ExecuteParams: params,
	})
	if !executeResult.Success {
		return &vaultDomain.ClientResult{Success: false, Error: executeResult.Error}
	}

	return &vaultDomain.ClientResult{Success: true, Data: executeResult.Result}
}
