// Package http provides HTTP handlers for secret metadata. Only names cross
// this boundary; there is deliberately no endpoint that returns a secret
// value or a capability token.
package http

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/allisson/actionguard/internal/httputil"
	vaultDomain "github.com/allisson/actionguard/internal/vault/domain"
	"github.com/allisson/actionguard/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/actionguard/internal/vault/usecase"
)

// VaultHandler handles HTTP requests for secret metadata.
type VaultHandler struct {
	client vaultUseCase.Client
	logger *slog.Logger
}

// NewVaultHandler creates a new vault handler.
func NewVaultHandler(client vaultUseCase.Client, logger *slog.Logger) *VaultHandler {
	return &VaultHandler{
		client: client,
		logger: logger,
	}
}

// Register mounts the secret metadata routes.
func (h *VaultHandler) Register(group *gin.RouterGroup) {
	group.GET("/secrets", h.ListHandler)
	group.GET("/secrets/:name", h.GetHandler)
}

// ListHandler lists registered secret names.
// GET /v1/secrets
func (h *VaultHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	names := h.client.ListSecrets()
	sort.Strings(names)
	total := len(names)

	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, dto.NewListSecretsResponse(names[offset:end], offset, limit, total))
}

// GetHandler reports whether a secret name is registered.
// GET /v1/secrets/:name
func (h *VaultHandler) GetHandler(c *gin.Context) {
	name := c.Param("name")

	if !h.client.HasSecret(name) {
		httputil.HandleErrorGin(c, vaultDomain.ErrSecretNotFound, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.SecretResponse{Name: name})
}
