// Package http provides the HTTP handler for action validation. A policy
// denial is a successful evaluation, so denials are returned as 200 responses
// with allowed set to false.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/actionguard/internal/capability/http/dto"
	capabilityUseCase "github.com/allisson/actionguard/internal/capability/usecase"
	"github.com/allisson/actionguard/internal/httputil"
	customValidation "github.com/allisson/actionguard/internal/validation"
)

// ValidatorHandler handles HTTP requests for action validation.
type ValidatorHandler struct {
	validator capabilityUseCase.Validator
	logger    *slog.Logger
}

// NewValidatorHandler creates a new validator handler.
func NewValidatorHandler(validator capabilityUseCase.Validator, logger *slog.Logger) *ValidatorHandler {
	return &ValidatorHandler{
		validator: validator,
		logger:    logger,
	}
}

// Register mounts the validation routes.
func (h *ValidatorHandler) Register(group *gin.RouterGroup) {
	group.POST("/validate", h.ValidateHandler)
}

// ValidateHandler validates one candidate action invocation.
// POST /v1/validate
func (h *ValidatorHandler) ValidateHandler(c *gin.Context) {
	var req dto.ValidateActionRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result := h.validator.Validate(c.Request.Context(), req.ToActionContext())

	c.JSON(http.StatusOK, dto.FromValidationResult(result))
}
