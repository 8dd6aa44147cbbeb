// Package http provides the HTTP handler for the guarded execute pipeline.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/actionguard/internal/httputil"
	"github.com/allisson/actionguard/internal/runtime"
	"github.com/allisson/actionguard/internal/runtime/http/dto"
	customValidation "github.com/allisson/actionguard/internal/validation"
)

// RuntimeHandler handles HTTP requests for guarded execution.
type RuntimeHandler struct {
	orchestrator *runtime.Orchestrator
	logger       *slog.Logger
}

// NewRuntimeHandler creates a new runtime handler.
func NewRuntimeHandler(orchestrator *runtime.Orchestrator, logger *slog.Logger) *RuntimeHandler {
	return &RuntimeHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// Register mounts the execute route.
func (h *RuntimeHandler) Register(group *gin.RouterGroup) {
	group.POST("/execute", h.ExecuteHandler)
}

// ExecuteHandler runs one agent step through classifier, validator, and
// optionally a secret-bearing executor. Policy blocks are 200 responses with
// allowed set to false.
// POST /v1/execute
func (h *RuntimeHandler) ExecuteHandler(c *gin.Context) {
	var req dto.ExecuteRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result := h.orchestrator.Process(c.Request.Context(), req.ToProcessInput())
	response := dto.FromProcessResult(result)

	// Stop here on a block, a confirmation requirement, or when no
	// secret-bearing execution was requested.
	if !result.Allowed || result.RequiresConfirmation || req.SecretName == "" {
		c.JSON(http.StatusOK, response)
		return
	}

	clientResult := h.orchestrator.Client().ExecuteWithSecret(
		c.Request.Context(),
		req.SecretName,
		req.Executor,
		req.Params,
	)
	response.Executed = true
	response.Success = clientResult.Success
	response.Data = clientResult.Data
	response.Error = clientResult.Error

	c.JSON(http.StatusOK, response)
}
