package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	capabilityDomain "github.com/allisson/actionguard/internal/capability/domain"
	capabilityUseCase "github.com/allisson/actionguard/internal/capability/usecase"
)

// checkActionOutput is the JSON shape emitted by check-action.
type checkActionOutput struct {
	Allowed              bool   `json:"allowed"`
	Reason               string `json:"reason,omitempty"`
	Capability           string `json:"capability,omitempty"`
	RequiresConfirmation bool   `json:"requires_confirmation,omitempty"`
}

// RunCheckAction validates a single action invocation against the loaded
// policy and writes the decision. A denial is a normal answer, not an error.
func RunCheckAction(
	ctx context.Context,
	validator capabilityUseCase.Validator,
	logger *slog.Logger,
	writer io.Writer,
	action string,
	domain string,
	path string,
	payloadSize int64,
	format string,
) error {
	logger.Info("checking action", slog.String("action", action))

	result := validator.Validate(ctx, &capabilityDomain.ActionContext{
		Action:      action,
		Domain:      domain,
		Path:        path,
		PayloadSize: payloadSize,
	})

	output := checkActionOutput{
		Allowed:              result.Allowed,
		Reason:               result.Reason,
		Capability:           result.Capability,
		RequiresConfirmation: result.RequiresConfirmation,
	}

	switch format {
	case "json":
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	case "text":
		if output.Allowed {
			fmt.Fprintf(writer, "allowed: %s\n", action)
			if output.RequiresConfirmation {
				fmt.Fprintln(writer, "requires confirmation before execution")
			}
		} else {
			fmt.Fprintf(writer, "denied: %s (%s)\n", action, output.Reason)
		}
	default:
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}

	return nil
}
