package dto

import "github.com/allisson/actionguard/internal/runtime"

// ExecuteResponse is the guard pipeline verdict plus, when a secret-bearing
// execution was requested and allowed, its outcome. The result never carries
// raw secret material.
type ExecuteResponse struct {
	Allowed              bool   `json:"allowed"`
	BlockedBy            string `json:"blocked_by,omitempty"`
	Reason               string `json:"reason,omitempty"`
	RequiresConfirmation bool   `json:"requires_confirmation"`
	Warning              string `json:"warning,omitempty"`
	Executed             bool   `json:"executed"`
	Success              bool   `json:"success"`
	Data                 any    `json:"data,omitempty"`
	Error                string `json:"error,omitempty"`
}

// FromProcessResult maps a pipeline verdict to the response form.
func FromProcessResult(result *runtime.ProcessResult) *ExecuteResponse {
	return &ExecuteResponse{
		Allowed:              result.Allowed,
		BlockedBy:            result.BlockedBy,
		Reason:               result.Reason,
		RequiresConfirmation: result.RequiresConfirmation,
		Warning:              result.Warning,
	}
}
