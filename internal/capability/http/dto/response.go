package dto

import (
	capabilityDomain "github.com/allisson/actionguard/internal/capability/domain"
)

// ValidationResponse is the decision returned for one validation call.
type ValidationResponse struct {
	Allowed              bool   `json:"allowed"`
	Reason               string `json:"reason,omitempty"`
	Capability           string `json:"capability"`
	RequiresConfirmation bool   `json:"requires_confirmation"`
}

// FromValidationResult maps a domain result to its response form.
func FromValidationResult(result *capabilityDomain.ValidationResult) *ValidationResponse {
	return &ValidationResponse{
		Allowed:              result.Allowed,
		Reason:               result.Reason,
		Capability:           result.Capability,
		RequiresConfirmation: result.RequiresConfirmation,
	}
}
