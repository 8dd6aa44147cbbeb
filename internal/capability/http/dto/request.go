// Package dto provides data transfer objects for the validation endpoint.
package dto

import (
	validation "github.com/jellydator/validation"

	capabilityDomain "github.com/allisson/actionguard/internal/capability/domain"
	appvalidation "github.com/allisson/actionguard/internal/validation"
)

// ValidateActionRequest contains one candidate action invocation. PayloadSize
// is a pointer so an absent size can be told apart from an explicit zero.
type ValidateActionRequest struct {
	Action      string         `json:"action" binding:"required"`
	Domain      string         `json:"domain"`
	Path        string         `json:"path"`
	PayloadSize *int64         `json:"payload_size"`
	Payload     map[string]any `json:"payload"`
}

// Validate checks if the validate action request is valid.
func (r *ValidateActionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Action,
			validation.Required,
			appvalidation.NotBlank,
			appvalidation.NoWhitespace,
		),
		validation.Field(&r.PayloadSize, validation.Min(0)),
	)
}

// ToActionContext converts the request to its domain form.
func (r *ValidateActionRequest) ToActionContext() *capabilityDomain.ActionContext {
	actionCtx := &capabilityDomain.ActionContext{
		Action:      r.Action,
		Domain:      r.Domain,
		Path:        r.Path,
		PayloadSize: -1,
		Payload:     r.Payload,
	}
	if r.PayloadSize != nil {
		actionCtx.PayloadSize = *r.PayloadSize
	}
	return actionCtx
}
