// Package dto provides data transfer objects for the guarded execute endpoint.
package dto

import (
	validation "github.com/jellydator/validation"

	capabilityDomain "github.com/allisson/actionguard/internal/capability/domain"
	"github.com/allisson/actionguard/internal/runtime"
	appvalidation "github.com/allisson/actionguard/internal/validation"
)

// ClassifierVerdict is a caller-supplied pre-filter verdict.
type ClassifierVerdict struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason"`
}

// ActionRequest is the capability-validation part of an execute request.
type ActionRequest struct {
	Action      string         `json:"action" binding:"required"`
	Domain      string         `json:"domain"`
	Path        string         `json:"path"`
	PayloadSize *int64         `json:"payload_size"`
	Payload     map[string]any `json:"payload"`
}

// ExecuteRequest runs one agent step through the guard pipeline and,
// optionally, a secret-bearing executor.
type ExecuteRequest struct {
	Text       string             `json:"text"`
	Classifier *ClassifierVerdict `json:"classifier"`
	Action     *ActionRequest     `json:"action"`
	SecretName string             `json:"secret_name"`
	Executor   string             `json:"executor"`
	Params     map[string]any     `json:"params"`
}

// Validate checks if the execute request is valid.
func (r *ExecuteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Action),
		validation.Field(&r.SecretName, appvalidation.NoWhitespace),
		validation.Field(&r.Executor,
			validation.Required.When(r.SecretName != "").Error("cannot be blank when secret_name is set"),
		),
	)
}

// Validate checks the nested action request.
func (r *ActionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Action,
			validation.Required,
			appvalidation.NotBlank,
			appvalidation.NoWhitespace,
		),
		validation.Field(&r.PayloadSize, validation.Min(0)),
	)
}

// ToProcessInput converts the request to the orchestrator input form.
func (r *ExecuteRequest) ToProcessInput() *runtime.ProcessInput {
	input := &runtime.ProcessInput{Text: r.Text}
	if r.Classifier != nil {
		input.Verdict = &runtime.Classification{
			Blocked: r.Classifier.Blocked,
			Reason:  r.Classifier.Reason,
		}
	}
	if r.Action != nil {
		actionCtx := &capabilityDomain.ActionContext{
			Action:      r.Action.Action,
			Domain:      r.Action.Domain,
			Path:        r.Action.Path,
			PayloadSize: -1,
			Payload:     r.Action.Payload,
		}
		if r.Action.PayloadSize != nil {
			actionCtx.PayloadSize = *r.Action.PayloadSize
		}
		input.Action = actionCtx
	}
	return input
}
