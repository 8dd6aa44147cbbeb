package policy

import (
	"os"

	"github.com/goccy/go-yaml"

	apperrors "github.com/allisson/actionguard/internal/errors"
	appvalidation "github.com/allisson/actionguard/internal/validation"
)

// Load reads, parses, and validates a policy document from a YAML file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "read policy file: "+err.Error())
	}
	return Parse(data)
}

// Parse parses and validates a policy document from raw YAML bytes.
func Parse(data []byte) (*Document, error) {
	var document Document
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "parse policy document: "+err.Error())
	}
	if err := document.Validate(); err != nil {
		return nil, appvalidation.WrapValidationError(err)
	}
	return &document, nil
}
