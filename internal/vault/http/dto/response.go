// Package dto provides data transfer objects for the secret metadata
// endpoints. Responses carry names only; secret values never appear in any
// response shape.
package dto

// SecretResponse describes one registered secret by name.
type SecretResponse struct {
	Name string `json:"name"`
}

// ListSecretsResponse is a paginated list of registered secret names.
type ListSecretsResponse struct {
	Secrets []SecretResponse `json:"secrets"`
	Offset  int              `json:"offset"`
	Limit   int              `json:"limit"`
	Total   int              `json:"total"`
}

// NewListSecretsResponse builds the response from an already paginated slice
// of names.
func NewListSecretsResponse(names []string, offset, limit, total int) *ListSecretsResponse {
	secrets := make([]SecretResponse, 0, len(names))
	for _, name := range names {
		secrets = append(secrets, SecretResponse{Name: name})
	}
	return &ListSecretsResponse{
		Secrets: secrets,
		Offset:  offset,
		Limit:   limit,
		Total:   total,
	}
}
