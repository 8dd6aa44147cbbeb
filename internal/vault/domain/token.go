package domain

import "time"

// TokenPayload is the signed content of a capability token. The nonce makes
// each issuance unique; the vault records consumed nonces so a token can be
// used at most once.
// IssuedAt and ExpiresAt are nanosecond Unix timestamps: a zero TTL makes
// the token expired at the instant it was issued.
type TokenPayload struct {
	SecretName string        `json:"secret_name"`
	Operation  OperationKind `json:"operation"`
	IssuedAt   int64         `json:"issued_at"`
	ExpiresAt  int64         `json:"expires_at"`
	Nonce      string        `json:"nonce"`
}

// Expired reports whether the payload's expiry has been reached at the given
// time. The expiry instant itself counts as expired.
func (p *TokenPayload) Expired(now time.Time) bool {
	return now.UnixNano() >= p.ExpiresAt
}

// TokenResult is the outcome of a token request.
type TokenResult struct {
	Success bool
	Token   string
	Error   string
}

// UseResult is the outcome of redeeming a token for a raw secret value.
// Only trusted in-process executors may ever see it.
type UseResult struct {
	Success bool
	Value   string
	Error   string
}

// ExecuteInput describes a token-mediated executor invocation.
type ExecuteInput struct {
	Token         string
	ExecuteAction string
	ExecuteParams map[string]any
}

// ExecuteResult is the outcome of a token-mediated execution. The secret
// itself never appears in it; only the executor's result does.
type ExecuteResult struct {
	Success bool
	Result  any
	Error   string
}

// ClientResult is the outcome shape exposed by the vault client facade.
type ClientResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
