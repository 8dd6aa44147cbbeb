package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"time"

	"golang.org/x/crypto/hkdf"

	apperrors "github.com/allisson/actionguard/internal/errors"
	vaultDomain "github.com/allisson/actionguard/internal/vault/domain"
)

const (
	// macLength is the fixed HMAC-SHA256 output length used to split a decoded
	// token into payload and MAC.
	macLength = sha256.Size

	// nonceBytes is the nonce size: 128 bits of randomness per token.
	nonceBytes = 16
)

// tokenService implements TokenService using HMAC-SHA256 over a deterministic
// JSON payload encoding. The signing key lives only in process memory: it is
// generated at construction, never persisted and never derived from user input.
type tokenService struct {
	signingKey []byte
	now        func() time.Time
}

// NewTokenService creates a TokenService with a fresh random signing key.
// Tokens issued by one instance cannot be verified by another; a restart
// invalidates all outstanding tokens, which is the intended behavior for
// short-lived capability credentials.
func NewTokenService() (TokenService, error) {
	processKey := make([]byte, 32)
	if _, err := rand.Read(processKey); err != nil {
		return nil, apperrors.Wrap(err, "failed to generate signing key")
	}

	// Derive the MAC key from the process key via HKDF-SHA256, separating key
	// generation from key usage. Info is versioned for future algorithm changes.
	signingKey, err := deriveSigningKey(processKey)
	zero(processKey)
	if err != nil {
		return nil, err
	}

	return &tokenService{
		signingKey: signingKey,
		now:        time.Now,
	}, nil
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte MAC key.
func deriveSigningKey(processKey []byte) ([]byte, error) {
	info := []byte("capability-token-signing-v1")
	reader := hkdf.New(sha256.New, processKey, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(reader, signingKey); err != nil {
		return nil, apperrors.Wrap(err, "failed to derive signing key")
	}

	return signingKey, nil
}

// Issue mints a token: serialize the payload, MAC it, and encode payload||MAC
// as base64url.
func (t *tokenService) Issue(
	secretName string,
	operation vaultDomain.OperationKind,
	ttl time.Duration,
) (string, error) {
	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", apperrors.Wrap(err, "failed to generate token nonce")
	}

	now := t.now().UTC()
	payload := &vaultDomain.TokenPayload{
		SecretName: secretName,
		Operation:  operation,
		IssuedAt:   now.UnixNano(),
		ExpiresAt:  now.Add(ttl).UnixNano(),
		Nonce:      hex.EncodeToString(nonce),
	}

	// Struct field order makes the JSON encoding deterministic.
	serialized, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to serialize token payload")
	}

	mac := hmac.New(sha256.New, t.signingKey)
	mac.Write(serialized)
	signature := mac.Sum(nil)

	blob := make([]byte, 0, len(serialized)+macLength)
	blob = append(blob, serialized...)
	blob = append(blob, signature...)

	return base64.RawURLEncoding.EncodeToString(blob), nil
}

// Verify decodes a token, splits the MAC off using the fixed MAC length,
// recomputes the expected MAC with a constant-time comparison, and checks
// expiry. Malformed encoding, MAC length mismatch, MAC mismatch and expiry
// all return the same ErrTokenInvalid: the boundary must not leak which check
// failed.
func (t *tokenService) Verify(token string) (*vaultDomain.TokenPayload, error) {
	blob, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, vaultDomain.ErrTokenInvalid
	}

	// The MAC must be well-formed before any cryptographic step.
	if len(blob) <= macLength {
		return nil, vaultDomain.ErrTokenInvalid
	}

	serialized := blob[:len(blob)-macLength]
	signature := blob[len(blob)-macLength:]

	mac := hmac.New(sha256.New, t.signingKey)
	mac.Write(serialized)
	expected := mac.Sum(nil)

	if !hmac.Equal(signature, expected) {
		return nil, vaultDomain.ErrTokenInvalid
	}

	var payload vaultDomain.TokenPayload
	if err := json.Unmarshal(serialized, &payload); err != nil {
		return nil, vaultDomain.ErrTokenInvalid
	}

	if payload.Expired(t.now().UTC()) {
		return nil, vaultDomain.ErrTokenInvalid
	}

	return &payload, nil
}

// zero overwrites sensitive data in memory with zeros.
// Prevents key material from lingering in memory after use.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
