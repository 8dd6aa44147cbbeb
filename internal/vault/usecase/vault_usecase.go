package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	vaultDomain "github.com/allisson/actionguard/internal/vault/domain"
	vaultService "github.com/allisson/actionguard/internal/vault/service"
)

// Config holds the vault's construction parameters.
type Config struct {
	// Enabled gates the whole vault. A disabled vault refuses every token
	// request.
	Enabled bool

	// TokenTTL is the lifetime of issued capability tokens.
	TokenTTL time.Duration

	// SweepInterval is how often the nonce sweep checks the set size.
	SweepInterval time.Duration

	// SweepThreshold is the used-nonce set size that triggers a wholesale
	// clear. Nonces are 128-bit random values and TTLs are short, so a
	// collision with a cleared nonce inside the TTL window is cryptographically
	// negligible.
	SweepThreshold int
}

// secretVault implements Vault. The signing key (inside the token service) and
// the used-nonce set are owned exclusively by one instance; there is no
// module-level singleton state.
type secretVault struct {
	config       Config
	tokenService vaultService.TokenService
	sources      vaultService.SourceRegistry
	secrets      map[string]*vaultDomain.SecretDefinition
	logger       *slog.Logger

	// usedNonces grows monotonically between sweeps. Nonce recording is the
	// only serialization point of token use; verification itself is pure.
	nonceMu    sync.Mutex
	usedNonces map[string]struct{}

	executorMu sync.RWMutex
	executors  map[string]ExecutorFunc

	stopSweep chan struct{}
	sweepDone chan struct{}
	closeOnce sync.Once
}

// NewSecretVault creates a Vault from immutable secret definitions and starts
// the background nonce sweep. Call Close on teardown to release it.
func NewSecretVault(
	config Config,
	tokenService vaultService.TokenService,
	sources vaultService.SourceRegistry,
	definitions []*vaultDomain.SecretDefinition,
	logger *slog.Logger,
) Vault {
	if config.TokenTTL <= 0 {
		config.TokenTTL = 300 * time.Second
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = 60 * time.Second
	}
	if config.SweepThreshold <= 0 {
		config.SweepThreshold = 10000
	}

	secrets := make(map[string]*vaultDomain.SecretDefinition, len(definitions))
	for _, definition := range definitions {
		secrets[definition.Name] = definition
	}

	vault := &secretVault{
		config:       config,
		tokenService: tokenService,
		sources:      sources,
		secrets:      secrets,
		logger:       logger,
		usedNonces:   make(map[string]struct{}),
		executors:    make(map[string]ExecutorFunc),
		stopSweep:    make(chan struct{}),
		sweepDone:    make(chan struct{}),
	}
	vault.RegisterExecutor(httpRequestExecutorName, newHTTPRequestExecutor(nil))

	go vault.runNonceSweep()

	return vault
}

// RequestToken issues a capability token scoped to one named secret.
func (v *secretVault) RequestToken(
	ctx context.Context,
	secretName string,
	operation vaultDomain.OperationKind,
) *vaultDomain.TokenResult {
	if !v.config.Enabled {
		return &vaultDomain.TokenResult{Success: false, Error: "vault disabled"}
	}

	if _, ok := v.secrets[secretName]; !ok {
		return &vaultDomain.TokenResult{
			Success: false,
			Error:   fmt.Sprintf("unknown secret %q", secretName),
		}
	}

	token, err := v.tokenService.Issue(secretName, operation, v.config.TokenTTL)
	if err != nil {
		v.logger.Error("token issuance failed", slog.Any("error", err))
		return &vaultDomain.TokenResult{Success: false, Error: "token issuance failed"}
	}

	return &vaultDomain.TokenResult{Success: true, Token: token}
}

// UseToken redeems a token for the raw secret value. The nonce is burned
// before the secret is resolved: even when resolution fails, the token is
// spent and cannot be retried.
func (v *secretVault) UseToken(ctx context.Context, token string) *vaultDomain.UseResult {
	payload, err := v.verifyAndConsume(token)
	if err != nil {
		return &vaultDomain.UseResult{Success: false, Error: err.Error()}
	}

	value, err := v.resolveSecret(payload.SecretName)
	if err != nil {
		return &vaultDomain.UseResult{Success: false, Error: err.Error()}
	}

	return &vaultDomain.UseResult{Success: true, Value: value}
}

// Execute redeems a token and invokes a registered executor with the resolved
// secret. The executor's panic or error is converted to a string error so no
// raised fault can carry secret-adjacent state across the boundary; the
// consumed token stays burned regardless of the executor's outcome.
func (v *secretVault) Execute(
	ctx context.Context,
	input *vaultDomain.ExecuteInput,
) *vaultDomain.ExecuteResult {
	payload, err := v.verifyAndConsume(input.Token)
	if err != nil {
		return &vaultDomain.ExecuteResult{Success: false, Error: err.Error()}
	}

	secret, err := v.resolveSecret(payload.SecretName)
	if err != nil {
		return &vaultDomain.ExecuteResult{Success: false, Error: err.Error()}
	}

	v.executorMu.RLock()
	executor, ok := v.executors[input.ExecuteAction]
	v.executorMu.RUnlock()
	if !ok {
		return &vaultDomain.ExecuteResult{
			Success: false,
			Error:   fmt.Sprintf("unknown executor action %q", input.ExecuteAction),
		}
	}

	result, err := v.invokeExecutor(ctx, executor, secret, input.ExecuteParams)
	if err != nil {
		return &vaultDomain.ExecuteResult{Success: false, Error: err.Error()}
	}

	return &vaultDomain.ExecuteResult{Success: true, Result: result}
}

// invokeExecutor runs an executor, converting panics into plain errors.
func (v *secretVault) invokeExecutor(
	ctx context.Context,
	executor ExecutorFunc,
	secret string,
	params map[string]any,
) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("executor panic recovered", slog.Any("panic", r))
			result = nil
			err = fmt.Errorf("executor failed: %v", r)
		}
	}()

	return executor(ctx, secret, params)
}

// verifyAndConsume verifies a token and burns its nonce atomically with
// respect to concurrent token-use calls.
func (v *secretVault) verifyAndConsume(token string) (*vaultDomain.TokenPayload, error) {
	payload, err := v.tokenService.Verify(token)
	if err != nil {
		return nil, vaultDomain.ErrTokenInvalid
	}

	v.nonceMu.Lock()
	defer v.nonceMu.Unlock()

	if _, used := v.usedNonces[payload.Nonce]; used {
		return nil, vaultDomain.ErrTokenAlreadyUsed
	}
	v.usedNonces[payload.Nonce] = struct{}{}

	return payload, nil
}

// resolveSecret resolves a secret definition's value through its source.
func (v *secretVault) resolveSecret(secretName string) (string, error) {
	definition, ok := v.secrets[secretName]
	if !ok {
		// The token service only signs names the vault issued, but a registry
		// mismatch must still fail safely.
		return "", vaultDomain.ErrSecretNotFound
	}
	return v.sources.Resolve(definition)
}

// RegisterExecutor associates an action name with an executor function,
// replacing any previous registration under the same name.
func (v *secretVault) RegisterExecutor(name string, fn ExecutorFunc) {
	v.executorMu.Lock()
	defer v.executorMu.Unlock()
	v.executors[name] = fn
}

// ListSecrets returns registered secret names. Metadata only, safe to expose.
func (v *secretVault) ListSecrets() []string {
	names := make([]string, 0, len(v.secrets))
	for name := range v.secrets {
		names = append(names, name)
	}
	return names
}

// HasSecret reports whether a secret name is registered.
func (v *secretVault) HasSecret(name string) bool {
	_, ok := v.secrets[name]
	return ok
}

// Close stops the background nonce sweep and waits for it to finish.
func (v *secretVault) Close() {
	v.closeOnce.Do(func() {
		close(v.stopSweep)
		<-v.sweepDone
	})
}

// runNonceSweep periodically clears the used-nonce set wholesale once it
// exceeds the configured threshold. The sweep only takes the nonce mutex for
// the clear itself, so it never blocks token use for long; its failure mode is
// bounded memory growth, never secret leakage.
func (v *secretVault) runNonceSweep() {
	defer close(v.sweepDone)

	ticker := time.NewTicker(v.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-v.stopSweep:
			return
		case <-ticker.C:
			v.sweepNonces()
		}
	}
}

// sweepNonces clears the used-nonce set when it exceeds the threshold.
func (v *secretVault) sweepNonces() {
	v.nonceMu.Lock()
	size := len(v.usedNonces)
	if size > v.config.SweepThreshold {
		v.usedNonces = make(map[string]struct{})
	}
	v.nonceMu.Unlock()

	if size > v.config.SweepThreshold {
		v.logger.Info("used-nonce set cleared", slog.Int("size", size))
	}
}
