// Package app provides the dependency injection container assembling the
// validator, the vault, and the runtime orchestrator from the policy document.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"go.opentelemetry.io/otel/metric"

	capabilityHTTP "github.com/allisson/actionguard/internal/capability/http"
	"github.com/allisson/actionguard/internal/capability/repository"
	capabilityService "github.com/allisson/actionguard/internal/capability/service"
	capabilityUseCase "github.com/allisson/actionguard/internal/capability/usecase"
	"github.com/allisson/actionguard/internal/config"
	"github.com/allisson/actionguard/internal/http"
	"github.com/allisson/actionguard/internal/metrics"
	"github.com/allisson/actionguard/internal/policy"
	"github.com/allisson/actionguard/internal/runtime"
	runtimeHTTP "github.com/allisson/actionguard/internal/runtime/http"
	vaultHTTP "github.com/allisson/actionguard/internal/vault/http"
	vaultService "github.com/allisson/actionguard/internal/vault/service"
	vaultUseCase "github.com/allisson/actionguard/internal/vault/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Policy document
	policyDocument *policy.Document

	// Use Cases
	capabilityRegistry capabilityUseCase.CapabilityRegistry
	validator          capabilityUseCase.Validator
	vault              vaultUseCase.Vault
	vaultClient        vaultUseCase.Client
	orchestrator       *runtime.Orchestrator

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	policyDocumentInit  sync.Once
	registryInit        sync.Once
	validatorInit       sync.Once
	vaultInit           sync.Once
	vaultClientInit     sync.Once
	orchestratorInit    sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A disabled metrics
// stack yields the no-op implementation.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		c.businessMetrics = businessMetrics
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// PolicyDocument returns the loaded policy document.
func (c *Container) PolicyDocument() (*policy.Document, error) {
	c.policyDocumentInit.Do(func() {
		document, err := policy.Load(c.config.PolicyPath)
		if err != nil {
			c.initErrors["policyDocument"] = fmt.Errorf("failed to load policy document: %w", err)
			return
		}
		c.policyDocument = document
	})
	if storedErr, exists := c.initErrors["policyDocument"]; exists {
		return nil, storedErr
	}
	return c.policyDocument, nil
}

// CapabilityRegistry returns the capability registry derived from the policy
// document at its declared model strength.
func (c *Container) CapabilityRegistry() (capabilityUseCase.CapabilityRegistry, error) {
	c.registryInit.Do(func() {
		document, err := c.PolicyDocument()
		if err != nil {
			c.initErrors["capabilityRegistry"] = err
			return
		}
		c.capabilityRegistry = repository.NewMemoryCapabilityRegistry(
			document.CapabilityList(),
			document.GlobalConstraints(),
			document.Strength(),
		)
	})
	if storedErr, exists := c.initErrors["capabilityRegistry"]; exists {
		return nil, storedErr
	}
	return c.capabilityRegistry, nil
}

// Validator returns the capability validator instance.
func (c *Container) Validator() (capabilityUseCase.Validator, error) {
	c.validatorInit.Do(func() {
		validator, err := c.initValidator()
		if err != nil {
			c.initErrors["validator"] = err
			return
		}
		c.validator = validator
	})
	if storedErr, exists := c.initErrors["validator"]; exists {
		return nil, storedErr
	}
	return c.validator, nil
}

// Vault returns the secret vault instance.
func (c *Container) Vault() (vaultUseCase.Vault, error) {
	c.vaultInit.Do(func() {
		vault, err := c.initVault()
		if err != nil {
			c.initErrors["vault"] = err
			return
		}
		c.vault = vault
	})
	if storedErr, exists := c.initErrors["vault"]; exists {
		return nil, storedErr
	}
	return c.vault, nil
}

// VaultClient returns the caller-facing vault facade.
func (c *Container) VaultClient() (vaultUseCase.Client, error) {
	c.vaultClientInit.Do(func() {
		vault, err := c.Vault()
		if err != nil {
			c.initErrors["vaultClient"] = err
			return
		}
		c.vaultClient = vaultUseCase.NewVaultClient(vault)
	})
	if storedErr, exists := c.initErrors["vaultClient"]; exists {
		return nil, storedErr
	}
	return c.vaultClient, nil
}

// Orchestrator returns the runtime orchestrator instance.
func (c *Container) Orchestrator() (*runtime.Orchestrator, error) {
	c.orchestratorInit.Do(func() {
		validator, err := c.Validator()
		if err != nil {
			c.initErrors["orchestrator"] = err
			return
		}
		client, err := c.VaultClient()
		if err != nil {
			c.initErrors["orchestrator"] = err
			return
		}
		c.orchestrator = runtime.NewOrchestrator(
			runtime.NewNoopClassifier(),
			validator,
			client,
			runtime.Mode(c.config.ClassifierMode),
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["orchestrator"]; exists {
		return nil, storedErr
	}
	return c.orchestrator, nil
}

// HTTPServer returns the API server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Stops the nonce sweep goroutine and releases the vault.
	if c.vault != nil {
		c.vault.Close()
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initValidator creates the capability validator with all its dependencies.
func (c *Container) initValidator() (capabilityUseCase.Validator, error) {
	registry, err := c.CapabilityRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to get capability registry for validator: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for validator: %w", err)
	}

	validator := capabilityUseCase.NewValidatorUseCase(
		registry,
		capabilityService.NewConstraintEvaluator(),
		capabilityService.NewRateLimiter(),
		capabilityService.NewPredicateRegistry(),
		c.Logger(),
	)

	return capabilityUseCase.NewValidatorWithMetrics(validator, businessMetrics), nil
}

// initVault creates the secret vault with all its dependencies.
func (c *Container) initVault() (vaultUseCase.Vault, error) {
	document, err := c.PolicyDocument()
	if err != nil {
		return nil, fmt.Errorf("failed to get policy document for vault: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for vault: %w", err)
	}

	tokenService, err := vaultService.NewTokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	tokenTTL := c.config.TokenTTL
	if documentTTL := document.TokenTTL(); documentTTL > 0 {
		tokenTTL = documentTTL
	}

	vault := vaultUseCase.NewSecretVault(
		vaultUseCase.Config{
			Enabled:        document.VaultIsEnabled(),
			TokenTTL:       tokenTTL,
			SweepInterval:  c.config.NonceSweepInterval,
			SweepThreshold: c.config.NonceSweepThreshold,
		},
		tokenService,
		vaultService.NewSourceRegistry(vaultService.NewEnvSecretSource()),
		document.SecretDefinitions(),
		c.Logger(),
	)

	return vaultUseCase.NewVaultWithMetrics(vault, businessMetrics), nil
}

// initHTTPServer creates the API server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	validator, err := c.Validator()
	if err != nil {
		return nil, fmt.Errorf("failed to get validator for http server: %w", err)
	}

	client, err := c.VaultClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault client for http server: %w", err)
	}

	orchestrator, err := c.Orchestrator()
	if err != nil {
		return nil, fmt.Errorf("failed to get orchestrator for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	var meterProvider metric.MeterProvider
	if provider != nil {
		meterProvider = provider.MeterProvider()
	}

	document, err := c.PolicyDocument()
	if err != nil {
		return nil, fmt.Errorf("failed to get policy document for http server: %w", err)
	}

	readiness := map[string]http.ReadinessCheck{
		"policy": func() bool { return document != nil },
		"vault":  func() bool { return c.vault != nil },
	}

	server := http.NewServer(
		c.config,
		logger,
		meterProvider,
		readiness,
		capabilityHTTP.NewValidatorHandler(validator, logger),
		vaultHTTP.NewVaultHandler(client, logger),
		runtimeHTTP.NewRuntimeHandler(orchestrator, logger),
	)

	return server, nil
}
