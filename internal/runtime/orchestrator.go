package runtime

import (
	"context"
	"fmt"
	"log/slog"

	capabilityDomain "github.com/allisson/actionguard/internal/capability/domain"
	capabilityUseCase "github.com/allisson/actionguard/internal/capability/usecase"
	vaultUseCase "github.com/allisson/actionguard/internal/vault/usecase"
)

// Mode controls how a classifier block is handled.
type Mode string

const (
	// ModeWarn treats classifier blocks as advisory and continues.
	ModeWarn Mode = "warn"

	// ModeBlock stops the pipeline on a classifier block.
	ModeBlock Mode = "block"
)

// Stage names which guard produced a block.
const (
	BlockedByClassifier = "classifier"
	BlockedByCapability = "capability"
)

// ProcessInput is one guarded agent step. Text feeds the classifier; Action,
// when present, feeds the capability validator. A non-nil Verdict replaces
// the classifier call, for callers that already ran their own pre-filter.
type ProcessInput struct {
	Text    string
	Action  *capabilityDomain.ActionContext
	Verdict *Classification
}

// ProcessResult is the pipeline verdict. Warning carries the classifier
// reason when a block was downgraded to advisory in warn mode.
type ProcessResult struct {
	Allowed              bool
	BlockedBy            string
	Reason               string
	RequiresConfirmation bool
	Warning              string
}

// ExecuteOutcome separates policy blocks from executor faults. A failed
// executor leaves Blocked false so callers can tell a denied action from an
// allowed one that failed downstream.
type ExecuteOutcome struct {
	Blocked              bool
	RequiresConfirmation bool
	Reason               string
	Result               any
	ExecError            string
}

// Orchestrator chains classifier, validator, and vault client.
type Orchestrator struct {
	classifier Classifier
	validator  capabilityUseCase.Validator
	client     vaultUseCase.Client
	mode       Mode
	logger     *slog.Logger
}

// NewOrchestrator creates an Orchestrator. A nil classifier defaults to the
// no-op classifier and an unknown mode defaults to block.
func NewOrchestrator(
	classifier Classifier,
	validator capabilityUseCase.Validator,
	client vaultUseCase.Client,
	mode Mode,
	logger *slog.Logger,
) *Orchestrator {
	if classifier == nil {
		classifier = NewNoopClassifier()
	}
	if mode != ModeWarn {
		mode = ModeBlock
	}
	return &Orchestrator{
		classifier: classifier,
		validator:  validator,
		client:     client,
		mode:       mode,
		logger:     logger,
	}
}

// Client returns the vault client for secret-bearing execution handoff.
func (o *Orchestrator) Client() vaultUseCase.Client {
	return o.client
}

// Process runs one input through the pipeline, stopping at the first block.
func (o *Orchestrator) Process(ctx context.Context, input *ProcessInput) *ProcessResult {
	result := &ProcessResult{Allowed: true}

	verdict := input.Verdict
	if verdict == nil {
		verdict = o.classifier.Classify(ctx, input.Text)
	}
	if verdict != nil && verdict.Blocked {
		if o.mode == ModeBlock {
			result.Allowed = false
			result.BlockedBy = BlockedByClassifier
			result.Reason = verdict.Reason
			return result
		}
		result.Warning = verdict.Reason
		o.logger.WarnContext(ctx, "classifier block downgraded to warning",
			slog.String("reason", verdict.Reason),
		)
	}

	if input.Action == nil {
		return result
	}

	validation := o.validator.Validate(ctx, input.Action)
	if !validation.Allowed {
		result.Allowed = false
		result.BlockedBy = BlockedByCapability
		result.Reason = validation.Reason
		return result
	}
	result.RequiresConfirmation = validation.RequiresConfirmation

	return result
}

// ExecutorFunc performs the guarded work of an allowed action.
type ExecutorFunc func(ctx context.Context) (any, error)

// ExecuteProtected validates the action and, only if allowed, invokes the
// executor. Executor errors and panics surface as ExecError, never as a
// block and never as a fault in the caller.
func (o *Orchestrator) ExecuteProtected(
	ctx context.Context,
	action *capabilityDomain.ActionContext,
	executor ExecutorFunc,
) *ExecuteOutcome {
	validation := o.validator.Validate(ctx, action)
	if !validation.Allowed {
		return &ExecuteOutcome{Blocked: true, Reason: validation.Reason}
	}
	if validation.RequiresConfirmation {
		return &ExecuteOutcome{RequiresConfirmation: true, Reason: "requires confirmation"}
	}

	result, err := o.invoke(ctx, executor)
	if err != nil {
		return &ExecuteOutcome{ExecError: err.Error()}
	}
	return &ExecuteOutcome{Result: result}
}

func (o *Orchestrator) invoke(ctx context.Context, executor ExecutorFunc) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("executor failed: %v", r)
		}
	}()
	return executor(ctx)
}
