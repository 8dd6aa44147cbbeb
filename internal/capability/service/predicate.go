package service

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	capabilityDomain "github.com/allisson/actionguard/internal/capability/domain"
	apperrors "github.com/allisson/actionguard/internal/errors"
)

// predicateRegistry implements PredicateRegistry with a mutex-guarded map.
type predicateRegistry struct {
	mu         sync.RWMutex
	predicates map[string]PredicateFunc
}

// NewPredicateRegistry creates an empty PredicateRegistry.
func NewPredicateRegistry() PredicateRegistry {
	return &predicateRegistry{
		predicates: make(map[string]PredicateFunc),
	}
}

// Register associates a predicate name with a function.
func (r *predicateRegistry) Register(name string, fn PredicateFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.predicates[name] = fn
}

// Resolve looks up a predicate by name.
func (r *predicateRegistry) Resolve(name string) (PredicateFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.predicates[name]
	return fn, ok
}

// predicateEnv is the expression environment exposed to expr predicates.
type predicateEnv struct {
	Action      string         `expr:"Action"`
	Domain      string         `expr:"Domain"`
	Path        string         `expr:"Path"`
	PayloadSize int64          `expr:"PayloadSize"`
	Payload     map[string]any `expr:"Payload"`
}

// CompileExprPredicate compiles a policy-declared expression into a
// PredicateFunc. The expression is evaluated against the action context and
// must produce a boolean; any evaluation failure denies (fail closed).
func CompileExprPredicate(source string) (PredicateFunc, error) {
	program, err := expr.Compile(
		source,
		expr.Env(predicateEnv{}),
		expr.AsBool(),
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("invalid predicate expression %q: %v", source, err))
	}

	return exprPredicate(program, source), nil
}

// exprPredicate wraps a compiled program as a PredicateFunc.
func exprPredicate(program *vm.Program, source string) PredicateFunc {
	return func(actionCtx *capabilityDomain.ActionContext) (bool, string) {
		env := predicateEnv{
			Action:      actionCtx.Action,
			Domain:      actionCtx.Domain,
			Path:        actionCtx.Path,
			PayloadSize: actionCtx.PayloadSize,
			Payload:     actionCtx.Payload,
		}

		output, err := expr.Run(program, env)
		if err != nil {
			// An internal predicate fault resolves to denial, never fail open.
			return false, fmt.Sprintf("predicate expression failed: %v", err)
		}

		allowed, ok := output.(bool)
		if !ok || !allowed {
			return false, fmt.Sprintf("denied by predicate expression %q", source)
		}

		return true, ""
	}
}
