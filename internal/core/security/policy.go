// Package security evaluates role policies. A rule grants an action on
// a resource, optionally gated by a CEL condition over the request
// context; conditions are compiled once and cached.
package security

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	appctx "assettrack/internal/core/context"
)

// Rule is one policy grant. Resource and Action support the "*"
// wildcard; Condition is a CEL expression, empty meaning always.
type Rule struct {
	Resource  string
	Action    string
	Condition string
}

// Evaluator compiles and evaluates rule conditions.
type Evaluator struct {
	env *cel.Env

	mu    sync.RWMutex
	cache map[string]cel.Program
}

// NewEvaluator creates an Evaluator with the request-context CEL
// environment: user (map), resource and action (strings).
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("user", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("resource", cel.StringType),
		cel.Variable("action", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}
	return &Evaluator{
		env:   env,
		cache: make(map[string]cel.Program),
	}, nil
}

// Allowed reports whether any rule grants the action on the resource
// for the user. Admins bypass rule evaluation.
func (e *Evaluator) Allowed(rules []Rule, user *appctx.UserContext, resource, action string) (bool, error) {
	if user != nil && user.IsAdmin {
		return true, nil
	}

	for _, rule := range rules {
		if !wildcardMatch(rule.Resource, resource) || !wildcardMatch(rule.Action, action) {
			continue
		}
		if rule.Condition == "" {
			return true, nil
		}

		ok, err := e.evalCondition(rule.Condition, user, resource, action)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (e *Evaluator) evalCondition(expr string, user *appctx.UserContext, resource, action string) (bool, error) {
	prg, err := e.program(expr)
	if err != nil {
		return false, err
	}

	out, _, err := prg.Eval(map[string]any{
		"user":     userVars(user),
		"resource": resource,
		"action":   action,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate policy condition: %w", err)
	}

	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("policy condition %q is not boolean", expr)
	}
	return allowed, nil
}

func (e *Evaluator) program(expr string) (cel.Program, error) {
	e.mu.RLock()
	prg, ok := e.cache[expr]
	e.mu.RUnlock()
	if ok {
		return prg, nil
	}

	ast, iss := e.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile policy condition %q: %w", expr, iss.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build policy program: %w", err)
	}

	e.mu.Lock()
	e.cache[expr] = prg
	e.mu.Unlock()
	return prg, nil
}

func userVars(user *appctx.UserContext) map[string]any {
	if user == nil {
		return map[string]any{}
	}
	roles := make([]any, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, r)
	}
	return map[string]any{
		"id":      user.UserID,
		"email":   user.Email,
		"roles":   roles,
		"isAdmin": user.IsAdmin,
	}
}

func wildcardMatch(pattern, value string) bool {
	return pattern == "*" || pattern == value
}
