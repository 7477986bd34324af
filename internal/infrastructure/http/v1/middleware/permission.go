// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"assettrack/internal/core/apperror"
	appctx "assettrack/internal/core/context"
	"assettrack/internal/core/security"
)

// RuleSource loads the policy rules that apply to a user.
type RuleSource interface {
	RulesFor(ctx context.Context, userID string) ([]security.Rule, error)
}

// Authorizer gates routes on role policies. Rules are loaded per
// request so role edits take effect without re-issuing tokens.
type Authorizer struct {
	eval  *security.Evaluator
	rules RuleSource
}

// NewAuthorizer creates an Authorizer.
func NewAuthorizer(eval *security.Evaluator, rules RuleSource) *Authorizer {
	return &Authorizer{eval: eval, rules: rules}
}

// Require returns middleware that allows the request only if the
// user's policies grant the action on the resource. Admins always
// pass.
func (a *Authorizer) Require(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		if user.IsAdmin {
			c.Next()
			return
		}

		rules, err := a.rules.RulesFor(c.Request.Context(), user.UserID)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		allowed, err := a.eval.Allowed(rules, user, resource, action)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if !allowed {
			_ = c.Error(
				apperror.NewForbidden("insufficient permissions").
					WithDetail("resource", resource).
					WithDetail("action", action),
			)
			c.Abort()
			return
		}

		c.Next()
	}
}
