package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "assettrack/internal/core/context"
)

func newEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	e, err := NewEvaluator()
	require.NoError(t, err)
	return e
}

func TestAllowed_WildcardAndExact(t *testing.T) {
	e := newEvaluator(t)
	user := &appctx.UserContext{UserID: "u1", Roles: []string{"technician"}}

	rules := []Rule{
		{Resource: "products", Action: "*"},
		{Resource: "maintenances", Action: "create"},
	}

	tests := []struct {
		resource, action string
		want             bool
	}{
		{"products", "delete", true},
		{"maintenances", "create", true},
		{"maintenances", "delete", false},
		{"commissionings", "create", false},
	}

	for _, tt := range tests {
		got, err := e.Allowed(rules, user, tt.resource, tt.action)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %s", tt.resource, tt.action)
	}
}

func TestAllowed_Condition(t *testing.T) {
	e := newEvaluator(t)

	rules := []Rule{{
		Resource:  "commissionings",
		Action:    "create",
		Condition: `"inspector" in user.roles`,
	}}

	inspector := &appctx.UserContext{UserID: "u1", Roles: []string{"inspector"}}
	ok, err := e.Allowed(rules, inspector, "commissionings", "create")
	require.NoError(t, err)
	assert.True(t, ok)

	viewer := &appctx.UserContext{UserID: "u2", Roles: []string{"viewer"}}
	ok, err = e.Allowed(rules, viewer, "commissionings", "create")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAllowed_AdminBypass(t *testing.T) {
	e := newEvaluator(t)
	admin := &appctx.UserContext{UserID: "root", IsAdmin: true}

	ok, err := e.Allowed(nil, admin, "anything", "delete")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllowed_BadCondition(t *testing.T) {
	e := newEvaluator(t)
	rules := []Rule{{Resource: "*", Action: "*", Condition: `user.`}}

	_, err := e.Allowed(rules, &appctx.UserContext{}, "products", "get")
	assert.Error(t, err)
}

func TestAllowed_NonBooleanCondition(t *testing.T) {
	e := newEvaluator(t)
	rules := []Rule{{Resource: "*", Action: "*", Condition: `user.email`}}

	_, err := e.Allowed(rules, &appctx.UserContext{Email: "a@b.c"}, "products", "get")
	assert.Error(t, err)
}
