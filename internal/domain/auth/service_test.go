package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/domain/auth"
	"assettrack/internal/domain/domaintest"
)

type userRepo struct {
	*domaintest.MemStore[*auth.User]
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	for _, u := range r.All() {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("users", email)
}

type roleRepo struct {
	*domaintest.MemStore[*auth.Role]
}

func (r *roleRepo) GetByIDs(ctx context.Context, ids []id.ID) ([]*auth.Role, error) {
	want := make(map[id.ID]bool, len(ids))
	for _, rid := range ids {
		want[rid] = true
	}
	var out []*auth.Role
	for _, role := range r.All() {
		if want[role.ID] {
			out = append(out, role)
		}
	}
	return out, nil
}

func newService(t *testing.T) (*auth.Service, *userRepo, *roleRepo) {
	t.Helper()
	users := &userRepo{domaintest.NewMemStore[*auth.User]("users")}
	roles := &roleRepo{domaintest.NewMemStore[*auth.Role]("roles")}
	jwt := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))
	return auth.NewService(users, roles, jwt, domaintest.TxManager{}), users, roles
}

func register(t *testing.T, svc *auth.Service, email, password string) *auth.User {
	t.Helper()
	user, err := svc.Register(context.Background(), auth.RegisterRequest{
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	user := register(t, svc, "jo@example.com", "s3cret-pass")
	assert.True(t, user.Active)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	tokens, err := svc.Login(ctx, auth.Credentials{Email: "jo@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.NotEmpty(t, tokens.AccessToken)

	jwt := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))
	claims, err := jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "jo@example.com", claims.Email)
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Register(context.Background(), auth.RegisterRequest{
		Email:    "jo@example.com",
		Password: "short",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newService(t)

	register(t, svc, "jo@example.com", "s3cret-pass")

	_, err := svc.Register(context.Background(), auth.RegisterRequest{
		Email:    "jo@example.com",
		Password: "another-pass",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestLogin_WrongPasswordCountsAndLocks(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	user := register(t, svc, "jo@example.com", "s3cret-pass")

	for i := 0; i < 5; i++ {
		_, err := svc.Login(ctx, auth.Credentials{Email: "jo@example.com", Password: "wrong"})
		require.Error(t, err)
	}

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.FailedLoginAttempts)
	assert.True(t, stored.IsLocked())

	// Locked out even with the right password.
	_, err = svc.Login(ctx, auth.Credentials{Email: "jo@example.com", Password: "s3cret-pass"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestLogin_UnknownEmailIsIndistinguishable(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Login(context.Background(), auth.Credentials{Email: "ghost@example.com", Password: "whatever"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLogin_TokenCarriesRoleCodes(t *testing.T) {
	svc, users, roles := newService(t)
	ctx := context.Background()

	role := auth.NewRole("inspector", "Inspector")
	require.NoError(t, roles.Create(ctx, role))

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	user := auth.NewUser("jo@example.com", string(hash))
	user.RoleIDs = []id.ID{role.ID}
	require.NoError(t, users.Create(ctx, user))

	tokens, err := svc.Login(ctx, auth.Credentials{Email: "jo@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	jwt := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))
	claims, err := jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"inspector"}, claims.Roles)
}

func TestRefresh_ReflectsCurrentRoles(t *testing.T) {
	svc, users, roles := newService(t)
	ctx := context.Background()

	user := register(t, svc, "jo@example.com", "s3cret-pass")

	tokens, err := svc.Refresh(ctx, user.ID.String())
	require.NoError(t, err)

	jwt := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))
	claims, err := jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Empty(t, claims.Roles)

	role := auth.NewRole("inspector", "Inspector")
	require.NoError(t, roles.Create(ctx, role))
	user.RoleIDs = []id.ID{role.ID}
	require.NoError(t, users.Update(ctx, user))

	tokens, err = svc.Refresh(ctx, user.ID.String())
	require.NoError(t, err)
	claims, err = jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"inspector"}, claims.Roles)
}

func TestRefresh_RejectsDeactivatedUser(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	user := register(t, svc, "jo@example.com", "s3cret-pass")
	user.Deactivate()
	require.NoError(t, users.Update(ctx, user))

	_, err := svc.Refresh(ctx, user.ID.String())
	require.Error(t, err)
}

func TestRulesFor_FlattensRolePolicies(t *testing.T) {
	svc, users, roles := newService(t)
	ctx := context.Background()

	role := auth.NewRole("viewer", "Viewer")
	role.Policies = []auth.Policy{
		{Resource: "*", Action: "list"},
		{Resource: "product", Action: "get", Condition: `"viewer" in user.roles`},
	}
	require.NoError(t, roles.Create(ctx, role))

	inactive := auth.NewRole("legacy", "Legacy")
	inactive.Policies = []auth.Policy{{Resource: "*", Action: "*"}}
	inactive.Deactivate()
	require.NoError(t, roles.Create(ctx, inactive))

	user := auth.NewUser("jo@example.com", "hash")
	user.RoleIDs = []id.ID{role.ID, inactive.ID}
	require.NoError(t, users.Create(ctx, user))

	rules, err := svc.RulesFor(ctx, user.ID.String())
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "list", rules[0].Action)
	assert.Equal(t, `"viewer" in user.roles`, rules[1].Condition)
}
