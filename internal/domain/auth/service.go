package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/core/security"
	"assettrack/internal/core/tx"
	"assettrack/internal/domain"
	"assettrack/pkg/logger"
)

const (
	maxLoginAttempts = 5
	lockDuration     = 15 * time.Minute
	minPasswordLen   = 8
)

// UserRepository persists users.
type UserRepository interface {
	domain.RecordStore[*User]

	// GetByEmail returns the user with the given email, NotFound
	// otherwise.
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// RoleRepository persists roles.
type RoleRepository interface {
	domain.RecordStore[*Role]

	// GetByIDs loads roles by id set.
	GetByIDs(ctx context.Context, ids []id.ID) ([]*Role, error)
}

// Service handles registration and login.
type Service struct {
	users     UserRepository
	roles     RoleRepository
	jwt       *JWTService
	txManager tx.Manager
}

// NewService creates an auth Service.
func NewService(users UserRepository, roles RoleRepository, jwt *JWTService, txManager tx.Manager) *Service {
	return &Service{
		users:     users,
		roles:     roles,
		jwt:       jwt,
		txManager: txManager,
	}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if len(req.Password) < minPasswordLen {
		return nil, apperror.NewValidation("password too short").
			WithDetail("min_length", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	user := NewUser(req.Email, string(hash))
	user.FirstName = req.FirstName
	user.LastName = req.LastName

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
			return apperror.NewDuplicate("user", "email", req.Email)
		} else if !apperror.IsNotFound(err) {
			return err
		}
		if err := user.Validate(ctx); err != nil {
			return err
		}
		return s.users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies credentials and issues an access token. Failed
// attempts are counted; too many lock the account.
func (s *Service) Login(ctx context.Context, creds Credentials) (*TokenPair, error) {
	invalid := apperror.NewUnauthorized("invalid email or password")

	user, err := s.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, invalid
		}
		return nil, err
	}

	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		user.RecordFailedLogin(maxLoginAttempts, lockDuration)
		if updErr := s.users.Update(ctx, user); updErr != nil {
			logger.Error(ctx, "record failed login", "user_id", user.ID, "error", updErr)
		}
		return nil, invalid
	}

	user.RecordSuccessfulLogin()
	if err := s.users.Update(ctx, user); err != nil {
		logger.Error(ctx, "record successful login", "user_id", user.ID, "error", err)
	}

	codes, err := s.roleCodes(ctx, user)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(user, codes)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	return &TokenPair{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, nil
}

// Refresh issues a fresh access token for an already authenticated
// user. Role changes since the last token take effect here.
func (s *Service) Refresh(ctx context.Context, userID string) (*TokenPair, error) {
	uid, err := id.Parse(userID)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid token subject")
	}
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("user no longer exists")
		}
		return nil, err
	}
	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	codes, err := s.roleCodes(ctx, user)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.jwt.GenerateAccessToken(user, codes)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return &TokenPair{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, nil
}

// RolesOf loads a user's roles.
func (s *Service) RolesOf(ctx context.Context, user *User) ([]*Role, error) {
	if len(user.RoleIDs) == 0 {
		return nil, nil
	}
	return s.roles.GetByIDs(ctx, user.RoleIDs)
}

// RulesFor flattens the policies of the user's roles into evaluator
// rules. Admin users are short-circuited by the evaluator itself, so
// callers may skip the lookup for them.
func (s *Service) RulesFor(ctx context.Context, userID string) ([]security.Rule, error) {
	uid, err := id.Parse(userID)
	if err != nil {
		return nil, apperror.NewValidation("invalid user id").WithDetail("user_id", userID)
	}
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	roles, err := s.RolesOf(ctx, user)
	if err != nil {
		return nil, err
	}

	var rules []security.Rule
	for _, role := range roles {
		if !role.Active {
			continue
		}
		for _, p := range role.Policies {
			rules = append(rules, security.Rule{
				Resource:  p.Resource,
				Action:    p.Action,
				Condition: p.Condition,
			})
		}
	}
	return rules, nil
}

func (s *Service) roleCodes(ctx context.Context, user *User) ([]string, error) {
	roles, err := s.RolesOf(ctx, user)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(roles))
	for _, r := range roles {
		codes = append(codes, r.Code)
	}
	return codes, nil
}
