package services

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"clubhouse-server/internal/auth"
	"clubhouse-server/internal/config"
	"clubhouse-server/internal/metrics"
	"clubhouse-server/internal/models"
	"clubhouse-server/internal/repo"
)

// AccountStore is the credential store the auth services read and write.
// repo.AccountRepo is the production implementation.
type AccountStore interface {
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	UpdateRole(ctx context.Context, id, role string) error
	Delete(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (string, error)
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.-]{2,49}$`)

// timingPlaceholder is hashed once and verified against when a login names
// an unknown account, so both paths pay for one bcrypt comparison.
const timingPlaceholder = "clubhouse-timing-placeholder"

// fallbackDigest is a well-formed cost 10 bcrypt digest used when the
// placeholder cannot be hashed, so unknown accounts still pay for a full
// comparison.
const fallbackDigest = "$2a$10$XajjQvNhvvRt5GSeFk1xFeyqRrsxkhBkUiQeg0dt.wU1qD4aFDcga"

type AuthService struct {
	accounts AccountStore
	hasher   auth.PasswordHasher
	tokens   *auth.TokenCodec
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics

	dummyDigest string
}

type AccountSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LoginResult struct {
	Token     string         `json:"token"`
	TokenType string         `json:"token_type"`
	ExpiresIn int64          `json:"expires_in"`
	ExpiresAt time.Time      `json:"expires_at"`
	Account   AccountSummary `json:"account"`
}

type CreateAccountInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

func NewAuthService(accounts AccountStore, hasher auth.PasswordHasher, tokens *auth.TokenCodec, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *AuthService {
	s := &AuthService{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
	}
	s.dummyDigest = s.hashPlaceholder()
	return s
}

// Login verifies identifier and password and issues a session token. An
// identifier containing "@" is an email address, anything else a username.
// Unknown accounts fail with AUTH_NOT_FOUND and wrong passwords with
// AUTH_INVALID_CREDENTIALS; the transport reports both the same way.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, auth.Validation("identifier and password are required")
	}

	account, err := lookupAccount(ctx, s.accounts, identifier)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, auth.Internal("lookup account", err)
		}
		s.hasher.Verify(password, s.dummyDigest)
		s.logger.InfoContext(ctx, "login failed", "reason", "unknown account", "identifier_hash", fingerprint(identifier))
		s.metrics.AuthEvent("login", metrics.OutcomeFailure)
		return nil, auth.NotFound("account not found")
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.logger.InfoContext(ctx, "login failed", "reason", "password mismatch", "account_id", account.ID)
		s.metrics.AuthEvent("login", metrics.OutcomeFailure)
		return nil, auth.InvalidCredentials()
	}

	token, expiresAt, err := s.tokens.Issue(auth.Identity{
		AccountID: account.ID,
		Username:  account.Username,
		Role:      account.Role,
	}, s.cfg.JWTExpiry)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "login succeeded", "account_id", account.ID)
	s.metrics.AuthEvent("login", metrics.OutcomeSuccess)

	return &LoginResult{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.cfg.JWTExpiry.Seconds()),
		ExpiresAt: expiresAt,
		Account:   summarize(account),
	}, nil
}

func (s *AuthService) CreateAccount(ctx context.Context, in CreateAccountInput) (*models.Account, error) {
	username := strings.TrimSpace(in.Username)
	if !usernamePattern.MatchString(username) {
		return nil, auth.Validation("username must start with a letter and be 3-50 characters of letters, digits, '_', '.' or '-'")
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = models.RoleStaff
	}
	if !models.ValidRole(role) {
		return nil, auth.Validation("role must be %q or %q", models.RoleAdmin, models.RoleStaff)
	}

	var email *string
	if trimmed := strings.TrimSpace(in.Email); trimmed != "" {
		addr, err := mail.ParseAddress(trimmed)
		if err != nil || addr.Address != trimmed {
			return nil, auth.Validation("email is not a valid address")
		}
		email = &trimmed
	}

	if err := validatePassword(in.Password, s.cfg.PasswordMinLen); err != nil {
		return nil, err
	}
	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.accounts.Create(ctx, &models.Account{
		Username:     username,
		Email:        email,
		Role:         role,
		PasswordHash: digest,
	})
	if err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, auth.Conflict("username or email already exists")
		}
		return nil, auth.Internal("create account", err)
	}

	s.logger.InfoContext(ctx, "account created", "account_id", created.ID, "role", created.Role)
	return created, nil
}

func (s *AuthService) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, auth.RecordNotFound("account not found")
		}
		return nil, auth.Internal("get account", err)
	}
	return account, nil
}

func (s *AuthService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, auth.Internal("list accounts", err)
	}
	return accounts, nil
}

// UpdateRole changes the role of id. Admins cannot change their own role,
// which keeps at least one admin around.
func (s *AuthService) UpdateRole(ctx context.Context, actorID, id, role string) error {
	if !models.ValidRole(role) {
		return auth.Validation("role must be %q or %q", models.RoleAdmin, models.RoleStaff)
	}
	if actorID == id {
		return auth.Forbidden("cannot change your own role")
	}
	if err := s.accounts.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return auth.RecordNotFound("account not found")
		}
		return auth.Internal("update role", err)
	}
	s.logger.InfoContext(ctx, "account role updated", "account_id", id, "role", role, "actor_id", actorID)
	return nil
}

func (s *AuthService) DeleteAccount(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return auth.Forbidden("cannot delete your own account")
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return auth.RecordNotFound("account not found")
		}
		return auth.Internal("delete account", err)
	}
	s.logger.InfoContext(ctx, "account deleted", "account_id", id, "actor_id", actorID)
	return nil
}

// ChangePassword replaces the password of a signed-in account after
// checking the current one. Any pending reset token is dropped.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, current, next string) error {
	if current == "" {
		return auth.Validation("current password is required")
	}
	if err := validatePassword(next, s.cfg.PasswordMinLen); err != nil {
		return err
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return auth.RecordNotFound("account not found")
		}
		return auth.Internal("get account", err)
	}
	if !s.hasher.Verify(current, account.PasswordHash) {
		return auth.Validation("current password is incorrect")
	}

	digest, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePassword(ctx, accountID, digest); err != nil {
		return auth.Internal("update password", err)
	}

	s.logger.InfoContext(ctx, "password changed", "account_id", accountID)
	return nil
}

// hashPlaceholder hashes timingPlaceholder with the configured hasher so
// the dummy comparison costs the same as a real one.
func (s *AuthService) hashPlaceholder() string {
	digest, err := s.hasher.Hash(timingPlaceholder)
	if err != nil {
		s.logger.Error("hash timing placeholder; using fallback digest", "error", err)
		return fallbackDigest
	}
	return digest
}

func summarize(a *models.Account) AccountSummary {
	return AccountSummary{ID: a.ID, Username: a.Username, Role: a.Role}
}
