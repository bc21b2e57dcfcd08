package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"clubhouse-server/internal/auth"
	"clubhouse-server/internal/config"
	"clubhouse-server/internal/metrics"
	"clubhouse-server/internal/repo"
)

// ResetService issues and consumes one-time password reset tokens.
type ResetService struct {
	accounts AccountStore
	hasher   auth.PasswordHasher
	notifier ResetNotifier
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

type ResetOption func(*ResetService)

// WithResetClock overrides the time source used for expiry.
func WithResetClock(now func() time.Time) ResetOption {
	return func(s *ResetService) {
		s.now = now
	}
}

func NewResetService(accounts AccountStore, hasher auth.PasswordHasher, notifier ResetNotifier, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics, opts ...ResetOption) *ResetService {
	s := &ResetService{
		accounts: accounts,
		hasher:   hasher,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestReset starts a reset for the account matching identifier (username
// or email). The result never reveals whether an account matched: unknown
// identifiers and delivery failures both return nil.
func (s *ResetService) RequestReset(ctx context.Context, identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return auth.Validation("identifier is required")
	}

	account, err := lookupAccount(ctx, s.accounts, identifier)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.logger.InfoContext(ctx, "password reset requested for unknown account", "identifier_hash", fingerprint(identifier))
			s.metrics.AuthEvent("reset_request", metrics.OutcomeRejected)
			return nil
		}
		return auth.Internal("lookup account", err)
	}

	token, digest, err := auth.NewResetToken()
	if err != nil {
		return err
	}
	expiresAt := s.now().UTC().Add(s.cfg.ResetTokenTTL)
	if err := s.accounts.SetResetToken(ctx, account.ID, digest, expiresAt); err != nil {
		return auth.Internal("store reset token", err)
	}

	notice := ResetNotice{
		AccountID: account.ID,
		Username:  account.Username,
		Email:     account.Email,
		Token:     token,
		ResetURL:  resetURL(s.cfg.ResetURLBase, token),
		ExpiresAt: expiresAt,
	}
	if err := s.notifier.NotifyReset(ctx, notice); err != nil {
		s.logger.ErrorContext(ctx, "deliver password reset", "account_id", account.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "password reset requested", "account_id", account.ID, "expires_at", expiresAt)
	s.metrics.AuthEvent("reset_request", metrics.OutcomeSuccess)
	return nil
}

// ConsumeReset sets newPassword on the account holding token, if the token
// is still pending and unexpired. Wrong and expired tokens both fail with
// RESET_TOKEN_INVALID. The store clears the token in the same update that
// writes the hash, so a token can be used at most once.
func (s *ResetService) ConsumeReset(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Validation("reset token is required")
	}
	if err := validatePassword(newPassword, s.cfg.PasswordMinLen); err != nil {
		return err
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	accountID, err := s.accounts.ConsumeResetToken(ctx, auth.ResetTokenDigest(token), digest, s.now().UTC())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.logger.InfoContext(ctx, "password reset rejected", "reason", "invalid or expired token")
			s.metrics.AuthEvent("reset_consume", metrics.OutcomeRejected)
			return auth.InvalidResetToken()
		}
		return auth.Internal("consume reset token", err)
	}

	s.logger.InfoContext(ctx, "password reset completed", "account_id", accountID)
	s.metrics.AuthEvent("reset_consume", metrics.OutcomeSuccess)
	return nil
}

func resetURL(base, token string) string {
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + token
}
