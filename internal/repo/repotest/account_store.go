// Package repotest provides an in-memory credential store for tests that do
// not need PostgreSQL.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"clubhouse-server/internal/models"
	"clubhouse-server/internal/repo"
)

// AccountStore mirrors repo.AccountRepo semantics, including the
// single-winner guarantee of ConsumeResetToken, behind one mutex.
type AccountStore struct {
	mu       sync.Mutex
	accounts map[string]models.Account

	// FailWith, when set, is returned from every call.
	FailWith error
}

func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[string]models.Account)}
}

// Put inserts or replaces an account as-is. Tests use it to seed state.
func (s *AccountStore) Put(account models.Account) models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	s.accounts[account.ID] = account
	return account
}

// Snapshot returns a copy of the stored account.
func (s *AccountStore) Snapshot(id string) (models.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	return account, ok
}

func (s *AccountStore) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	return s.find(func(a models.Account) bool { return a.Username == username })
}

func (s *AccountStore) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	return s.find(func(a models.Account) bool {
		return a.Email != nil && strings.EqualFold(*a.Email, email)
	})
}

func (s *AccountStore) GetByID(_ context.Context, id string) (*models.Account, error) {
	return s.find(func(a models.Account) bool { return a.ID == id })
}

func (s *AccountStore) List(context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	accounts := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Username < accounts[j].Username })
	return accounts, nil
}

func (s *AccountStore) Create(_ context.Context, account *models.Account) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	for _, existing := range s.accounts {
		if existing.Username == account.Username {
			return nil, fmt.Errorf("insert account: %w", repo.ErrConflict)
		}
		if existing.Email != nil && account.Email != nil && strings.EqualFold(*existing.Email, *account.Email) {
			return nil, fmt.Errorf("insert account: %w", repo.ErrConflict)
		}
	}
	now := time.Now().UTC()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now
	s.accounts[account.ID] = *account
	return account, nil
}

func (s *AccountStore) UpdateRole(_ context.Context, id, role string) error {
	return s.update(id, func(a *models.Account) { a.Role = role })
}

func (s *AccountStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	if _, ok := s.accounts[id]; !ok {
		return fmt.Errorf("delete account: %w", repo.ErrNotFound)
	}
	delete(s.accounts, id)
	return nil
}

func (s *AccountStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return s.update(id, func(a *models.Account) {
		a.PasswordHash = passwordHash
		a.ResetTokenHash = nil
		a.ResetTokenExpiresAt = nil
	})
}

func (s *AccountStore) SetResetToken(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	return s.update(id, func(a *models.Account) {
		a.ResetTokenHash = &tokenHash
		a.ResetTokenExpiresAt = &expiresAt
	})
}

func (s *AccountStore) ConsumeResetToken(_ context.Context, tokenHash, passwordHash string, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return "", s.FailWith
	}
	for id, a := range s.accounts {
		if a.ResetTokenHash == nil || *a.ResetTokenHash != tokenHash {
			continue
		}
		if a.ResetTokenExpiresAt == nil || !a.ResetTokenExpiresAt.After(now) {
			continue
		}
		a.PasswordHash = passwordHash
		a.ResetTokenHash = nil
		a.ResetTokenExpiresAt = nil
		a.UpdatedAt = now
		s.accounts[id] = a
		return id, nil
	}
	return "", fmt.Errorf("consume reset token: %w", repo.ErrNotFound)
}

func (s *AccountStore) find(match func(models.Account) bool) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	for _, a := range s.accounts {
		if match(a) {
			found := a
			return &found, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *AccountStore) update(id string, apply func(*models.Account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	a, ok := s.accounts[id]
	if !ok {
		return repo.ErrNotFound
	}
	apply(&a)
	a.UpdatedAt = time.Now().UTC()
	s.accounts[id] = a
	return nil
}
