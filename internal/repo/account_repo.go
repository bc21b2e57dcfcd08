package repo

import (
	"context"
	"fmt"
	"time"

	"clubhouse-server/internal/models"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, username, email, role, password_hash, reset_token_hash, reset_token_expires_at, created_at, updated_at`

type AccountRepo struct {
	pool    DBTX
	timeout time.Duration
}

func NewAccountRepo(pool DBTX, timeout time.Duration) *AccountRepo {
	return &AccountRepo{pool: pool, timeout: timeout}
}

func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE username = $1
	`, username)

	account, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("get account by username: %w", err)
	}
	return account, nil
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE lower(email) = lower($1)
	`, email)

	account, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return account, nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, id)

	account, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return account, nil
}

func (r *AccountRepo) List(ctx context.Context) ([]models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY username
	`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepo) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (username, email, role, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, account.Username, account.Email, account.Role, account.PasswordHash)

	if err := row.Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert account: %w", translate(err))
	}
	return account, nil
}

func (r *AccountRepo) UpdateRole(ctx context.Context, id, role string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET role = $1, updated_at = NOW()
		WHERE id = $2
	`, role, id)
	if err != nil {
		return fmt.Errorf("update role: %w", translate(err))
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update role: %w", ErrNotFound)
	}
	return nil
}

func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd, err := r.pool.Exec(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete account: %w", translate(err))
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("delete account: %w", ErrNotFound)
	}
	return nil
}

// UpdatePassword replaces the hash and drops any pending reset.
func (r *AccountRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET password_hash = $1, reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = NOW()
		WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", translate(err))
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update password: %w", ErrNotFound)
	}
	return nil
}

// SetResetToken stores a pending reset, replacing any earlier one.
func (r *AccountRepo) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET reset_token_hash = $1, reset_token_expires_at = $2, updated_at = NOW()
		WHERE id = $3
	`, tokenHash, expiresAt, id)
	if err != nil {
		return fmt.Errorf("set reset token: %w", translate(err))
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("set reset token: %w", ErrNotFound)
	}
	return nil
}

// ConsumeResetToken swaps in passwordHash for the account holding an
// unexpired reset token and clears the token in the same statement. Two
// callers racing on one token cannot both match: the loser re-evaluates
// the WHERE clause against the cleared row and gets ErrNotFound.
func (r *AccountRepo) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		UPDATE accounts
		SET password_hash = $1, reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = NOW()
		WHERE reset_token_hash = $2 AND reset_token_expires_at > $3
		RETURNING id
	`, passwordHash, tokenHash, now)

	var id string
	if err := row.Scan(&id); err != nil {
		return "", fmt.Errorf("consume reset token: %w", translate(err))
	}
	return id, nil
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	if err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.Role,
		&account.PasswordHash,
		&account.ResetTokenHash,
		&account.ResetTokenExpiresAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &account, nil
}
