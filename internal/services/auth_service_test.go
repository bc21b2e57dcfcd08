package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"clubhouse-server/internal/auth"
	"clubhouse-server/internal/models"
	"clubhouse-server/internal/repo/repotest"
)

func TestAuthService_LoginIssuesTokenForAccount(t *testing.T) {
	f := newFixture(t)
	alice := f.seed(t, "alice", "alice@example.com", "hunter2", models.RoleStaff)

	tests := []struct {
		name       string
		identifier string
	}{
		{name: "by username", identifier: "alice"},
		{name: "by email", identifier: "alice@example.com"},
		{name: "by email any case", identifier: "Alice@Example.COM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.auth.Login(context.Background(), tt.identifier, "hunter2")
			require.NoError(t, err)

			assert.Equal(t, "Bearer", res.TokenType)
			assert.Equal(t, int64(3600), res.ExpiresIn)
			assert.Equal(t, AccountSummary{ID: alice.ID, Username: "alice", Role: models.RoleStaff}, res.Account)

			claims, err := f.tokens.Verify(res.Token)
			require.NoError(t, err)
			assert.Equal(t, auth.Identity{AccountID: alice.ID, Username: "alice", Role: models.RoleStaff}, claims.Identity())
		})
	}
}

func TestAuthService_LoginFailures(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "alice", "", "hunter2", models.RoleStaff)

	tests := []struct {
		name       string
		identifier string
		password   string
		wantCode   string
	}{
		{name: "unknown username", identifier: "mallory", password: "hunter2", wantCode: auth.CodeNotFound},
		{name: "unknown email", identifier: "mallory@example.com", password: "hunter2", wantCode: auth.CodeNotFound},
		{name: "wrong password", identifier: "alice", password: "wrong", wantCode: auth.CodeInvalidCredentials},
		{name: "username is case sensitive", identifier: "Alice", password: "hunter2", wantCode: auth.CodeNotFound},
		{name: "empty password", identifier: "alice", password: "", wantCode: auth.CodeValidation},
		{name: "blank identifier", identifier: "   ", password: "hunter2", wantCode: auth.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.auth.Login(context.Background(), tt.identifier, tt.password)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Equal(t, tt.wantCode, auth.CodeOf(err))
		})
	}
}

func TestAuthService_LoginUnknownAccountStillVerifies(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Login(context.Background(), "ghost", "whatever")
	require.Error(t, err)
	assert.Equal(t, 1, f.hasher.count(), "unknown accounts must still run a password comparison")
}

// brokenHasher cannot hash and remembers the digests it is asked to verify.
type brokenHasher struct {
	auth.PasswordHasher
	verified []string
}

func (h *brokenHasher) Hash(string) (string, error) {
	return "", errors.New("entropy source unavailable")
}

func (h *brokenHasher) Verify(password, digest string) bool {
	h.verified = append(h.verified, digest)
	return h.PasswordHasher.Verify(password, digest)
}

func TestAuthService_PlaceholderFallsBackToValidDigest(t *testing.T) {
	cfg := testConfig()
	hasher := &brokenHasher{PasswordHasher: auth.NewBcryptHasher(cfg.BcryptCost)}
	svc := NewAuthService(repotest.NewAccountStore(), hasher, auth.NewTokenCodec(cfg.JWTSecret), cfg, discardLogger(), nil)

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.Equal(t, auth.CodeNotFound, auth.CodeOf(err))

	require.Len(t, hasher.verified, 1)
	assert.Equal(t, fallbackDigest, hasher.verified[0])
	cost, err := bcrypt.Cost([]byte(fallbackDigest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(fallbackDigest), []byte("allmine")))
}

func TestAuthService_LoginStoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.store.FailWith = errors.New("connection refused")

	_, err := f.auth.Login(context.Background(), "alice", "hunter2")
	require.Error(t, err)
	assert.Equal(t, auth.CodeInternal, auth.CodeOf(err))

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "lookup account", oopsErr.Context()["operation"])
}

func TestAuthService_CreateAccount(t *testing.T) {
	f := newFixture(t)

	created, err := f.auth.CreateAccount(context.Background(), CreateAccountInput{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "s3cret!",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, created.Role, "role defaults to staff")
	assert.NotEqual(t, "s3cret!", created.PasswordHash)
	assert.True(t, f.hasher.Verify("s3cret!", created.PasswordHash))

	_, err = f.auth.Login(context.Background(), "carol", "s3cret!")
	require.NoError(t, err)
}

func TestAuthService_CreateAccountValidation(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "alice", "alice@example.com", "hunter2", models.RoleStaff)

	tests := []struct {
		name     string
		in       CreateAccountInput
		wantCode string
	}{
		{name: "short username", in: CreateAccountInput{Username: "ab", Password: "pass1"}, wantCode: auth.CodeValidation},
		{name: "username with at sign", in: CreateAccountInput{Username: "bob@home", Password: "pass1"}, wantCode: auth.CodeValidation},
		{name: "username starts with digit", in: CreateAccountInput{Username: "1bob", Password: "pass1"}, wantCode: auth.CodeValidation},
		{name: "bad role", in: CreateAccountInput{Username: "bob", Password: "pass1", Role: "root"}, wantCode: auth.CodeValidation},
		{name: "bad email", in: CreateAccountInput{Username: "bob", Email: "not-an-email", Password: "pass1"}, wantCode: auth.CodeValidation},
		{name: "empty password", in: CreateAccountInput{Username: "bob"}, wantCode: auth.CodeValidation},
		{name: "password too short", in: CreateAccountInput{Username: "bob", Password: "abc"}, wantCode: auth.CodeValidation},
		{name: "duplicate username", in: CreateAccountInput{Username: "alice", Password: "pass1"}, wantCode: auth.CodeConflict},
		{name: "duplicate email", in: CreateAccountInput{Username: "alice2", Email: "ALICE@example.com", Password: "pass1"}, wantCode: auth.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.CreateAccount(context.Background(), tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, auth.CodeOf(err))
		})
	}
}

func TestAuthService_RoleAndDeleteGuards(t *testing.T) {
	f := newFixture(t)
	admin := f.seed(t, "root", "", "rootpass", models.RoleAdmin)
	staff := f.seed(t, "bob", "", "bobpass", models.RoleStaff)
	ctx := context.Background()

	assert.Equal(t, auth.CodeForbidden, auth.CodeOf(f.auth.UpdateRole(ctx, admin.ID, admin.ID, models.RoleStaff)))
	assert.Equal(t, auth.CodeForbidden, auth.CodeOf(f.auth.DeleteAccount(ctx, admin.ID, admin.ID)))
	assert.Equal(t, auth.CodeValidation, auth.CodeOf(f.auth.UpdateRole(ctx, admin.ID, staff.ID, "owner")))
	assert.Equal(t, auth.CodeRecordNotFound, auth.CodeOf(f.auth.UpdateRole(ctx, admin.ID, "missing", models.RoleAdmin)))

	require.NoError(t, f.auth.UpdateRole(ctx, admin.ID, staff.ID, models.RoleAdmin))
	got, err := f.auth.GetAccount(ctx, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	require.NoError(t, f.auth.DeleteAccount(ctx, admin.ID, staff.ID))
	_, err = f.auth.GetAccount(ctx, staff.ID)
	assert.Equal(t, auth.CodeRecordNotFound, auth.CodeOf(err))
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newFixture(t)
	alice := f.seed(t, "alice", "", "hunter2", models.RoleStaff)
	ctx := context.Background()

	require.NoError(t, f.store.SetResetToken(ctx, alice.ID, "pending", time.Now().Add(time.Hour)))

	err := f.auth.ChangePassword(ctx, alice.ID, "wrong", "newpass1")
	assert.Equal(t, auth.CodeValidation, auth.CodeOf(err))

	require.NoError(t, f.auth.ChangePassword(ctx, alice.ID, "hunter2", "newpass1"))

	stored, ok := f.store.Snapshot(alice.ID)
	require.True(t, ok)
	assert.Nil(t, stored.ResetTokenHash, "password change drops the pending reset")
	assert.Nil(t, stored.ResetTokenExpiresAt)

	_, err = f.auth.Login(ctx, "alice", "hunter2")
	assert.Equal(t, auth.CodeInvalidCredentials, auth.CodeOf(err))
	_, err = f.auth.Login(ctx, "alice", "newpass1")
	assert.NoError(t, err)
}
