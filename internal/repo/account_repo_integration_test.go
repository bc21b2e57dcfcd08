//go:build integration

package repo_test

import (
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"clubhouse-server/internal/models"
	"clubhouse-server/internal/repo"
)

var _ = Describe("AccountRepo", func() {
	var accounts *repo.AccountRepo

	BeforeEach(func() {
		truncate()
		accounts = repo.NewAccountRepo(database.Pool, 5*time.Second)
	})

	createAlice := func() *models.Account {
		email := "Alice@Example.com"
		created, err := accounts.Create(suiteCtx, &models.Account{
			Username:     "alice",
			Email:        &email,
			Role:         models.RoleStaff,
			PasswordHash: "digest-1",
		})
		Expect(err).NotTo(HaveOccurred())
		return created
	}

	It("looks up accounts by username and by email ignoring case", func() {
		alice := createAlice()

		byName, err := accounts.GetByUsername(suiteCtx, "alice")
		Expect(err).NotTo(HaveOccurred())
		Expect(byName.ID).To(Equal(alice.ID))

		byEmail, err := accounts.GetByEmail(suiteCtx, "alice@example.COM")
		Expect(err).NotTo(HaveOccurred())
		Expect(byEmail.ID).To(Equal(alice.ID))

		_, err = accounts.GetByUsername(suiteCtx, "mallory")
		Expect(errors.Is(err, repo.ErrNotFound)).To(BeTrue())
	})

	It("rejects duplicate usernames and emails", func() {
		createAlice()

		_, err := accounts.Create(suiteCtx, &models.Account{Username: "alice", Role: models.RoleStaff, PasswordHash: "x"})
		Expect(errors.Is(err, repo.ErrConflict)).To(BeTrue())

		email := "ALICE@example.com"
		_, err = accounts.Create(suiteCtx, &models.Account{Username: "alice2", Email: &email, Role: models.RoleStaff, PasswordHash: "x"})
		Expect(errors.Is(err, repo.ErrConflict)).To(BeTrue())
	})

	It("consumes a reset token exactly once", func() {
		alice := createAlice()
		now := time.Now().UTC()
		Expect(accounts.SetResetToken(suiteCtx, alice.ID, "hash-1", now.Add(15*time.Minute))).To(Succeed())

		id, err := accounts.ConsumeResetToken(suiteCtx, "hash-1", "digest-2", now)
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal(alice.ID))

		_, err = accounts.ConsumeResetToken(suiteCtx, "hash-1", "digest-3", now)
		Expect(errors.Is(err, repo.ErrNotFound)).To(BeTrue())

		stored, err := accounts.GetByID(suiteCtx, alice.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.PasswordHash).To(Equal("digest-2"))
		Expect(stored.ResetTokenHash).To(BeNil())
		Expect(stored.ResetTokenExpiresAt).To(BeNil())
	})

	It("refuses an expired reset token", func() {
		alice := createAlice()
		now := time.Now().UTC()
		Expect(accounts.SetResetToken(suiteCtx, alice.ID, "hash-1", now.Add(-time.Second))).To(Succeed())

		_, err := accounts.ConsumeResetToken(suiteCtx, "hash-1", "digest-2", now)
		Expect(errors.Is(err, repo.ErrNotFound)).To(BeTrue())

		stored, err := accounts.GetByID(suiteCtx, alice.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.PasswordHash).To(Equal("digest-1"))
	})

	It("lets exactly one of many concurrent consumers win", func() {
		alice := createAlice()
		now := time.Now().UTC()
		Expect(accounts.SetResetToken(suiteCtx, alice.ID, "hash-race", now.Add(15*time.Minute))).To(Succeed())

		const racers = 16
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			wins     int
			notFound int
			start    = make(chan struct{})
		)
		for i := range racers {
			wg.Add(1)
			go func(i int) {
				defer GinkgoRecover()
				defer wg.Done()
				<-start
				_, err := accounts.ConsumeResetToken(suiteCtx, "hash-race", "digest-racer", now)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					wins++
				case errors.Is(err, repo.ErrNotFound):
					notFound++
				default:
					Fail("unexpected error: " + err.Error())
				}
			}(i)
		}
		close(start)
		wg.Wait()

		Expect(wins).To(Equal(1))
		Expect(notFound).To(Equal(racers - 1))
	})

	It("keeps the token columns paired", func() {
		alice := createAlice()
		_, err := database.Pool.Exec(suiteCtx, `UPDATE accounts SET reset_token_hash = 'x' WHERE id = $1`, alice.ID)
		Expect(err).To(HaveOccurred())
	})
})
