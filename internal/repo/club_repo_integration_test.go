//go:build integration

package repo_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"clubhouse-server/internal/models"
	"clubhouse-server/internal/repo"
)

var _ = Describe("club records", func() {
	var (
		members   *repo.MemberRepo
		contracts *repo.ContractRepo
		invoices  *repo.InvoiceRepo
		dashboard *repo.DashboardRepo
	)

	BeforeEach(func() {
		truncate()
		members = repo.NewMemberRepo(gormDB.DB, 5*time.Second)
		contracts = repo.NewContractRepo(gormDB.DB, 5*time.Second)
		invoices = repo.NewInvoiceRepo(database.Pool, 5*time.Second)
		dashboard = repo.NewDashboardRepo(gormDB.DB, 5*time.Second)
	})

	It("round-trips members and lists the unpaid ones", func() {
		paid := &models.Member{FullName: "Bob Paid", Sport: "golf"}
		owing := &models.Member{FullName: "Alice Owing", Sport: "tennis", Amount: 45.5}
		Expect(members.Create(suiteCtx, paid)).To(Succeed())
		Expect(members.Create(suiteCtx, owing)).To(Succeed())
		Expect(owing.ID).NotTo(BeZero())

		unpaid, err := members.ListUnpaid(suiteCtx)
		Expect(err).NotTo(HaveOccurred())
		Expect(unpaid).To(HaveLen(1))
		Expect(unpaid[0].Amount).To(BeNumerically("~", 45.5))

		owing.Amount = 0
		Expect(members.Update(suiteCtx, owing.ID, owing)).To(Succeed())
		unpaid, err = members.ListUnpaid(suiteCtx)
		Expect(err).NotTo(HaveOccurred())
		Expect(unpaid).To(BeEmpty())

		Expect(errors.Is(members.Delete(suiteCtx, 9999), repo.ErrNotFound)).To(BeTrue())
	})

	It("maps a missing member reference to ErrInvalidReference", func() {
		_, err := invoices.Create(suiteCtx, &models.Invoice{
			MemberID: 424242,
			Amount:   10,
			DueDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			Status:   models.InvoiceUnpaid,
		})
		Expect(errors.Is(err, repo.ErrInvalidReference)).To(BeTrue())
	})

	It("filters invoices with bound parameters and counts the dashboard", func() {
		member := &models.Member{FullName: "Alice", Sport: "tennis", Amount: 20}
		Expect(members.Create(suiteCtx, member)).To(Succeed())

		now := time.Now().UTC()
		Expect(contracts.Create(suiteCtx, &models.Contract{
			MemberID:     member.ID,
			StartDate:    now.AddDate(-1, 0, 0),
			EndDate:      now.AddDate(0, 0, -1),
			ContractType: "annual",
		})).To(Succeed())

		for i, status := range []string{models.InvoiceUnpaid, models.InvoicePaid, models.InvoiceUnpaid} {
			_, err := invoices.Create(suiteCtx, &models.Invoice{
				MemberID: member.ID,
				Amount:   float64(10 * (i + 1)),
				DueDate:  time.Date(2026, time.Month(i+1), 15, 0, 0, 0, 0, time.UTC),
				Status:   status,
			})
			Expect(err).NotTo(HaveOccurred())
		}

		injected := "Unpaid' OR '1'='1"
		items, total, err := invoices.List(suiteCtx, repo.InvoiceFilters{Status: injected, Page: 1, PerPage: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(BeEmpty())
		Expect(total).To(BeZero())

		items, total, err = invoices.List(suiteCtx, repo.InvoiceFilters{Status: models.InvoiceUnpaid, SortBy: "amount", SortDir: "desc", Page: 1, PerPage: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(2)))
		Expect(items[0].Amount).To(BeNumerically("~", 30))

		summary, err := invoices.Summary(suiteCtx, repo.InvoiceFilters{})
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Count).To(Equal(int64(3)))
		Expect(summary.ByStatus[models.InvoicePaid]).To(BeNumerically("~", 20))
		Expect(summary.Monthly["03"]).To(BeNumerically("~", 30))

		counts, err := dashboard.Counts(suiteCtx, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(*counts).To(Equal(models.Dashboard{
			Members:          1,
			UnpaidMembers:    1,
			Contracts:        1,
			ExpiredContracts: 1,
			UnpaidInvoices:   2,
		}))
	})
})
