package repo

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"clubhouse-server/internal/models"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestMemberRepo_ListUnpaid(t *testing.T) {
	gdb, mock := newGormMock(t)
	r := NewMemberRepo(gdb, time.Second)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "full_name", "email", "sport", "amount", "created_at", "updated_at"}).
		AddRow(1, "Alice Smith", nil, "tennis", 45.0, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "members" WHERE amount > $1 ORDER BY full_name ASC, id ASC`)).
		WithArgs(0).
		WillReturnRows(rows)

	got, err := r.ListUnpaid(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice Smith", got[0].FullName)
	assert.Nil(t, got[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepo_ListExpired(t *testing.T) {
	gdb, mock := newGormMock(t)
	r := NewContractRepo(gdb, time.Second)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := now.AddDate(0, -1, 0)
	rows := sqlmock.NewRows([]string{"id", "member_id", "start_date", "end_date", "contract_type", "created_at", "updated_at"}).
		AddRow(4, 1, end.AddDate(-1, 0, 0), end, "annual", now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "contracts" WHERE end_date < $1`)).
		WithArgs(now).
		WillReturnRows(rows)

	got, err := r.ListExpired(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "annual", got[0].ContractType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepo_CreateReturnsID(t *testing.T) {
	gdb, mock := newGormMock(t)
	r := NewInventoryRepo(gdb, time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "inventory_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	item := &models.InventoryItem{Name: "Racket", Category: "tennis", Condition: "good"}
	require.NoError(t, r.Create(context.Background(), item))
	assert.Equal(t, int64(12), item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepo_GetByIDMissing(t *testing.T) {
	gdb, mock := newGormMock(t)
	r := NewDocumentRepo(gdb, time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "documents" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := r.GetByID(context.Background(), 3)
	require.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepo_UpdateAndDeleteMissing(t *testing.T) {
	t.Run("update", func(t *testing.T) {
		gdb, mock := newGormMock(t)
		r := NewMemberRepo(gdb, time.Second)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "members" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := r.Update(context.Background(), 99, &models.Member{FullName: "Nobody", Sport: "golf"})
		require.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete", func(t *testing.T) {
		gdb, mock := newGormMock(t)
		r := NewMemberRepo(gdb, time.Second)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "members" WHERE id = $1`)).
			WithArgs(99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := r.Delete(context.Background(), 99)
		require.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMessageRepo_ListOrdersBySchedule(t *testing.T) {
	gdb, mock := newGormMock(t)
	r := NewMessageRepo(gdb, time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "messages" ORDER BY scheduled_at DESC NULLS LAST, id DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(2, "Later").AddRow(1, "Sooner"))

	got, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Later", got[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepo_Counts(t *testing.T) {
	gdb, mock := newGormMock(t)
	r := NewDashboardRepo(gdb, time.Second)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	expectCount := func(sql string, n int) {
		mock.ExpectQuery(regexp.QuoteMeta(sql)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
	}
	expectCount(`SELECT count(*) FROM "members"`, 10)
	expectCount(`SELECT count(*) FROM "members" WHERE amount > $1`, 3)
	expectCount(`SELECT count(*) FROM "contracts"`, 8)
	expectCount(`SELECT count(*) FROM "contracts" WHERE end_date < $1`, 2)
	expectCount(`SELECT count(*) FROM "invoices" WHERE status = $1`, 5)
	expectCount(`SELECT count(*) FROM "inventory_items"`, 40)
	expectCount(`SELECT count(*) FROM "documents"`, 6)

	got, err := r.Counts(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, models.Dashboard{
		Members:          10,
		UnpaidMembers:    3,
		Contracts:        8,
		ExpiredContracts: 2,
		UnpaidInvoices:   5,
		InventoryItems:   40,
		Documents:        6,
	}, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_ListByMember(t *testing.T) {
	gdb, mock := newGormMock(t)
	r := NewReportRepo(gdb, time.Second)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reports" WHERE member_id = $1 ORDER BY created_at DESC, id DESC`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "member_id", "report_type", "report_text", "created_at"}).
			AddRow(9, 4, "attendance", "Missed two sessions", now))

	got, err := r.ListByMember(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.Report{ID: 9, MemberID: 4, ReportType: "attendance", ReportText: "Missed two sessions", CreatedAt: now}, got[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}
