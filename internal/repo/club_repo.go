package repo

import (
	"context"
	"fmt"
	"time"

	"clubhouse-server/internal/models"
	"gorm.io/gorm"
)

// EntityRepo is the CRUD surface shared by the gorm-backed club records.
// T must be a gorm model with an int64 "id" primary key.
type EntityRepo[T any] struct {
	db      *gorm.DB
	timeout time.Duration
	order   string
	name    string
}

func newEntityRepo[T any](db *gorm.DB, timeout time.Duration, name, order string) *EntityRepo[T] {
	return &EntityRepo[T]{db: db, timeout: timeout, name: name, order: order}
}

func (r *EntityRepo[T]) List(ctx context.Context) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records := []T{}
	if err := r.db.WithContext(ctx).Order(r.order).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", r.name, err)
	}
	return records, nil
}

func (r *EntityRepo[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var record T
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get %s: %w", r.name, translate(err))
	}
	return &record, nil
}

func (r *EntityRepo[T]) Create(ctx context.Context, record *T) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("create %s: %w", r.name, translate(err))
	}
	return nil
}

// Update overwrites every column of the row with id except id and
// created_at.
func (r *EntityRepo[T]) Update(ctx context.Context, id int64, record *T) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(record)
	if res.Error != nil {
		return fmt.Errorf("update %s: %w", r.name, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update %s: %w", r.name, ErrNotFound)
	}
	return nil
}

func (r *EntityRepo[T]) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", r.name, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete %s: %w", r.name, ErrNotFound)
	}
	return nil
}

type MemberRepo struct {
	*EntityRepo[models.Member]
}

func NewMemberRepo(db *gorm.DB, timeout time.Duration) *MemberRepo {
	return &MemberRepo{newEntityRepo[models.Member](db, timeout, "member", "full_name ASC, id ASC")}
}

// ListUnpaid returns members with an outstanding balance.
func (r *MemberRepo) ListUnpaid(ctx context.Context) ([]models.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	members := []models.Member{}
	if err := r.db.WithContext(ctx).Where("amount > ?", 0).Order(r.order).Find(&members).Error; err != nil {
		return nil, fmt.Errorf("list unpaid members: %w", err)
	}
	return members, nil
}

type ContractRepo struct {
	*EntityRepo[models.Contract]
}

func NewContractRepo(db *gorm.DB, timeout time.Duration) *ContractRepo {
	return &ContractRepo{newEntityRepo[models.Contract](db, timeout, "contract", "end_date ASC, id ASC")}
}

// ListExpired returns contracts whose end date is before now.
func (r *ContractRepo) ListExpired(ctx context.Context, now time.Time) ([]models.Contract, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	contracts := []models.Contract{}
	if err := r.db.WithContext(ctx).Where("end_date < ?", now).Order(r.order).Find(&contracts).Error; err != nil {
		return nil, fmt.Errorf("list expired contracts: %w", err)
	}
	return contracts, nil
}

func NewInventoryRepo(db *gorm.DB, timeout time.Duration) *EntityRepo[models.InventoryItem] {
	return newEntityRepo[models.InventoryItem](db, timeout, "inventory item", "name ASC, id ASC")
}

func NewDocumentRepo(db *gorm.DB, timeout time.Duration) *EntityRepo[models.Document] {
	return newEntityRepo[models.Document](db, timeout, "document", "created_at DESC, id DESC")
}

func NewMessageRepo(db *gorm.DB, timeout time.Duration) *EntityRepo[models.Message] {
	return newEntityRepo[models.Message](db, timeout, "message", "scheduled_at DESC NULLS LAST, id DESC")
}

type ReportRepo struct {
	*EntityRepo[models.Report]
}

func NewReportRepo(db *gorm.DB, timeout time.Duration) *ReportRepo {
	return &ReportRepo{newEntityRepo[models.Report](db, timeout, "report", "created_at DESC, id DESC")}
}

func (r *ReportRepo) ListByMember(ctx context.Context, memberID int64) ([]models.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reports := []models.Report{}
	if err := r.db.WithContext(ctx).Where("member_id = ?", memberID).Order(r.order).Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("list member reports: %w", err)
	}
	return reports, nil
}

type DashboardRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewDashboardRepo(db *gorm.DB, timeout time.Duration) *DashboardRepo {
	return &DashboardRepo{db: db, timeout: timeout}
}

func (r *DashboardRepo) Counts(ctx context.Context, now time.Time) (*models.Dashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	db := r.db.WithContext(ctx)
	var d models.Dashboard
	counts := []struct {
		name  string
		query *gorm.DB
		dest  *int64
	}{
		{"members", db.Model(&models.Member{}), &d.Members},
		{"unpaid members", db.Model(&models.Member{}).Where("amount > ?", 0), &d.UnpaidMembers},
		{"contracts", db.Model(&models.Contract{}), &d.Contracts},
		{"expired contracts", db.Model(&models.Contract{}).Where("end_date < ?", now), &d.ExpiredContracts},
		{"unpaid invoices", db.Table("invoices").Where("status = ?", models.InvoiceUnpaid), &d.UnpaidInvoices},
		{"inventory items", db.Model(&models.InventoryItem{}), &d.InventoryItems},
		{"documents", db.Model(&models.Document{}), &d.Documents},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", c.name, err)
		}
	}
	return &d, nil
}
