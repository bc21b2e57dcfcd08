package services

import (
	"context"
	"errors"
	"time"

	"clubhouse-server/internal/auth"
	"clubhouse-server/internal/models"
	"clubhouse-server/internal/repo"
)

type recordRepo[T any] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, id int64, record *T) error
	Delete(ctx context.Context, id int64) error
}

// RecordService exposes plain CRUD over one kind of club record and turns
// repository errors into coded errors the transport understands.
type RecordService[T any] struct {
	records recordRepo[T]
	name    string
}

func NewRecordService[T any](records recordRepo[T], name string) *RecordService[T] {
	return &RecordService[T]{records: records, name: name}
}

func (s *RecordService[T]) List(ctx context.Context) ([]T, error) {
	items, err := s.records.List(ctx)
	if err != nil {
		return nil, recordError("list "+s.name, s.name, err)
	}
	return items, nil
}

func (s *RecordService[T]) Get(ctx context.Context, id int64) (*T, error) {
	item, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, recordError("get "+s.name, s.name, err)
	}
	return item, nil
}

func (s *RecordService[T]) Create(ctx context.Context, record *T) (*T, error) {
	if err := s.records.Create(ctx, record); err != nil {
		return nil, recordError("create "+s.name, s.name, err)
	}
	return record, nil
}

func (s *RecordService[T]) Update(ctx context.Context, id int64, record *T) error {
	if err := s.records.Update(ctx, id, record); err != nil {
		return recordError("update "+s.name, s.name, err)
	}
	return nil
}

func (s *RecordService[T]) Delete(ctx context.Context, id int64) error {
	if err := s.records.Delete(ctx, id); err != nil {
		return recordError("delete "+s.name, s.name, err)
	}
	return nil
}

type MemberService struct {
	*RecordService[models.Member]
	members *repo.MemberRepo
}

func NewMemberService(members *repo.MemberRepo) *MemberService {
	return &MemberService{RecordService: NewRecordService[models.Member](members, "member"), members: members}
}

func (s *MemberService) ListUnpaid(ctx context.Context) ([]models.Member, error) {
	members, err := s.members.ListUnpaid(ctx)
	if err != nil {
		return nil, auth.Internal("list unpaid members", err)
	}
	return members, nil
}

type ContractService struct {
	*RecordService[models.Contract]
	contracts *repo.ContractRepo
	now       func() time.Time
}

func NewContractService(contracts *repo.ContractRepo) *ContractService {
	return &ContractService{
		RecordService: NewRecordService[models.Contract](contracts, "contract"),
		contracts:     contracts,
		now:           time.Now,
	}
}

func (s *ContractService) ListExpired(ctx context.Context) ([]models.Contract, error) {
	contracts, err := s.contracts.ListExpired(ctx, s.now().UTC())
	if err != nil {
		return nil, auth.Internal("list expired contracts", err)
	}
	return contracts, nil
}

type ReportService struct {
	reports *repo.ReportRepo
}

func NewReportService(reports *repo.ReportRepo) *ReportService {
	return &ReportService{reports: reports}
}

func (s *ReportService) ListByMember(ctx context.Context, memberID int64) ([]models.Report, error) {
	reports, err := s.reports.ListByMember(ctx, memberID)
	if err != nil {
		return nil, auth.Internal("list member reports", err)
	}
	return reports, nil
}

func (s *ReportService) Create(ctx context.Context, report *models.Report) (*models.Report, error) {
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, recordError("create report", "report", err)
	}
	return report, nil
}

type DashboardService struct {
	dashboard *repo.DashboardRepo
	now       func() time.Time
}

func NewDashboardService(dashboard *repo.DashboardRepo) *DashboardService {
	return &DashboardService{dashboard: dashboard, now: time.Now}
}

func (s *DashboardService) Counts(ctx context.Context) (*models.Dashboard, error) {
	counts, err := s.dashboard.Counts(ctx, s.now().UTC())
	if err != nil {
		return nil, auth.Internal("dashboard counts", err)
	}
	return counts, nil
}

func recordError(operation, name string, err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return auth.RecordNotFound("%s not found", name)
	case errors.Is(err, repo.ErrInvalidReference):
		return auth.Validation("%s references a record that does not exist", name)
	case errors.Is(err, repo.ErrConflict):
		return auth.Conflict("%s already exists", name)
	default:
		return auth.Internal(operation, err)
	}
}
