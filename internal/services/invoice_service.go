package services

import (
	"context"

	"clubhouse-server/internal/auth"
	"clubhouse-server/internal/models"
	"clubhouse-server/internal/repo"
)

type InvoiceService struct {
	invoices *repo.InvoiceRepo
}

func NewInvoiceService(invoices *repo.InvoiceRepo) *InvoiceService {
	return &InvoiceService{invoices: invoices}
}

func (s *InvoiceService) Create(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	if err := validateInvoice(inv); err != nil {
		return nil, err
	}
	created, err := s.invoices.Create(ctx, inv)
	if err != nil {
		return nil, recordError("create invoice", "invoice", err)
	}
	return created, nil
}

func (s *InvoiceService) Update(ctx context.Context, inv *models.Invoice) error {
	if err := validateInvoice(inv); err != nil {
		return err
	}
	if err := s.invoices.Update(ctx, inv); err != nil {
		return recordError("update invoice", "invoice", err)
	}
	return nil
}

func (s *InvoiceService) Get(ctx context.Context, id int64) (*models.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, recordError("get invoice", "invoice", err)
	}
	return inv, nil
}

func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	if err := s.invoices.Delete(ctx, id); err != nil {
		return recordError("delete invoice", "invoice", err)
	}
	return nil
}

func (s *InvoiceService) List(ctx context.Context, filters repo.InvoiceFilters) ([]models.Invoice, int64, error) {
	if filters.Status != "" && !models.ValidInvoiceStatus(filters.Status) {
		return nil, 0, auth.Validation("unknown invoice status %q", filters.Status)
	}
	items, total, err := s.invoices.List(ctx, filters)
	if err != nil {
		return nil, 0, auth.Internal("list invoices", err)
	}
	return items, total, nil
}

func (s *InvoiceService) ListUnpaid(ctx context.Context) ([]models.Invoice, error) {
	items, err := s.invoices.ListUnpaid(ctx)
	if err != nil {
		return nil, auth.Internal("list unpaid invoices", err)
	}
	return items, nil
}

func (s *InvoiceService) Summary(ctx context.Context, filters repo.InvoiceFilters) (*repo.InvoiceSummary, error) {
	summary, err := s.invoices.Summary(ctx, filters)
	if err != nil {
		return nil, auth.Internal("invoice summary", err)
	}
	return summary, nil
}

func validateInvoice(inv *models.Invoice) error {
	if inv.Status == "" {
		inv.Status = models.InvoiceUnpaid
	}
	if !models.ValidInvoiceStatus(inv.Status) {
		return auth.Validation("unknown invoice status %q", inv.Status)
	}
	if inv.Amount < 0 {
		return auth.Validation("amount cannot be negative")
	}
	if inv.DueDate.IsZero() {
		return auth.Validation("due date is required")
	}
	return nil
}
