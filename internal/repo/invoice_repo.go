package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clubhouse-server/internal/models"
	"github.com/jackc/pgx/v5"
)

const invoiceColumns = `id, member_id, amount, due_date, status, notes, created_at, updated_at`

type InvoiceRepo struct {
	pool    DBTX
	timeout time.Duration
}

const maxInvoicesPerPage = 100

type InvoiceFilters struct {
	Status    string
	MemberID  *int64
	DueFrom   *time.Time
	DueTo     *time.Time
	MinAmount *float64
	SortBy    string
	SortDir   string
	Page      int
	PerPage   int
}

type InvoiceSummary struct {
	TotalAmount float64
	AvgAmount   float64
	Count       int64
	Monthly     map[string]float64
	ByStatus    map[string]float64
}

func NewInvoiceRepo(pool DBTX, timeout time.Duration) *InvoiceRepo {
	return &InvoiceRepo{pool: pool, timeout: timeout}
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO invoices (member_id, amount, due_date, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, inv.MemberID, inv.Amount, inv.DueDate, inv.Status, inv.Notes)

	if err := row.Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert invoice: %w", translate(err))
	}
	return inv, nil
}

func (r *InvoiceRepo) Update(ctx context.Context, inv *models.Invoice) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd, err := r.pool.Exec(ctx, `
		UPDATE invoices
		SET member_id = $1, amount = $2, due_date = $3, status = $4, notes = $5, updated_at = NOW()
		WHERE id = $6
	`, inv.MemberID, inv.Amount, inv.DueDate, inv.Status, inv.Notes, inv.ID)
	if err != nil {
		return fmt.Errorf("update invoice: %w", translate(err))
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update invoice: %w", ErrNotFound)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd, err := r.pool.Exec(ctx, "DELETE FROM invoices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("delete invoice: %w", ErrNotFound)
	}
	return nil
}

// ListUnpaid returns every invoice still waiting for payment, oldest due
// date first.
func (r *InvoiceRepo) ListUnpaid(ctx context.Context) ([]models.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE status = $1
		ORDER BY due_date ASC, id ASC
	`, models.InvoiceUnpaid)
	if err != nil {
		return nil, fmt.Errorf("list unpaid invoices: %w", err)
	}
	return collectInvoices(rows)
}

func (r *InvoiceRepo) List(ctx context.Context, filters InvoiceFilters) ([]models.Invoice, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	whereSQL, args := buildInvoiceFilters(filters)

	sortColumn := mapInvoiceSortColumn(filters.SortBy)
	sortDir := "ASC"
	if strings.ToLower(filters.SortDir) == "desc" {
		sortDir = "DESC"
	}

	limit := filters.PerPage
	switch {
	case limit <= 0:
		limit = 10
	case limit > maxInvoicesPerPage:
		limit = maxInvoicesPerPage
	}
	offset := (filters.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM invoices
		%s
		ORDER BY %s %s, id %s
		LIMIT %d OFFSET %d
	`, invoiceColumns, whereSQL, sortColumn, sortDir, sortDir, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	results, err := collectInvoices(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM invoices %s`, whereSQL)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	return results, total, nil
}

func (r *InvoiceRepo) Summary(ctx context.Context, filters InvoiceFilters) (*InvoiceSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	whereSQL, args := buildInvoiceFilters(filters)

	kpiQuery := fmt.Sprintf(`
		SELECT COALESCE(SUM(amount),0), COALESCE(AVG(amount),0), COUNT(*)
		FROM invoices
		%s
	`, whereSQL)
	var summary InvoiceSummary
	if err := r.pool.QueryRow(ctx, kpiQuery, args...).Scan(&summary.TotalAmount, &summary.AvgAmount, &summary.Count); err != nil {
		return nil, fmt.Errorf("summary kpis: %w", err)
	}

	monthly, err := r.sumGrouped(ctx, fmt.Sprintf(`
		SELECT TO_CHAR(DATE_TRUNC('month', due_date), 'MM') AS month,
		COALESCE(SUM(amount),0)
		FROM invoices
		%s
		GROUP BY 1
		ORDER BY 1
	`, whereSQL), args)
	if err != nil {
		return nil, fmt.Errorf("summary monthly: %w", err)
	}
	summary.Monthly = monthly

	byStatus, err := r.sumGrouped(ctx, fmt.Sprintf(`
		SELECT status, COALESCE(SUM(amount),0)
		FROM invoices
		%s
		GROUP BY status
	`, whereSQL), args)
	if err != nil {
		return nil, fmt.Errorf("summary status: %w", err)
	}
	summary.ByStatus = byStatus

	return &summary, nil
}

func (r *InvoiceRepo) sumGrouped(ctx context.Context, query string, args []any) (map[string]float64, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[string]float64)
	for rows.Next() {
		var key string
		var amount float64
		if err := rows.Scan(&key, &amount); err != nil {
			return nil, err
		}
		sums[key] = amount
	}
	return sums, rows.Err()
}

func buildInvoiceFilters(filters InvoiceFilters) (string, []any) {
	clauses := []string{"WHERE 1=1"}
	args := []any{}
	index := 1

	if filters.Status != "" {
		clauses = append(clauses, fmt.Sprintf("AND status = $%d", index))
		args = append(args, filters.Status)
		index++
	}

	if filters.MemberID != nil {
		clauses = append(clauses, fmt.Sprintf("AND member_id = $%d", index))
		args = append(args, *filters.MemberID)
		index++
	}

	if filters.DueFrom != nil {
		clauses = append(clauses, fmt.Sprintf("AND due_date >= $%d", index))
		args = append(args, *filters.DueFrom)
		index++
	}

	if filters.DueTo != nil {
		clauses = append(clauses, fmt.Sprintf("AND due_date < $%d", index))
		args = append(args, *filters.DueTo)
		index++
	}

	if filters.MinAmount != nil {
		clauses = append(clauses, fmt.Sprintf("AND amount >= $%d", index))
		args = append(args, *filters.MinAmount)
	}

	return strings.Join(clauses, "\n"), args
}

// mapInvoiceSortColumn whitelists sort keys; anything unknown sorts by due date.
func mapInvoiceSortColumn(sortBy string) string {
	switch strings.ToLower(sortBy) {
	case "amount":
		return "amount"
	case "status":
		return "status"
	case "member":
		return "member_id"
	case "created":
		return "created_at"
	default:
		return "due_date"
	}
}

func collectInvoices(rows pgx.Rows) ([]models.Invoice, error) {
	defer rows.Close()

	results := []models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		results = append(results, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}
	return results, nil
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var inv models.Invoice
	if err := row.Scan(
		&inv.ID,
		&inv.MemberID,
		&inv.Amount,
		&inv.DueDate,
		&inv.Status,
		&inv.Notes,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}
