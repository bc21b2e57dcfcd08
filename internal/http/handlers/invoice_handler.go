package handlers

import (
	"net/http"
	"strconv"
	"time"

	"clubhouse-server/internal/auth"
	"clubhouse-server/internal/models"
	"clubhouse-server/internal/repo"
	"clubhouse-server/internal/services"
	"clubhouse-server/internal/utils"
	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoices *services.InvoiceService
}

type InvoiceRequest struct {
	MemberID int64   `json:"member_id" binding:"required,gt=0"`
	Amount   float64 `json:"amount" binding:"gte=0"`
	DueDate  string  `json:"due_date" binding:"required"`
	Status   string  `json:"status" binding:"omitempty,oneof=Unpaid Paid Cancelled"`
	Notes    *string `json:"notes"`
}

type InvoiceResponse struct {
	ID        int64     `json:"id"`
	MemberID  int64     `json:"member_id"`
	Amount    float64   `json:"amount"`
	DueDate   string    `json:"due_date"`
	Status    string    `json:"status"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewInvoiceHandler(invoices *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	inv, ok := bindInvoice(c)
	if !ok {
		return
	}

	created, err := h.invoices.Create(c.Request.Context(), inv)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondCreated(c, invoiceToResponse(*created))
}

func (h *InvoiceHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	inv, ok := bindInvoice(c)
	if !ok {
		return
	}
	inv.ID = id

	if err := h.invoices.Update(c.Request.Context(), inv); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondMessage(c, http.StatusOK, "invoice updated")
}

func (h *InvoiceHandler) List(c *gin.Context) {
	filters, err := parseInvoiceFilters(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	items, total, err := h.invoices.List(c.Request.Context(), filters)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{
		"data": invoicesToResponse(items),
		"meta": utils.NewPagination(filters.Page, filters.PerPage, total),
	})
}

func (h *InvoiceHandler) Unpaid(c *gin.Context) {
	items, err := h.invoices.ListUnpaid(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, invoicesToResponse(items))
}

func (h *InvoiceHandler) Summary(c *gin.Context) {
	filters, err := parseInvoiceFilters(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	summary, err := h.invoices.Summary(c.Request.Context(), filters)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	monthly := make([]gin.H, 0, 12)
	for i := 1; i <= 12; i++ {
		month := strconv.Itoa(i)
		if i < 10 {
			month = "0" + month
		}
		monthly = append(monthly, gin.H{
			"month":  month,
			"amount": summary.Monthly[month],
		})
	}

	byStatus := make([]gin.H, 0, 3)
	for _, status := range []string{models.InvoiceUnpaid, models.InvoicePaid, models.InvoiceCancelled} {
		amount := summary.ByStatus[status]
		percent := 0.0
		if summary.TotalAmount > 0 {
			percent = (amount / summary.TotalAmount) * 100
		}
		byStatus = append(byStatus, gin.H{
			"status":  status,
			"amount":  amount,
			"percent": percent,
		})
	}

	utils.RespondOK(c, gin.H{
		"kpis": gin.H{
			"total_amount": summary.TotalAmount,
			"avg_amount":   summary.AvgAmount,
			"count":        summary.Count,
		},
		"monthly":   monthly,
		"by_status": byStatus,
	})
}

func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	item, err := h.invoices.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, invoiceToResponse(*item))
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if err := h.invoices.Delete(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondMessage(c, http.StatusOK, "invoice deleted")
}

func bindInvoice(c *gin.Context) (*models.Invoice, bool) {
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return nil, false
	}

	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		utils.RespondError(c, err)
		return nil, false
	}

	return &models.Invoice{
		MemberID: req.MemberID,
		Amount:   req.Amount,
		DueDate:  due,
		Status:   req.Status,
		Notes:    req.Notes,
	}, true
}

// parseInvoiceFilters reads query parameters into typed filters; the
// repository binds every value as a parameter.
func parseInvoiceFilters(c *gin.Context) (repo.InvoiceFilters, error) {
	filters := repo.InvoiceFilters{}
	filters.Status = c.Query("status")
	filters.SortBy = c.Query("sort_by")
	filters.SortDir = c.Query("sort_dir")
	filters.Page, filters.PerPage = utils.PageBounds(
		parseIntDefault(c.Query("page"), 1),
		parseIntDefault(c.Query("per_page"), utils.DefaultPerPage),
	)

	if memberStr := c.Query("member_id"); memberStr != "" {
		val, err := strconv.ParseInt(memberStr, 10, 64)
		if err != nil || val <= 0 {
			return filters, auth.Validation("member_id must be a positive integer")
		}
		filters.MemberID = &val
	}

	if minAmountStr := c.Query("min_amount"); minAmountStr != "" {
		val, err := strconv.ParseFloat(minAmountStr, 64)
		if err != nil {
			return filters, auth.Validation("min_amount must be a number")
		}
		filters.MinAmount = &val
	}

	if fromStr := c.Query("due_from"); fromStr != "" {
		parsed, err := parseDate("due_from", fromStr)
		if err != nil {
			return filters, err
		}
		filters.DueFrom = &parsed
	}

	if toStr := c.Query("due_to"); toStr != "" {
		parsed, err := parseDate("due_to", toStr)
		if err != nil {
			return filters, err
		}
		end := parsed.Add(24 * time.Hour)
		filters.DueTo = &end
	}

	return filters, nil
}

func invoicesToResponse(items []models.Invoice) []InvoiceResponse {
	data := make([]InvoiceResponse, 0, len(items))
	for _, item := range items {
		data = append(data, invoiceToResponse(item))
	}
	return data
}

func invoiceToResponse(inv models.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:        inv.ID,
		MemberID:  inv.MemberID,
		Amount:    inv.Amount,
		DueDate:   inv.DueDate.UTC().Format(dateLayout),
		Status:    inv.Status,
		Notes:     inv.Notes,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}
