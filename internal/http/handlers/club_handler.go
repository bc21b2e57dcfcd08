package handlers

import (
	"time"

	"clubhouse-server/internal/auth"
	"clubhouse-server/internal/http/middleware"
	"clubhouse-server/internal/models"
	"clubhouse-server/internal/services"
	"clubhouse-server/internal/utils"
	"github.com/gin-gonic/gin"
)

type MemberRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Sport    string  `json:"sport" binding:"required"`
	Amount   float64 `json:"amount" binding:"gte=0"`
}

type ContractRequest struct {
	MemberID     int64  `json:"member_id" binding:"required,gt=0"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
	ContractType string `json:"contract_type" binding:"required"`
}

type InventoryRequest struct {
	Name      string `json:"name" binding:"required"`
	Category  string `json:"category"`
	Condition string `json:"condition"`
}

type DocumentRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

type MessageRequest struct {
	Title       string     `json:"title" binding:"required"`
	Body        string     `json:"body" binding:"required"`
	Recipient   string     `json:"recipient" binding:"required"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

type ReportRequest struct {
	MemberID   int64  `json:"member_id" binding:"required,gt=0"`
	ReportType string `json:"report_type" binding:"required"`
	ReportText string `json:"report_text" binding:"required"`
}

type MemberHandler struct {
	*RecordHandler[models.Member, MemberRequest]
	members *services.MemberService
}

func NewMemberHandler(members *services.MemberService) *MemberHandler {
	return &MemberHandler{
		RecordHandler: NewRecordHandler[models.Member, MemberRequest](members, "member", buildMember),
		members:       members,
	}
}

func (h *MemberHandler) Unpaid(c *gin.Context) {
	items, err := h.members.ListUnpaid(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, items)
}

type ContractHandler struct {
	*RecordHandler[models.Contract, ContractRequest]
	contracts *services.ContractService
}

func NewContractHandler(contracts *services.ContractService) *ContractHandler {
	return &ContractHandler{
		RecordHandler: NewRecordHandler[models.Contract, ContractRequest](contracts, "contract", buildContract),
		contracts:     contracts,
	}
}

func (h *ContractHandler) Expired(c *gin.Context) {
	items, err := h.contracts.ListExpired(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, items)
}

func NewInventoryHandler(items *services.RecordService[models.InventoryItem]) *RecordHandler[models.InventoryItem, InventoryRequest] {
	return NewRecordHandler[models.InventoryItem, InventoryRequest](items, "inventory item", func(_ *gin.Context, req InventoryRequest) (*models.InventoryItem, error) {
		return &models.InventoryItem{Name: req.Name, Category: req.Category, Condition: req.Condition}, nil
	})
}

func NewDocumentHandler(docs *services.RecordService[models.Document]) *RecordHandler[models.Document, DocumentRequest] {
	return NewRecordHandler[models.Document, DocumentRequest](docs, "document", func(c *gin.Context, req DocumentRequest) (*models.Document, error) {
		author := req.Author
		if author == "" {
			author = c.GetString(middleware.ContextUsername)
		}
		return &models.Document{Title: req.Title, Content: req.Content, Author: author}, nil
	})
}

// NewMessageHandler stamps the sender from the session token.
func NewMessageHandler(messages *services.RecordService[models.Message]) *RecordHandler[models.Message, MessageRequest] {
	return NewRecordHandler[models.Message, MessageRequest](messages, "message", func(c *gin.Context, req MessageRequest) (*models.Message, error) {
		msg := &models.Message{
			Title:     req.Title,
			Body:      req.Body,
			Recipient: req.Recipient,
			SentBy:    c.GetString(middleware.ContextUsername),
		}
		if req.ScheduledAt != nil {
			at := req.ScheduledAt.UTC()
			msg.ScheduledAt = &at
		}
		return msg, nil
	})
}

type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) ListByMember(c *gin.Context) {
	memberID, err := parseID(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	items, err := h.reports.ListByMember(c.Request.Context(), memberID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, items)
}

func (h *ReportHandler) Create(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}
	created, err := h.reports.Create(c.Request.Context(), &models.Report{
		MemberID:   req.MemberID,
		ReportType: req.ReportType,
		ReportText: req.ReportText,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, created)
}

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Get(c *gin.Context) {
	counts, err := h.dashboard.Counts(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, counts)
}

func buildMember(_ *gin.Context, req MemberRequest) (*models.Member, error) {
	return &models.Member{FullName: req.FullName, Email: req.Email, Sport: req.Sport, Amount: req.Amount}, nil
}

func buildContract(_ *gin.Context, req ContractRequest) (*models.Contract, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, auth.Validation("end_date must not be before start_date")
	}
	return &models.Contract{MemberID: req.MemberID, StartDate: start, EndDate: end, ContractType: req.ContractType}, nil
}
