package handlers

import (
	"context"
	"net/http"

	"clubhouse-server/internal/utils"
	"github.com/gin-gonic/gin"
)

type recordService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, record *T) (*T, error)
	Update(ctx context.Context, id int64, record *T) error
	Delete(ctx context.Context, id int64) error
}

// RecordHandler serves list/get/create/update/delete for one club record
// type. R is the validated request body; build turns it into a record.
type RecordHandler[T any, R any] struct {
	records recordService[T]
	name    string
	build   func(c *gin.Context, req R) (*T, error)
}

func NewRecordHandler[T any, R any](records recordService[T], name string, build func(*gin.Context, R) (*T, error)) *RecordHandler[T, R] {
	return &RecordHandler[T, R]{records: records, name: name, build: build}
}

func (h *RecordHandler[T, R]) List(c *gin.Context) {
	items, err := h.records.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, items)
}

func (h *RecordHandler[T, R]) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	item, err := h.records.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, item)
}

func (h *RecordHandler[T, R]) Create(c *gin.Context) {
	record, ok := h.bind(c)
	if !ok {
		return
	}
	created, err := h.records.Create(c.Request.Context(), record)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, created)
}

func (h *RecordHandler[T, R]) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	record, ok := h.bind(c)
	if !ok {
		return
	}
	if err := h.records.Update(c.Request.Context(), id, record); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, h.name+" updated")
}

func (h *RecordHandler[T, R]) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := h.records.Delete(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, h.name+" deleted")
}

func (h *RecordHandler[T, R]) bind(c *gin.Context) (*T, bool) {
	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return nil, false
	}
	record, err := h.build(c, req)
	if err != nil {
		utils.RespondError(c, err)
		return nil, false
	}
	return record, true
}
