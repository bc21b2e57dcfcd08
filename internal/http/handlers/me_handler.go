package handlers

import (
	"net/http"

	"clubhouse-server/internal/http/middleware"
	"clubhouse-server/internal/services"
	"clubhouse-server/internal/utils"
	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	auth *services.AuthService
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func NewMeHandler(auth *services.AuthService) *MeHandler {
	return &MeHandler{auth: auth}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.RespondUnauthorized(c, "missing account")
		return
	}

	account, err := h.auth.GetAccount(c.Request.Context(), id.AccountID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, accountToResponse(*account))
}

func (h *MeHandler) ChangePassword(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.RespondUnauthorized(c, "missing account")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), id.AccountID, req.CurrentPassword, req.NewPassword); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondMessage(c, http.StatusOK, "password updated")
}
