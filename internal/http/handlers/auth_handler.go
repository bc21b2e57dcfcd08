package handlers

import (
	"net/http"

	"clubhouse-server/internal/services"
	"clubhouse-server/internal/utils"
	"github.com/gin-gonic/gin"
)

const forgotMessage = "if the account exists, a reset link has been sent"

type AuthHandler struct {
	auth   *services.AuthService
	resets *services.ResetService
}

type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type ForgotRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

type ResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password" binding:"required"`
}

func NewAuthHandler(auth *services.AuthService, resets *services.ResetService) *AuthHandler {
	return &AuthHandler{auth: auth, resets: resets}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, resp)
}

// Forgot answers the same way whether or not the identifier matched.
func (h *AuthHandler) Forgot(c *gin.Context) {
	var req ForgotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	if err := h.resets.RequestReset(c.Request.Context(), req.Identifier); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondMessage(c, http.StatusOK, forgotMessage)
}

// Reset accepts the token in the body or as the :token path parameter.
func (h *AuthHandler) Reset(c *gin.Context) {
	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}
	if token := c.Param("token"); token != "" {
		req.Token = token
	}
	if req.Token == "" {
		utils.RespondValidationError(c, "token is required")
		return
	}

	if err := h.resets.ConsumeReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondMessage(c, http.StatusOK, "password updated")
}
