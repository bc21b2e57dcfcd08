package handlers

import (
	"net/http"
	"time"

	"clubhouse-server/internal/auth"
	"clubhouse-server/internal/http/middleware"
	"clubhouse-server/internal/models"
	"clubhouse-server/internal/services"
	"clubhouse-server/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	auth *services.AuthService
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=admin staff"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin staff"`
}

type AccountResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserHandler(auth *services.AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

func (h *UserHandler) List(c *gin.Context) {
	accounts, err := h.auth.ListAccounts(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	data := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		data = append(data, accountToResponse(account))
	}
	utils.RespondOK(c, gin.H{"data": data})
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	account, err := h.auth.CreateAccount(c.Request.Context(), services.CreateAccountInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondCreated(c, accountToResponse(*account))
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	id, err := parseAccountID(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	actor, _ := middleware.CurrentIdentity(c)
	if err := h.auth.UpdateRole(c.Request.Context(), actor.AccountID, id, req.Role); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondMessage(c, http.StatusOK, "user updated")
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := parseAccountID(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	actor, _ := middleware.CurrentIdentity(c)
	if err := h.auth.DeleteAccount(c.Request.Context(), actor.AccountID, id); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondMessage(c, http.StatusOK, "user deleted")
}

// parseAccountID reads the :id path parameter; account ids are UUIDs.
func parseAccountID(c *gin.Context) (string, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return "", auth.Validation("id must be a UUID")
	}
	return id.String(), nil
}

func accountToResponse(a models.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	}
}
