package utils

import (
	"errors"
	"net/http"

	"clubhouse-server/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
)

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type AppError struct {
	Status  int
	Code    string
	Message string
	Details interface{}
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, code, message string, details interface{}) *AppError {
	return &AppError{Status: status, Code: code, Message: message, Details: details}
}

// publicError is how a coded error is shown to clients. An empty message
// means the error's own text is safe to return.
type publicError struct {
	status  int
	code    string
	message string
}

var publicErrors = map[string]publicError{
	auth.CodeNotFound:           {http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials"},
	auth.CodeInvalidCredentials: {http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials"},
	auth.CodeTokenMalformed:     {http.StatusUnauthorized, "UNAUTHORIZED", "invalid token"},
	auth.CodeTokenExpired:       {http.StatusUnauthorized, "UNAUTHORIZED", "invalid token"},
	auth.CodeInvalidResetToken:  {http.StatusBadRequest, auth.CodeInvalidResetToken, "invalid or expired reset token"},
	auth.CodeValidation:         {http.StatusBadRequest, auth.CodeValidation, ""},
	auth.CodeConflict:           {http.StatusConflict, auth.CodeConflict, ""},
	auth.CodeForbidden:          {http.StatusForbidden, auth.CodeForbidden, ""},
	auth.CodeRecordNotFound:     {http.StatusNotFound, auth.CodeRecordNotFound, ""},
}

// RespondError writes err as a JSON error body. Unmapped errors become a
// bare 500 and are attached to the gin context for the request logger.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, ErrorResponse{Error: ErrorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}})
		return
	}

	pub, ok := publicErrors[auth.CodeOf(err)]
	if !ok {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorBody{
			Code:    auth.CodeInternal,
			Message: "internal server error",
		}})
		return
	}

	message := pub.message
	if message == "" {
		message = publicMessage(err)
	}
	c.JSON(pub.status, ErrorResponse{Error: ErrorBody{
		Code:    pub.code,
		Message: message,
	}})
}

// StatusOf reports the HTTP status RespondError would use for err.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	if pub, ok := publicErrors[auth.CodeOf(err)]; ok {
		return pub.status
	}
	return http.StatusInternalServerError
}

func publicMessage(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Error()
	}
	return err.Error()
}

func RespondValidationError(c *gin.Context, details interface{}) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorBody{
		Code:    auth.CodeValidation,
		Message: "invalid request",
		Details: details,
	}})
}

func RespondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: ErrorBody{
		Code:    "UNAUTHORIZED",
		Message: message,
	}})
}

func RespondOK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}

// RespondMessage writes {"message": message} with status.
func RespondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}
