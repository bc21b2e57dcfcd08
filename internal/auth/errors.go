package auth

import "github.com/samber/oops"

// Error codes shared by the auth core and the transport layer.
const (
	CodeNotFound           = "AUTH_NOT_FOUND"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeTokenMalformed     = "TOKEN_MALFORMED"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidResetToken  = "RESET_TOKEN_INVALID"
	CodeValidation         = "VALIDATION_ERROR"
	CodeConflict           = "CONFLICT"
	CodeForbidden          = "FORBIDDEN"
	CodeRecordNotFound     = "NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
)

// CodeOf returns the oops code carried by err, or CodeInternal when err is
// not a coded error.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return CodeInternal
	}
	if code, ok := oopsErr.Code().(string); ok && code != "" {
		return code
	}
	return CodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

func NotFound(format string, args ...any) error {
	return oops.Code(CodeNotFound).Errorf(format, args...)
}

func InvalidCredentials() error {
	return oops.Code(CodeInvalidCredentials).Errorf("invalid credentials")
}

func Validation(format string, args ...any) error {
	return oops.Code(CodeValidation).Errorf(format, args...)
}

func InvalidResetToken() error {
	return oops.Code(CodeInvalidResetToken).Errorf("invalid or expired reset token")
}

func Conflict(format string, args ...any) error {
	return oops.Code(CodeConflict).Errorf(format, args...)
}

func Forbidden(format string, args ...any) error {
	return oops.Code(CodeForbidden).Errorf(format, args...)
}

// RecordNotFound is for missing resources addressed by id. Login lookups use
// NotFound instead, which the transport collapses into invalid credentials.
func RecordNotFound(format string, args ...any) error {
	return oops.Code(CodeRecordNotFound).Errorf(format, args...)
}

// Internal wraps an unexpected failure. The operation name ends up in the
// error context so logs show where it happened.
func Internal(operation string, err error) error {
	return oops.Code(CodeInternal).With("operation", operation).Wrap(err)
}
