package apperror

import "errors"

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// Error is the application error carried from services up to the HTTP
// layer, where Status and Code drive the JSON envelope.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(message string) *Error {
	return &Error{Status: 400, Code: CodeValidation, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: 401, Code: CodeUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Status: 403, Code: CodeForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: 404, Code: CodeNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Status: 409, Code: CodeConflict, Message: message}
}

func Internal(message string) *Error {
	return &Error{Status: 500, Code: CodeInternal, Message: message}
}

// From unwraps err into an *Error when it is one.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	appErr, ok := From(err)
	return ok && appErr.Status == 404
}

func IsConflict(err error) bool {
	appErr, ok := From(err)
	return ok && appErr.Status == 409
}
