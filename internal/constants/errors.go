package constants

import "net/http"

// APIError is a predefined error response: code, message and HTTP status.
type APIError struct {
	Code    string
	Message string
	Status  int
}

var (
	ErrInvalidRequestBody = APIError{
		Code:    CodeInvalidRequest,
		Message: MsgInvalidRequestBody,
		Status:  http.StatusBadRequest,
	}
	ErrInternalError = APIError{
		Code:    CodeInternalError,
		Message: MsgInternalError,
		Status:  http.StatusInternalServerError,
	}
)

// Lookup misses are reported as 400, not 404.
var (
	ErrInvalidCode = APIError{
		Code:    CodeInvalidCode,
		Message: MsgInvalidCode,
		Status:  http.StatusBadRequest,
	}
	ErrInvalidURL = APIError{
		Code:    CodeInvalidURL,
		Message: MsgInvalidURL,
		Status:  http.StatusBadRequest,
	}
	ErrInvalidLimit = APIError{
		Code:    CodeInvalidLimit,
		Message: MsgInvalidLimit,
		Status:  http.StatusBadRequest,
	}
	ErrLinkNotFound = APIError{
		Code:    CodeLinkNotFound,
		Message: MsgLinkNotFound,
		Status:  http.StatusBadRequest,
	}
	ErrCodeInUse = APIError{
		Code:    CodeCodeInUse,
		Message: MsgCodeInUse,
		Status:  http.StatusBadRequest,
	}
)
