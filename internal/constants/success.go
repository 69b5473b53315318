package constants

import "net/http"

// APISuccess pairs a success code with its HTTP status.
type APISuccess struct {
	Code   string
	Status int
}

var (
	SuccessLinkCreated = APISuccess{
		Code:   CodeLinkCreated,
		Status: http.StatusCreated,
	}
	SuccessLinksListed = APISuccess{
		Code:   CodeLinksListed,
		Status: http.StatusOK,
	}
	SuccessMetricsFound = APISuccess{
		Code:   CodeMetricsFound,
		Status: http.StatusOK,
	}
)
