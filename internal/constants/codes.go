package constants

// Machine-readable codes. pkg/httputils logs them with the correlation id;
// the wire body only carries the message.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternalError  = "INTERNAL_ERROR"

	CodeInvalidCode  = "INVALID_CODE"
	CodeInvalidURL   = "INVALID_URL"
	CodeInvalidLimit = "INVALID_LIMIT"
	CodeLinkNotFound = "LINK_NOT_FOUND"
	CodeCodeInUse    = "CODE_IN_USE"

	CodeLinkCreated  = "LINK_CREATED"
	CodeLinksListed  = "LINKS_LISTED"
	CodeMetricsFound = "METRICS_FOUND"
)
