package constants

// Human-readable messages returned in the "error" field.
const (
	MsgInvalidRequestBody = "Invalid request body"
	MsgInternalError      = "Internal Error"

	MsgInvalidCode  = "Code must be at least 3 characters"
	MsgInvalidURL   = "Invalid URL (must be http or https)"
	MsgInvalidLimit = "Invalid limit"
	MsgLinkNotFound = "Link not found"
	MsgCodeInUse    = "Code already in use"
)
