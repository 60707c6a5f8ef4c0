package handler

// === DTO ===

const (
	statusSuccess = "success"
	statusError   = "error"
)

type CommandRequest struct {
	// pointer so a missing field is told apart from an empty message
	Message *string `json:"message" validate:"required"`
}

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type IssueKeyRequest struct {
	TTL string `json:"ttl"`
}

type IssueKeyResponse struct {
	Status    string `json:"status"`
	Key       string `json:"key"`
	KeyID     string `json:"key_id"`
	ExpiresAt string `json:"expires_at"`
}

func successResponse(msg string) Response {
	return Response{Status: statusSuccess, Message: msg}
}

func errorResponse(msg string) Response {
	return Response{Status: statusError, Message: msg}
}
