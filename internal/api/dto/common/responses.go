package common

// MessageResponse is the body of every contact API response
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthResponse is returned by the health summary endpoint
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// NewSuccessResponse creates a successful response with a message
func NewSuccessResponse(message string) MessageResponse {
	return MessageResponse{
		Success: true,
		Message: message,
	}
}

// NewErrorResponse creates an unsuccessful response with a message
func NewErrorResponse(message string) MessageResponse {
	return MessageResponse{
		Success: false,
		Message: message,
	}
}
