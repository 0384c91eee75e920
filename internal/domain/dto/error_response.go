package dto

// ErrorResponse is the only shape clients ever receive on failure.
//
// Example:
//
//	{"error": "Please provide a 'ticker' parameter."}
type ErrorResponse struct {
	Message string `json:"error" example:"Please provide a 'ticker' parameter."`
}

// NewErrorResponse builds an ErrorResponse carrying a client-safe message.
// Internal causes are logged by the caller and never placed in the body.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Message: message}
}

// Error implements the error interface.
func (e ErrorResponse) Error() string {
	return e.Message
}
