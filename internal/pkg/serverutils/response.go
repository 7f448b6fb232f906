package serverutils

// Response is the uniform envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// ErrorResponse builds a failure envelope. The code is carried by the HTTP
// status, not the body.
func ErrorResponse(code int, message string) Response {
	return Response{
		Success: false,
		Message: message,
	}
}
