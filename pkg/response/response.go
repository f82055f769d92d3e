package response

// ErrorBody is the envelope returned for failed requests.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Error(code, message string, data interface{}) ErrorBody {
	return ErrorBody{
		Code:    code,
		Message: message,
		Data:    data,
	}
}
