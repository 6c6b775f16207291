package models

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// generic acknowledgement
type Resp struct {
	OK   bool   `json:"ok"`
	Info string `json:"info,omitempty"`
}

type RolesResponse struct {
	Roles        []string `json:"roles"`
	DefaultRole  string   `json:"defaultRole"`
	Difficulties []string `json:"difficulties"`
}
