package models

type ErrorKind string

const (
	ErrorKindValidation   ErrorKind = "validation"
	ErrorKindUnauthorized ErrorKind = "unauthorized"
	ErrorKindForbidden    ErrorKind = "forbidden"
	ErrorKindCSRF         ErrorKind = "csrf"
	ErrorKindNotFound     ErrorKind = "not_found"
	ErrorKindConflict     ErrorKind = "conflict"
	ErrorKindRateLimited  ErrorKind = "rate_limited"
	ErrorKindInternal     ErrorKind = "internal"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse carries the technical Error detail only outside production.
type ErrorResponse struct {
	Success   bool      `json:"success"`
	ErrorKind ErrorKind `json:"error_kind"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
}

// ListErrorResponse is returned by listing endpoints when the store fails:
// the client still receives an empty data array.
type ListErrorResponse struct {
	Success   bool        `json:"success"`
	ErrorKind ErrorKind   `json:"error_kind"`
	Message   string      `json:"message"`
	Error     string      `json:"error,omitempty"`
	Data      interface{} `json:"data"`
	Meta      MetaData    `json:"meta"`
}

type MetaData struct {
	Page       int `json:"page,omitempty"`
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type PaginationResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Meta    MetaData    `json:"meta"`
}

type CSRFTokenResponse struct {
	CSRFToken string `json:"csrf_token"`
}

type LoginResponse struct {
	User      User   `json:"user"`
	CSRFToken string `json:"csrf_token"`
}

type SiteInfo struct {
	BaseURL          string      `json:"base_url"`
	Environment      string      `json:"environment"`
	PhoneNumber      string      `json:"phone_number"`
	WhatsAppNumber   string      `json:"whatsapp_number"`
	RecaptchaSiteKey string      `json:"recaptcha_site_key"`
	Social           interface{} `json:"social"`
}
