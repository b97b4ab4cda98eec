package dto

// ErrorResponse formato uniforme de error de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Detail opcional (ej. producto y faltante en stock insuficiente).
	Detail map[string]any `json:"detail,omitempty"`
}
