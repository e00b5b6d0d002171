// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps field-scoped errors — each field may carry several
// messages, all collected in a single validation pass.
type ValidationError struct {
	Detail string              `json:"detail"`
	Fields map[string][]string `json:"fields"`
}

func NewValidation(fields map[string][]string) *ValidationError {
	return &ValidationError{Detail: "Validation failed", Fields: fields}
}

// RowError locates one invalid row in a CSV import. Row numbers are 1-based
// and include the header line, so the first data row is row 2 — matching what
// the user sees in a spreadsheet.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportError is the envelope for an all-or-nothing import rejection.
type ImportError struct {
	Detail string     `json:"detail"`
	Errors []RowError `json:"errors"`
}

func NewImport(rows []RowError) *ImportError {
	return &ImportError{Detail: "Import rejected, no rows committed", Errors: rows}
}
