package models

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ImportResponse is returned by every domain upload endpoint.
// Errors is omitted when no row was rejected.
type ImportResponse struct {
	Message       string        `json:"message"`
	ImportID      string        `json:"importId"`
	Domain        string        `json:"domain"`
	ImportedCount int           `json:"importedCount"`
	DuplicateRows int           `json:"duplicateRows"`
	TotalRows     int           `json:"totalRows"`
	Errors        []RejectedRow `json:"errors,omitempty"`
	Warnings      []Warning     `json:"warnings,omitempty"`
}

// NewImportResponse builds the response body for a finished import
func NewImportResponse(message string, r *ImportResult) ImportResponse {
	return ImportResponse{
		Message:       message,
		ImportID:      r.ImportID,
		Domain:        r.Domain,
		ImportedCount: r.ImportedCount,
		DuplicateRows: r.DuplicateRows,
		TotalRows:     r.TotalRows,
		Errors:        r.RejectedRows,
		Warnings:      r.Warnings,
	}
}

// SymbolResponse represents the response of a symbol registry lookup
type SymbolResponse struct {
	Exists bool       `json:"exists"`
	Symbol string     `json:"symbol"`
	Info   *StockInfo `json:"info,omitempty"`
}

// ImportDomainsResponse lists the import domains the server accepts
type ImportDomainsResponse struct {
	Domains []ImportRowSpec `json:"domains"`
}
