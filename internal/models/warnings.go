package models

import "fmt"

// WarningCode categorizes warnings by subsystem.
// W3xxx = import.
type WarningCode string

const (
	WarnDuplicateNaturalKey WarningCode = "W3001" // earlier row superseded by a later row with the same key
	WarnUnknownColumn       WarningCode = "W3002" // header column not part of the domain, ignored
)

// Warning is a non-fatal finding attached to an ImportResult.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// NewWarning formats a warning message for code
func NewWarning(code WarningCode, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}
