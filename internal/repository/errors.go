package repository

import "errors"

// ErrSymbolNotFound is returned when a symbol is not in the registry
var ErrSymbolNotFound = errors.New("symbol not found")
