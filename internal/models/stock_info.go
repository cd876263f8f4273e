package models

// StockInfo is a Symbol Registry entry (stock_info table).
// Symbol is stored in canonical uppercase.
type StockInfo struct {
	Symbol      string  `json:"symbol"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
