package models

import (
	"github.com/shopspring/decimal"
)

// ColumnKind describes how a raw CSV cell is coerced
type ColumnKind string

const (
	ColumnText   ColumnKind = "text"
	ColumnNumber ColumnKind = "number"
	ColumnDate   ColumnKind = "date"
)

// NumberFormat selects the numeric parsing rule of a domain.
// Plain accepts "1234.56". Vietnamese treats '.' as the thousands separator
// and ',' as the decimal separator ("1.234,56" -> 1234.56).
type NumberFormat string

const (
	NumberFormatPlain      NumberFormat = "plain"
	NumberFormatVietnamese NumberFormat = "vietnamese"
)

// Column is one expected column of an import file
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// ImportRowSpec declares everything the import pipeline needs to know about a
// domain: its table, column set, natural key and coercion rules.
// Specs are defined once at startup and never mutated.
type ImportRowSpec struct {
	Domain             string       `json:"domain"` // e.g. stock_pe
	Table              string       `json:"table"`
	Route              string       `json:"route"` // URL segment, e.g. stock-pe
	Columns            []Column     `json:"columns"`
	NaturalKey         []string     `json:"natural_key"`
	Required           []string     `json:"required,omitempty"` // required non-key columns
	RequireKnownSymbol bool         `json:"require_known_symbol"`
	Numbers            NumberFormat `json:"number_format"`
	MaxUploadBytes     int64        `json:"max_upload_bytes"`
}

// ColumnNames returns the column names in file order
func (s *ImportRowSpec) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the column definition for name
func (s *ImportRowSpec) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// IsKey reports whether name is part of the natural key
func (s *ImportRowSpec) IsKey(name string) bool {
	for _, k := range s.NaturalKey {
		if k == name {
			return true
		}
	}
	return false
}

// NonKeyColumns returns the columns overwritten on upsert conflict
func (s *ImportRowSpec) NonKeyColumns() []string {
	var cols []string
	for _, c := range s.Columns {
		if !s.IsKey(c.Name) {
			cols = append(cols, c.Name)
		}
	}
	return cols
}

// HeaderColumns returns the columns a file must carry: natural key plus required fields
func (s *ImportRowSpec) HeaderColumns() []string {
	cols := append([]string{}, s.NaturalKey...)
	return append(cols, s.Required...)
}

// RawRow maps lower-cased, trimmed header names to trimmed cell values
type RawRow map[string]string

// NormalizedRow holds the typed values of one data line.
// Values holds string for text and ISO dates, decimal.NullDecimal for numbers,
// and nil for empty text or dates. InvalidDates keeps the raw text of date
// cells that matched no supported layout so the validator can report them.
type NormalizedRow struct {
	RowNumber    int
	Values       map[string]any
	InvalidDates map[string]string
}

// Text returns the string value of a text or date column
func (r NormalizedRow) Text(col string) (string, bool) {
	s, ok := r.Values[col].(string)
	return s, ok && s != ""
}

// Number returns the numeric value of a number column
func (r NormalizedRow) Number(col string) decimal.NullDecimal {
	d, _ := r.Values[col].(decimal.NullDecimal)
	return d
}

// RejectedRow explains why a data line did not make it into the batch.
// RowNumber is the 1-based position of the data row (the header is not counted).
type RejectedRow struct {
	RowNumber int    `json:"rowNumber"`
	Reason    string `json:"reason"`
}

// ImportResult summarizes one import call. It is never persisted.
type ImportResult struct {
	ImportID      string        `json:"importId"`
	Domain        string        `json:"domain"`
	ImportedCount int           `json:"importedCount"`
	DuplicateRows int           `json:"duplicateRows"`
	TotalRows     int           `json:"totalRows"`
	RejectedRows  []RejectedRow `json:"rejectedRows"`
	Warnings      []Warning     `json:"warnings,omitempty"`
}
