package csvimport_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/epeers/stockdata/internal/csvimport"
)

func TestReader_HappyPath(t *testing.T) {
	input := "Symbol , DATE,PE,pe_nganh\nvic, 2023-01-01 ,10.5,12.0\nHPG,2023-01-02,,\n"
	r, err := csvimport.NewReader(strings.NewReader(input), csvimport.Specs["stock_pe"])
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	n, row, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected row number 1, got %d", n)
	}
	if row["symbol"] != "vic" || row["date"] != "2023-01-01" || row["pe"] != "10.5" {
		t.Errorf("unexpected row: %+v", row)
	}

	n, row, err = r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if n != 2 || row["pe"] != "" || row["pe_nganh"] != "" {
		t.Errorf("unexpected second row %d: %+v", n, row)
	}

	if _, _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestReader_EmptyFile(t *testing.T) {
	_, err := csvimport.NewReader(strings.NewReader(""), csvimport.Specs["stocks"])
	if !errors.Is(err, csvimport.ErrEmptyFile) {
		t.Errorf("expected ErrEmptyFile, got %v", err)
	}
}

func TestReader_MissingKeyColumn(t *testing.T) {
	_, err := csvimport.NewReader(strings.NewReader("symbol,pe,pe_nganh\nVIC,1,2\n"), csvimport.Specs["stock_pe"])
	if !errors.Is(err, csvimport.ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	if !strings.Contains(err.Error(), "date") {
		t.Errorf("expected error to name the date column, got %v", err)
	}
}

func TestReader_MissingRequiredColumn(t *testing.T) {
	_, err := csvimport.NewReader(strings.NewReader("symbol,pe\nVIC,1\n"), csvimport.Specs["stock_daily"])
	if !errors.Is(err, csvimport.ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	if !strings.Contains(err.Error(), "close_price") {
		t.Errorf("expected error to name close_price, got %v", err)
	}
}

func TestReader_OptionalColumnsMayBeAbsent(t *testing.T) {
	r, err := csvimport.NewReader(strings.NewReader("symbol,date\nVIC,2023-01-01\n"), csvimport.Specs["stocks"])
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	_, row, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if _, ok := row["open"]; ok {
		t.Errorf("absent column should not be in the raw row: %+v", row)
	}
}

func TestReader_UnknownColumnsAndBOM(t *testing.T) {
	input := "\ufeffsymbol,date,pe,pe_nganh,comment\nVIC,2023-01-01,1,2,hello\n"
	r, err := csvimport.NewReader(strings.NewReader(input), csvimport.Specs["stock_pe"])
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	unknown := r.UnknownColumns()
	if len(unknown) != 1 || unknown[0] != "comment" {
		t.Errorf("expected [comment], got %v", unknown)
	}
	_, row, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if row["symbol"] != "VIC" {
		t.Errorf("expected BOM to be stripped from the first header, got %+v", row)
	}
}

func TestReader_ShortRecordReadsEmpty(t *testing.T) {
	r, err := csvimport.NewReader(strings.NewReader("symbol,date,pe,pe_nganh\nVIC,2023-01-01\n"), csvimport.Specs["stock_pe"])
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	_, row, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if row["pe"] != "" || row["pe_nganh"] != "" {
		t.Errorf("expected missing trailing cells to read empty, got %+v", row)
	}
}

func TestReader_MalformedRowIsRowError(t *testing.T) {
	input := "symbol,date,pe,pe_nganh\nVIC,2023-01-01,1,2\nHPG,20\"23-01-02,1,2\nFPT,2023-01-03,1,2\n"
	r, err := csvimport.NewReader(strings.NewReader(input), csvimport.Specs["stock_pe"])
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if _, _, err := r.Next(); err != nil {
		t.Fatalf("first row should parse, got %v", err)
	}

	n, _, err := r.Next()
	var rowErr *csvimport.RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected *RowError, got %v", err)
	}
	if n != 2 || rowErr.RowNumber != 2 {
		t.Errorf("expected row 2, got n=%d rowErr=%d", n, rowErr.RowNumber)
	}

	// reading continues after a bad line
	n, row, err := r.Next()
	if err != nil {
		t.Fatalf("third row should parse, got %v", err)
	}
	if n != 3 || row["symbol"] != "FPT" {
		t.Errorf("expected row 3 FPT, got %d %+v", n, row)
	}
}
