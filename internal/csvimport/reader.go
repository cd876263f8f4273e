package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/epeers/stockdata/internal/models"
)

var (
	// ErrEmptyFile is returned when the input has no header row
	ErrEmptyFile = errors.New("file is empty")
	// ErrMissingColumns is returned when the header lacks a key or required column
	ErrMissingColumns = errors.New("missing required column")
)

// Reader streams data lines of an import file as RawRows.
// It is not restartable: the underlying stream is consumed once.
type Reader struct {
	csv     *csv.Reader
	spec    *models.ImportRowSpec
	colIdx  map[string]int
	unknown []string
	row     int
}

// NewReader reads and checks the header row. Header names are lower-cased and
// trimmed before matching. Natural-key and required columns must be present;
// other expected columns may be absent and read as empty.
func NewReader(r io.Reader, spec *models.ImportRowSpec) (*Reader, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int)
	var unknown []string
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if name == "" {
			continue
		}
		if _, ok := spec.Column(name); !ok {
			unknown = append(unknown, name)
			continue
		}
		if _, dup := colIdx[name]; !dup {
			colIdx[name] = i
		}
	}

	var missing []string
	for _, col := range spec.HeaderColumns() {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return &Reader{
		csv:     reader,
		spec:    spec,
		colIdx:  colIdx,
		unknown: unknown,
	}, nil
}

// UnknownColumns returns header columns that are not part of the domain
func (r *Reader) UnknownColumns() []string {
	return r.unknown
}

// Next returns the next data line and its 1-based data row number (the header
// is not counted).
// It returns io.EOF at the end of the stream. A line the CSV decoder cannot
// split is returned as a *RowError so the caller can reject just that line.
func (r *Reader) Next() (int, models.RawRow, error) {
	record, err := r.csv.Read()
	if err == io.EOF {
		return 0, nil, io.EOF
	}

	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		r.row++
		return r.row, nil, &RowError{RowNumber: r.row, Err: parseErr.Err}
	}
	if err != nil {
		return 0, nil, fmt.Errorf("row %d: failed to read CSV record: %w", r.row+1, err)
	}
	r.row++

	raw := make(models.RawRow, len(r.colIdx))
	for col, idx := range r.colIdx {
		if idx < len(record) {
			raw[col] = strings.TrimSpace(record[idx])
		} else {
			raw[col] = ""
		}
	}
	return r.row, raw, nil
}

// RowError reports a single undecodable line
type RowError struct {
	RowNumber int
	Err       error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: malformed CSV row: %v", e.RowNumber, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
