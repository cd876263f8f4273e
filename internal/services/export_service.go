package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/epeers/stockdata/internal/models"
)

// RowExporter streams a domain table in file column order
type RowExporter interface {
	ExportRows(ctx context.Context, spec *models.ImportRowSpec, fn func(record []string) error) error
}

// ExportService writes domain tables back out as import-shaped CSV
type ExportService struct {
	exporter RowExporter
}

// NewExportService creates a new ExportService
func NewExportService(exporter RowExporter) *ExportService {
	return &ExportService{exporter: exporter}
}

// ExportCSV writes the header row and every stored row of spec's table to w.
// The output can be re-imported unchanged. It returns the number of data rows written.
func (s *ExportService) ExportCSV(ctx context.Context, spec *models.ImportRowSpec, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(spec.ColumnNames()); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	n := 0
	err := s.exporter.ExportRows(ctx, spec, func(record []string) error {
		n++
		return cw.Write(record)
	})
	if err != nil {
		return n, fmt.Errorf("failed to export %s: %w", spec.Domain, err)
	}

	cw.Flush()
	return n, cw.Error()
}
