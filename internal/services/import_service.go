package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/epeers/stockdata/internal/csvimport"
	"github.com/epeers/stockdata/internal/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrEmptyFile is returned when the file has no header row
	ErrEmptyFile = csvimport.ErrEmptyFile
	// ErrMissingColumns is returned when the header lacks a natural-key or required column
	ErrMissingColumns = csvimport.ErrMissingColumns
	// ErrNoValidData is returned when no row survived validation. The result is still returned.
	ErrNoValidData = errors.New("no valid data found in file")
	// ErrSymbolRegistryEmpty is returned when the file needs symbol checks but stock_info has no rows
	ErrSymbolRegistryEmpty = errors.New("symbol registry is empty")
	// ErrUpsertFailed wraps a storage failure; nothing of the batch was committed
	ErrUpsertFailed = errors.New("failed to store rows")
)

// registryTable is the table backing the Symbol Registry
const registryTable = "stock_info"

// BatchUpserter writes one batch of accepted rows atomically
type BatchUpserter interface {
	UpsertRows(ctx context.Context, spec *models.ImportRowSpec, rows []models.NormalizedRow) (int64, error)
}

// ImportService drives the CSV import pipeline:
// RECEIVED -> PARSING -> VALIDATING -> UPSERTING -> CLEANUP -> DONE (or FAILED)
type ImportService struct {
	lookup *SymbolLookup
	store  BatchUpserter
}

// NewImportService creates a new ImportService
func NewImportService(lookup *SymbolLookup, store BatchUpserter) *ImportService {
	return &ImportService{
		lookup: lookup,
		store:  store,
	}
}

// ImportFile imports the file at path into spec's table and removes the file
// afterwards, whatever the outcome. Rows are processed in file order; when a
// natural key repeats, the later row wins.
//
// The returned result is non-nil once the header has been read, including
// alongside ErrNoValidData and ErrUpsertFailed. Structural errors
// (ErrEmptyFile, ErrMissingColumns) and ErrSymbolRegistryEmpty return a nil result.
func (s *ImportService) ImportFile(ctx context.Context, spec *models.ImportRowSpec, path string) (*models.ImportResult, error) {
	start := time.Now()
	importID := uuid.NewString()
	logger := log.WithFields(log.Fields{
		"import_id": importID,
		"domain":    spec.Domain,
		"file":      path,
	})
	logger.Debug("import state RECEIVED")

	defer func() {
		logger.Debug("import state CLEANUP")
		if err := os.Remove(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.Debug("upload already removed")
				return
			}
			logger.WithError(err).Warn("failed to remove uploaded file")
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		logger.WithError(err).Error("import state FAILED")
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	result, err := s.run(ctx, spec, importID, f, logger)
	if err != nil {
		logger.WithError(err).Warn("import state FAILED")
		return result, err
	}

	logger.WithFields(log.Fields{
		"imported":   result.ImportedCount,
		"duplicates": result.DuplicateRows,
		"rejected":   len(result.RejectedRows),
		"total":      result.TotalRows,
		"ms":         time.Since(start).Milliseconds(),
	}).Info("import done")
	return result, nil
}

// candidate is one consumed data line: either a normalized row or a
// rejection the reader already produced
type candidate struct {
	row      models.NormalizedRow
	rejected *models.RejectedRow
}

func (s *ImportService) run(ctx context.Context, spec *models.ImportRowSpec, importID string, r io.Reader, logger *log.Entry) (*models.ImportResult, error) {
	ctx, wc := NewWarningContext(ctx)

	logger.Debug("import state PARSING")
	reader, err := csvimport.NewReader(r, spec)
	if err != nil {
		return nil, err
	}
	for _, col := range reader.UnknownColumns() {
		AddWarning(ctx, models.NewWarning(models.WarnUnknownColumn,
			"column %q is not part of %s and was ignored", col, spec.Domain))
	}

	result := &models.ImportResult{
		ImportID:     importID,
		Domain:       spec.Domain,
		RejectedRows: []models.RejectedRow{},
	}

	var candidates []candidate
	var symbols []string
	seenSymbol := make(map[string]bool)
	parseStart := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("import aborted after %d rows: %w", result.TotalRows, err)
		}

		rowNumber, raw, err := reader.Next()
		if err == io.EOF {
			break
		}
		var rowErr *csvimport.RowError
		if errors.As(err, &rowErr) {
			result.TotalRows++
			candidates = append(candidates, candidate{rejected: &models.RejectedRow{
				RowNumber: rowErr.RowNumber,
				Reason:    fmt.Sprintf("%s: %v", csvimport.ReasonMalformedRow, rowErr.Err),
			}})
			continue
		}
		if err != nil {
			return result, err
		}

		result.TotalRows++
		row := csvimport.Normalize(rowNumber, raw, spec)
		if sym, ok := row.Text("symbol"); ok && !seenSymbol[sym] {
			seenSymbol[sym] = true
			symbols = append(symbols, sym)
		}
		candidates = append(candidates, candidate{row: row})
	}
	TrackTime(logger, "parse", parseStart)

	logger.Debug("import state VALIDATING")
	var known map[string]bool
	if spec.RequireKnownSymbol && len(symbols) > 0 {
		lookupStart := time.Now()
		known, err = s.lookup.ExistsMany(ctx, symbols)
		TrackTime(logger, "symbol lookup", lookupStart)
		if err != nil {
			return result, fmt.Errorf("failed to look up symbols: %w", err)
		}
		if !anyKnown(known) {
			count, err := s.lookup.Count(ctx)
			if err != nil {
				return result, fmt.Errorf("failed to count symbols: %w", err)
			}
			if count == 0 {
				return nil, ErrSymbolRegistryEmpty
			}
		}
	}

	var batch []models.NormalizedRow
	byKey := make(map[string]int)
	for _, c := range candidates {
		if c.rejected != nil {
			result.RejectedRows = append(result.RejectedRows, *c.rejected)
			continue
		}
		if rej := csvimport.Validate(c.row, spec, known); rej != nil {
			result.RejectedRows = append(result.RejectedRows, *rej)
			continue
		}

		key := csvimport.NaturalKey(c.row, spec)
		if i, dup := byKey[key]; dup {
			AddWarning(ctx, models.NewWarning(models.WarnDuplicateNaturalKey,
				"row %d superseded by row %d (key %s)", batch[i].RowNumber, c.row.RowNumber, key))
			batch[i] = c.row
			result.DuplicateRows++
			continue
		}
		byKey[key] = len(batch)
		batch = append(batch, c.row)
	}
	result.Warnings = wc.GetWarnings()

	if len(batch) == 0 {
		return result, ErrNoValidData
	}

	// the stream may have been abandoned while validating
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("import aborted before upsert: %w", err)
	}

	logger.Debugf("import state UPSERTING (%d rows)", len(batch))
	upsertStart := time.Now()
	affected, err := s.store.UpsertRows(ctx, spec, batch)
	TrackTime(logger, "upsert", upsertStart)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrUpsertFailed, err)
	}
	logger.Debugf("upsert affected %d rows", affected)

	if spec.Table == registryTable {
		for _, row := range batch {
			sym, _ := row.Text("symbol")
			s.lookup.Forget(sym)
		}
	}

	result.ImportedCount = len(batch)
	return result, nil
}

func anyKnown(known map[string]bool) bool {
	for _, ok := range known {
		if ok {
			return true
		}
	}
	return false
}
