package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/epeers/stockdata/internal/models"
)

// MaxWarningsPerCode caps how many warnings of one code an import reports.
// A file full of repeated keys would otherwise produce one warning per row.
const MaxWarningsPerCode = 100

type importWarningsKey struct{}

// WarningCollector gathers the non-fatal findings of a single import.
type WarningCollector struct {
	mu         sync.Mutex
	limit      int
	warnings   []models.Warning
	perCode    map[models.WarningCode]int
	suppressed map[models.WarningCode]int
	order      []models.WarningCode
}

// NewWarningContext attaches a collector to ctx using MaxWarningsPerCode
func NewWarningContext(ctx context.Context) (context.Context, *WarningCollector) {
	return NewWarningContextLimit(ctx, MaxWarningsPerCode)
}

// NewWarningContextLimit is NewWarningContext with an explicit per-code cap.
// A limit <= 0 keeps every warning.
func NewWarningContextLimit(ctx context.Context, limit int) (context.Context, *WarningCollector) {
	wc := &WarningCollector{
		limit:      limit,
		perCode:    make(map[models.WarningCode]int),
		suppressed: make(map[models.WarningCode]int),
	}
	return context.WithValue(ctx, importWarningsKey{}, wc), wc
}

// AddWarning records w on the collector carried by ctx, if any
func AddWarning(ctx context.Context, w models.Warning) {
	wc, ok := ctx.Value(importWarningsKey{}).(*WarningCollector)
	if !ok || wc == nil {
		return
	}
	wc.add(w)
}

func (wc *WarningCollector) add(w models.Warning) {
	wc.mu.Lock()
	defer wc.mu.Unlock()

	if wc.limit > 0 && wc.perCode[w.Code] >= wc.limit {
		if wc.suppressed[w.Code] == 0 {
			wc.order = append(wc.order, w.Code)
		}
		wc.suppressed[w.Code]++
		return
	}
	wc.perCode[w.Code]++
	wc.warnings = append(wc.warnings, w)
}

// GetWarnings returns the recorded warnings followed by one summary
// warning per code that hit the cap.
func (wc *WarningCollector) GetWarnings() []models.Warning {
	wc.mu.Lock()
	defer wc.mu.Unlock()

	if len(wc.warnings) == 0 && len(wc.order) == 0 {
		return nil
	}
	out := make([]models.Warning, 0, len(wc.warnings)+len(wc.order))
	out = append(out, wc.warnings...)
	for _, code := range wc.order {
		out = append(out, models.Warning{
			Code:    code,
			Message: fmt.Sprintf("%d more %s warnings suppressed", wc.suppressed[code], code),
		})
	}
	return out
}
