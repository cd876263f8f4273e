package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/epeers/stockdata/internal/models"
	"github.com/jackc/pgx/v5"
)

// placeholder renders the nth (1-based) bind parameter
type placeholder func(n int) string

func dollarPlaceholder(n int) string { return "$" + strconv.Itoa(n) }

func questionPlaceholder(int) string { return "?" }

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quoteIdents(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quoteIdent(n)
	}
	return out
}

// buildUpsertSQL renders the insert-or-overwrite statement for one row.
// On a natural-key conflict every non-key column is replaced by the incoming
// value, NULLs included.
func buildUpsertSQL(spec *models.ImportRowSpec, ph placeholder) string {
	return buildUpsertSQLRows(spec, ph, 1)
}

// buildUpsertSQLRows is buildUpsertSQL with n VALUES tuples. Placeholders are
// numbered across tuples in row-major order. The rows must have distinct keys.
func buildUpsertSQLRows(spec *models.ImportRowSpec, ph placeholder, n int) string {
	cols := spec.ColumnNames()
	tuples := make([]string, n)
	params := make([]string, len(cols))
	for r := 0; r < n; r++ {
		for i := range cols {
			params[i] = ph(r*len(cols) + i + 1)
		}
		tuples[r] = "(" + strings.Join(params, ", ") + ")"
	}

	var sets []string
	for _, c := range spec.NonKeyColumns() {
		q := quoteIdent(c)
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", q, q))
	}
	sets = append(sets, `"updated_at" = CURRENT_TIMESTAMP`)

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s ON CONFLICT (%s) DO UPDATE SET %s",
		quoteIdent(spec.Table),
		strings.Join(quoteIdents(cols), ", "),
		strings.Join(tuples, ", "),
		strings.Join(quoteIdents(spec.NaturalKey), ", "),
		strings.Join(sets, ", "),
	)
}

// buildExportSQL selects a domain's columns in file order, sorted by natural key
func buildExportSQL(spec *models.ImportRowSpec) string {
	return fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY %s",
		strings.Join(quoteIdents(spec.ColumnNames()), ", "),
		quoteIdent(spec.Table),
		strings.Join(quoteIdents(spec.NaturalKey), ", "),
	)
}

// rowArgs returns the bind arguments for a row in column order.
// Numbers bind as float64 or nil. Dates bind as time.Time when datesAsTime is
// set (Postgres DATE) and as ISO strings otherwise (SQLite).
func rowArgs(spec *models.ImportRowSpec, row models.NormalizedRow, datesAsTime bool) ([]any, error) {
	args := make([]any, len(spec.Columns))
	for i, col := range spec.Columns {
		switch col.Kind {
		case models.ColumnNumber:
			d := row.Number(col.Name)
			if !d.Valid {
				args[i] = nil
				continue
			}
			f, _ := d.Decimal.Float64()
			args[i] = f
		case models.ColumnDate:
			s, ok := row.Text(col.Name)
			if !ok {
				args[i] = nil
				continue
			}
			if !datesAsTime {
				args[i] = s
				continue
			}
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad normalized date %q: %w", row.RowNumber, s, err)
			}
			args[i] = t
		default:
			s, ok := row.Text(col.Name)
			if !ok {
				args[i] = nil
				continue
			}
			args[i] = s
		}
	}
	return args, nil
}

// formatCell renders a scanned value the way the import files write it.
// Numbers use the domain's decimal mark and never a thousands separator, so
// ParseNumber reads them back unchanged.
func formatCell(v any, numbers models.NumberFormat) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format("2006-01-02")
	case float64:
		return decimalMark(strconv.FormatFloat(x, 'f', -1, 64), numbers)
	case float32:
		return decimalMark(strconv.FormatFloat(float64(x), 'f', -1, 32), numbers)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

func decimalMark(s string, numbers models.NumberFormat) string {
	if numbers == models.NumberFormatVietnamese {
		return strings.Replace(s, ".", ",", 1)
	}
	return s
}
