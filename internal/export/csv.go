// Package export renders record snapshots into external formats: the CSV
// file contract and a Google Sheets append target.
package export

import (
	"strings"
	"time"

	"github.com/codewithmeedev/personal-finance-manager/internal/core"
)

// csvHeader is the fixed first row of every export.
const csvHeader = "Date,Type,Amount,Category,Description"

// CSV renders records in the export file format: the header row, then one
// row per record. Date is the record's yyyy-MM-dd local day. Description is
// always double-quoted when non-empty, with inner quotes doubled, and an
// empty field otherwise. Fields are comma-joined, rows newline-joined, no
// trailing newline.
func CSV(records []core.Record, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	rows := make([]string, 0, len(records)+1)
	rows = append(rows, csvHeader)
	for _, rec := range records {
		rows = append(rows, strings.Join([]string{
			rec.LocalDay(loc),
			string(rec.Type),
			rec.Amount.String(),
			rec.Category,
			quoteDescription(rec.Description),
		}, ","))
	}
	return strings.Join(rows, "\n")
}

func quoteDescription(s string) string {
	if s == "" {
		return ""
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
