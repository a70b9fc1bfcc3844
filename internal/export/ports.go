// Package export declares the outbound port for publishing reconciled
// monthly reports to an external destination.
package export

import (
	"context"

	"saldo/internal/core"
)

// ReportExporter writes one month's reconciliation report somewhere
// outside the service (a spreadsheet, a file, memory for tests).
type ReportExporter interface {
	ExportMonthlyReport(ctx context.Context, year, month int, r core.Report) error
}
