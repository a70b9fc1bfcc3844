// Package worker rebuilds stale monthly reports and pushes them through
// the configured exporter.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"saldo/internal/amqp"
	"saldo/internal/core"
	"saldo/internal/export"
)

// ReportSource builds the reconciliation report for one month window.
type ReportSource interface {
	MonthlyReport(ctx context.Context, year, month int) (core.Report, error)
}

// ExportWorker consumes report refresh messages, rebuilds the affected
// month and exports the result.
type ExportWorker struct {
	reports  ReportSource
	exporter export.ReportExporter
}

func NewExportWorker(reports ReportSource, exporter export.ReportExporter) *ExportWorker {
	return &ExportWorker{reports: reports, exporter: exporter}
}

// HandleRefresh processes one refresh message. An error requeues the
// message at the broker.
func (w *ExportWorker) HandleRefresh(ctx context.Context, msg *amqp.ReportRefreshMessage) error {
	return w.refresh(ctx, msg.Year, msg.Month)
}

// ResyncCurrentMonth re-exports the current month regardless of pending
// messages. Used as the periodic catch-up path for anything missed while
// the broker or worker was down.
func (w *ExportWorker) ResyncCurrentMonth(ctx context.Context) error {
	now := time.Now().UTC()
	return w.refresh(ctx, now.Year(), int(now.Month()))
}

func (w *ExportWorker) refresh(ctx context.Context, year, month int) error {
	report, err := w.reports.MonthlyReport(ctx, year, month)
	if err != nil {
		return fmt.Errorf("build report for %d-%02d: %w", year, month, err)
	}

	if err := w.exporter.ExportMonthlyReport(ctx, year, month, report); err != nil {
		return fmt.Errorf("export report for %d-%02d: %w", year, month, err)
	}

	slog.InfoContext(ctx, "Report refreshed",
		"year", year,
		"month", month,
		"settlements", len(report.Settlements))

	return nil
}
