// Package memory provides an in-memory report exporter used as the
// default backend and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"saldo/internal/core"
	"saldo/internal/export"
)

type Exporter struct {
	mu      sync.Mutex
	reports map[string]core.Report
}

var _ export.ReportExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{reports: make(map[string]core.Report)}
}

// ExportMonthlyReport stores the report under its year-month key,
// replacing any earlier export for the same window.
func (e *Exporter) ExportMonthlyReport(_ context.Context, year, month int, r core.Report) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reports[windowKey(year, month)] = r
	return nil
}

// Get returns the last exported report for a window.
func (e *Exporter) Get(year, month int) (core.Report, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.reports[windowKey(year, month)]
	return r, ok
}

// Len returns the number of distinct windows exported.
func (e *Exporter) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.reports)
}

func windowKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
