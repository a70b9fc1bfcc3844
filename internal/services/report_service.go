// Package services orchestrates the reconciliation core against storage
// and messaging.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"saldo/internal/core"
	"saldo/internal/ledger"
)

// ErrInvalidWindow is returned for month values outside 1-12.
var ErrInvalidWindow = fmt.Errorf("month must be between 1 and 12")

// ReportService builds monthly reconciliation reports. It owns no state:
// each call reads a fresh expense window and roster, so concurrent report
// requests are independent.
type ReportService struct {
	expenses ledger.ExpenseLister
	roster   ledger.RosterReader
}

func NewReportService(expenses ledger.ExpenseLister, roster ledger.RosterReader) *ReportService {
	return &ReportService{expenses: expenses, roster: roster}
}

// MonthlyReport reconciles one calendar month: aggregate totals, net the
// group expenses and settle the balances, with settlement parties resolved
// through the group-membership roster.
func (s *ReportService) MonthlyReport(ctx context.Context, year, month int) (core.Report, error) {
	if month < 1 || month > 12 {
		return core.Report{}, ErrInvalidWindow
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)

	expenses, err := s.expenses.ListExpenses(ctx, ledger.ExpenseFilter{From: &start, To: &end})
	if err != nil {
		return core.Report{}, fmt.Errorf("list expenses for window: %w", err)
	}

	roster, err := s.roster.Roster(ctx)
	if err != nil {
		return core.Report{}, fmt.Errorf("load roster: %w", err)
	}

	report := core.BuildReport(expenses, func(id string) string { return roster[id] })

	slog.InfoContext(ctx, "Monthly report built",
		"year", year,
		"month", month,
		"expenses", len(report.Expenses),
		"settlements", len(report.Settlements))

	return report, nil
}
