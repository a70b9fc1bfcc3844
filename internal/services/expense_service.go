package services

import (
	"context"
	"fmt"
	"log/slog"

	"saldo/internal/core"
	"saldo/internal/ledger"
)

// RefreshPublisher notifies interested consumers that a month's report is
// stale and should be rebuilt.
type RefreshPublisher interface {
	PublishReportRefresh(ctx context.Context, year, month int) error
}

// ExpenseService persists expenses and fans out refresh events for the
// affected month.
type ExpenseService struct {
	store     ledger.ExpenseWriter
	publisher RefreshPublisher
}

func NewExpenseService(store ledger.ExpenseWriter, publisher RefreshPublisher) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher}
}

// CreateExpense saves an expense locally and publishes a refresh message
// for its month. Publishing is best effort: the expense is saved either
// way and the request never fails on a broker problem.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	saved, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	if s.publisher == nil {
		slog.WarnContext(ctx, "Refresh publisher not available, skipping refresh message")
		return saved, nil
	}

	year, month := saved.Date.Year(), int(saved.Date.Month())
	if err := s.publisher.PublishReportRefresh(ctx, year, month); err != nil {
		slog.ErrorContext(ctx, "Failed to publish refresh message",
			"expense_id", saved.ID,
			"year", year,
			"month", month,
			"error", err)
		// Don't fail the request - expense is saved locally
	}

	return saved, nil
}
