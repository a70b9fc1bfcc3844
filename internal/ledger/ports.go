// Package ledger declares the ports between the reconciliation core's
// surrounding services and whatever stores the expense data.
package ledger

import (
	"context"
	"time"

	"saldo/internal/core"
)

// ExpenseFilter narrows an expense listing. Nil time bounds mean unbounded;
// an empty category matches everything.
type ExpenseFilter struct {
	From     *time.Time
	To       *time.Time
	Category string
}

type (
	ExpenseWriter interface {
		CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	}

	ExpenseLister interface {
		// ListExpenses returns expenses matching the filter, newest first.
		ListExpenses(ctx context.Context, f ExpenseFilter) ([]core.Expense, error)
	}

	GroupWriter interface {
		CreateGroup(ctx context.Context, g core.Group) (core.Group, error)
	}

	GroupLister interface {
		// ListGroups returns all groups, newest first.
		ListGroups(ctx context.Context) ([]core.Group, error)
	}

	// RosterReader provides the member id -> display name lookup used to
	// resolve settlement parties.
	RosterReader interface {
		Roster(ctx context.Context) (map[string]string, error)
	}
)
