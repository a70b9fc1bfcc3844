package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"saldo/internal/core"
	"saldo/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "saldo.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestCreateAndListGroups(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	g, err := repo.CreateGroup(ctx, core.Group{
		Name:    "trip",
		Members: []core.Member{{ID: "a", Name: "Anna"}, {ID: "b", Name: "Bea"}},
	})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if g.ID == "" {
		t.Fatalf("expected minted group id")
	}

	if _, err := repo.CreateGroup(ctx, core.Group{Name: ""}); err == nil {
		t.Fatalf("expected validation error for empty group")
	}

	groups, err := repo.ListGroups(ctx)
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "trip" {
		t.Fatalf("unexpected groups: %+v", groups)
	}
	if len(groups[0].Members) != 2 || groups[0].Members[0].ID != "a" || groups[0].Members[1].ID != "b" {
		t.Fatalf("member order lost: %+v", groups[0].Members)
	}
}

func TestRoster(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreateGroup(ctx, core.Group{
		Name:    "flat",
		Members: []core.Member{{ID: "x", Name: "Xenia"}, {ID: "y", Name: "Yuri"}},
	})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	roster, err := repo.Roster(ctx)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if roster["x"] != "Xenia" || roster["y"] != "Yuri" {
		t.Fatalf("unexpected roster: %v", roster)
	}
}

func TestCreateAndListExpenses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	older := core.Expense{
		Date:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Amount:      core.Amount(10),
		Description: "bus",
		Category:    "transport",
		Kind:        core.KindPersonal,
		PaidBy:      core.SelfPayer,
	}
	newer := core.Expense{
		Date:        time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		Amount:      core.Amount(60),
		Description: "dinner",
		Category:    "food",
		Kind:        core.KindGroup,
		PaidBy:      "a",
		GroupID:     "g1",
		Split:       core.Split{{Participant: "a", Owed: 30}, {Participant: "b", Owed: 30}},
	}

	for _, e := range []core.Expense{older, newer} {
		if _, err := repo.CreateExpense(ctx, e); err != nil {
			t.Fatalf("create expense: %v", err)
		}
	}

	all, err := repo.ListExpenses(ctx, ledger.ExpenseFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(all))
	}
	if all[0].Description != "dinner" {
		t.Fatalf("expected newest first, got %s", all[0].Description)
	}
	if len(all[0].Split) != 2 || all[0].Split[0].Participant != "a" {
		t.Fatalf("split lost or reordered: %+v", all[0].Split)
	}
}

func TestListExpensesFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		category := "food"
		if i == 2 {
			category = "rent"
		}
		_, err := repo.CreateExpense(ctx, core.Expense{
			Date:        d,
			Amount:      core.Amount(10),
			Description: "e",
			Category:    category,
			Kind:        core.KindPersonal,
			PaidBy:      core.SelfPayer,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC)
	feb, err := repo.ListExpenses(ctx, ledger.ExpenseFilter{From: &from, To: &to})
	if err != nil {
		t.Fatalf("list window: %v", err)
	}
	if len(feb) != 1 || !feb[0].Date.Equal(dates[1]) {
		t.Fatalf("window filter wrong: %+v", feb)
	}

	rent, err := repo.ListExpenses(ctx, ledger.ExpenseFilter{Category: "rent"})
	if err != nil {
		t.Fatalf("list category: %v", err)
	}
	if len(rent) != 1 || rent[0].Category != "rent" {
		t.Fatalf("category filter wrong: %+v", rent)
	}
}

func TestCreateExpenseValidates(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.CreateExpense(context.Background(), core.Expense{}); err == nil {
		t.Fatalf("expected validation error")
	}
}
