package core

import (
	"testing"
	"time"
)

func groupExpense(payer string, split Split) Expense {
	return Expense{
		Date:        time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		Amount:      Amount(sumSplit(split)),
		Description: "x",
		Category:    "shared",
		Kind:        KindGroup,
		PaidBy:      payer,
		GroupID:     "g1",
		Split:       split,
	}
}

func sumSplit(s Split) float64 {
	var total float64
	for _, e := range s {
		total += e.Owed
	}
	return total
}

func TestNetBalancesSingleExpense(t *testing.T) {
	b := NetBalances([]Expense{groupExpense("P", Split{
		{Participant: "P", Owed: 30},
		{Participant: "A", Owed: 30},
		{Participant: "B", Owed: 30},
	})})

	if got := b.Get("P"); !almostEqual(got, 60) {
		t.Fatalf("P = %v, want +60", got)
	}
	if got := b.Get("A"); !almostEqual(got, -30) {
		t.Fatalf("A = %v, want -30", got)
	}
	if got := b.Get("B"); !almostEqual(got, -30) {
		t.Fatalf("B = %v, want -30", got)
	}
}

func TestNetBalancesInsertionOrder(t *testing.T) {
	b := NetBalances([]Expense{groupExpense("P", Split{
		{Participant: "A", Owed: 10},
		{Participant: "B", Owed: 10},
	})})

	// Payer is credited before the first debtor is debited, so P is
	// first-seen, then A, then B.
	got := b.Participants()
	want := []string{"P", "A", "B"}
	if len(got) != len(want) {
		t.Fatalf("participants = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("participants = %v, want %v", got, want)
		}
	}
}

func TestNetBalancesZeroSum(t *testing.T) {
	expenses := []Expense{
		groupExpense("P1", Split{
			{Participant: "P1", Owed: 12.33},
			{Participant: "P2", Owed: 12.33},
			{Participant: "P3", Owed: 12.34},
		}),
		groupExpense("P2", Split{
			{Participant: "P1", Owed: 7.77},
			{Participant: "P3", Owed: 0.01},
		}),
		groupExpense("P3", Split{
			{Participant: "P4", Owed: 99.99},
		}),
	}
	b := NetBalances(expenses)

	var sum float64
	for _, id := range b.Participants() {
		sum += b.Get(id)
	}
	if !IsZero(sum) {
		t.Fatalf("balances do not sum to zero: %v", sum)
	}
}

func TestNetBalancesIgnoresPersonal(t *testing.T) {
	b := NetBalances([]Expense{expense(KindPersonal, "food", 50)})
	if b.Len() != 0 {
		t.Fatalf("personal expense produced balances: %v", b.Participants())
	}
}

func TestNetBalancesAccumulatesAcrossExpenses(t *testing.T) {
	expenses := []Expense{
		groupExpense("P1", Split{
			{Participant: "P1", Owed: 10},
			{Participant: "P2", Owed: 10},
			{Participant: "P3", Owed: 10},
		}),
		groupExpense("P2", Split{
			{Participant: "P1", Owed: 10},
			{Participant: "P2", Owed: 10},
			{Participant: "P3", Owed: 10},
		}),
	}
	b := NetBalances(expenses)

	// Each payer is credited the two shares owed by the others and
	// debited the share they owe on the other expense: P1 and P2 both
	// land at +20-10, P3 owes on both.
	if got := b.Get("P1"); !almostEqual(got, 10) {
		t.Fatalf("P1 = %v, want +10", got)
	}
	if got := b.Get("P2"); !almostEqual(got, 10) {
		t.Fatalf("P2 = %v, want +10", got)
	}
	if got := b.Get("P3"); !almostEqual(got, -20) {
		t.Fatalf("P3 = %v, want -20", got)
	}
}
