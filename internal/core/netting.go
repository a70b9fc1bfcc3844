package core

// Balances maps participant ids to their signed net position: positive
// means the participant is owed money, negative means they owe. First-seen
// insertion order is recorded alongside the map because the settlement
// matcher ties its output order to it.
type Balances struct {
	order []string
	net   map[string]float64
}

// NewBalances returns an empty balance sheet.
func NewBalances() *Balances {
	return &Balances{net: make(map[string]float64)}
}

func (b *Balances) add(participant string, delta float64) {
	if _, seen := b.net[participant]; !seen {
		b.order = append(b.order, participant)
	}
	b.net[participant] += delta
}

// Get returns the net position of a participant (0 if never seen).
func (b *Balances) Get(participant string) float64 {
	return b.net[participant]
}

// Participants returns ids in first-seen order.
func (b *Balances) Participants() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Len returns the number of participants with a recorded position.
func (b *Balances) Len() int {
	return len(b.order)
}

// NetBalances folds all group-kind expenses into one net position per
// participant. For every split pair (participant, owed) the payer is
// credited and the participant debited; a payer's own share nets to zero
// and is skipped. For a closed ledger the resulting map sums to zero
// within rounding tolerance.
//
// Personal expenses are ignored: they involve nobody else.
func NetBalances(expenses []Expense) *Balances {
	b := NewBalances()
	for _, e := range expenses {
		if e.Kind != KindGroup {
			continue
		}
		payer := e.PaidBy
		for _, entry := range e.Split {
			if entry.Participant == payer {
				continue
			}
			b.add(payer, entry.Owed)
			b.add(entry.Participant, -entry.Owed)
		}
	}
	return b
}
