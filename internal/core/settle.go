package core

import "math"

// Settlement is one directed transfer instruction: From pays To Amount.
// Amount is always strictly positive and From never equals To.
type Settlement struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type party struct {
	id     string
	amount float64
}

// Settle converts a balance sheet into an ordered list of transfers that
// drives every balance to within tolerance of zero.
//
// The matching is a deterministic two-pointer greedy walk rather than a
// minimum-transaction-count solver: participants whose rounded balance is
// within the half-cent band are dropped, the rest are partitioned into
// creditors and debtors in first-seen order, and each step settles the
// smaller of the current debtor's and creditor's remainders. It emits at
// most len(debtors)+len(creditors)-1 transfers and never fails.
func Settle(b *Balances) []Settlement {
	var creditors, debtors []party
	for _, id := range b.Participants() {
		rounded := Round2(b.Get(id))
		switch {
		case rounded > zeroTolerance:
			creditors = append(creditors, party{id: id, amount: rounded})
		case rounded < -zeroTolerance:
			debtors = append(debtors, party{id: id, amount: math.Abs(rounded)})
		}
	}

	settlements := []Settlement{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d := &debtors[i]
		c := &creditors[j]

		pay := math.Min(d.amount, c.amount)
		settlements = append(settlements, Settlement{
			From:   d.id,
			To:     c.id,
			Amount: Round2(pay),
		})

		d.amount -= pay
		c.amount -= pay

		if d.amount < settledRemainder {
			i++
		}
		if c.amount < settledRemainder {
			j++
		}
	}
	return settlements
}
