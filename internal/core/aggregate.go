package core

// Aggregate computes the total personal spend and the per-category totals
// for an expense window. Every expense counts toward its category bucket;
// only personal-kind expenses count toward the personal total. Accumulated
// values are rounded to two decimals on the way out.
func Aggregate(expenses []Expense) (personalTotal float64, byCategory map[string]float64) {
	byCategory = make(map[string]float64)
	for _, e := range expenses {
		amt := float64(e.Amount)
		byCategory[e.Category] += amt
		if e.Kind == KindPersonal {
			personalTotal += amt
		}
	}
	for c, v := range byCategory {
		byCategory[c] = Round2(v)
	}
	return Round2(personalTotal), byCategory
}
