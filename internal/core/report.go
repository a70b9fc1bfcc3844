package core

// RosterFunc resolves a participant id to a display name. It returns ""
// when the id is unknown; callers fall back to the raw id.
type RosterFunc func(id string) string

// Report is the external-facing shape of a monthly reconciliation. Field
// names are part of the API contract and must be preserved verbatim.
type Report struct {
	PersonalTotal     float64            `json:"personalTotal"`
	CategoryBreakdown map[string]float64 `json:"categoryBreakdown"`
	Settlements       []Settlement       `json:"settlements"`
	Expenses          []Expense          `json:"expenses"`
}

// BuildReport runs the full reconciliation over one expense window:
// aggregation and netting over the same input, then settlement of the net
// balances. Settlement parties are resolved to display names through the
// roster; unknown ids pass through unchanged. The input slice is carried
// into the report untouched.
func BuildReport(expenses []Expense, roster RosterFunc) Report {
	personalTotal, byCategory := Aggregate(expenses)

	settlements := Settle(NetBalances(expenses))
	for k := range settlements {
		settlements[k].From = resolveName(roster, settlements[k].From)
		settlements[k].To = resolveName(roster, settlements[k].To)
	}

	if expenses == nil {
		expenses = []Expense{}
	}
	return Report{
		PersonalTotal:     personalTotal,
		CategoryBreakdown: byCategory,
		Settlements:       settlements,
		Expenses:          expenses,
	}
}

func resolveName(roster RosterFunc, id string) string {
	if roster == nil {
		return id
	}
	if name := roster(id); name != "" {
		return name
	}
	return id
}
