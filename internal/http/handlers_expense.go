package http

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"log/slog"

	"saldo/internal/core"
	"saldo/internal/ledger"
)

// expenseResponse decorates an expense with display names resolved from
// the group roster.
type expenseResponse struct {
	core.Expense
	PaidByName  string            `json:"paidByName,omitempty"`
	GroupName   string            `json:"groupName,omitempty"`
	MemberNames map[string]string `json:"memberNames,omitempty"`
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createExpense(w, r)
	case http.MethodGet:
		s.listExpenses(w, r)
	default:
		errorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	for _, field := range []string{"date", "amount", "description", "category", "type", "paidBy"} {
		if isMissing(body[field]) {
			errorJSON(w, http.StatusBadRequest, field+" is required")
			return
		}
	}

	var kind core.Kind
	if err := json.Unmarshal(body["type"], &kind); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid type")
		return
	}

	if kind == core.KindGroup {
		for _, field := range []string{"groupId", "split"} {
			if isMissing(body[field]) {
				errorJSON(w, http.StatusBadRequest, field+" is required")
				return
			}
		}
	}

	var rawDate string
	if err := json.Unmarshal(body["date"], &rawDate); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid date")
		return
	}
	date, err := parseDateParam(rawDate)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid date")
		return
	}

	// Amount and split coerce malformed values to zero rather than
	// failing, matching the behaviour existing clients rely on.
	var amount core.Amount
	_ = json.Unmarshal(body["amount"], &amount)

	e := core.Expense{
		Date:   date,
		Amount: amount,
		Kind:   kind,
	}
	_ = json.Unmarshal(body["description"], &e.Description)
	_ = json.Unmarshal(body["category"], &e.Category)
	_ = json.Unmarshal(body["paidBy"], &e.PaidBy)
	if kind == core.KindGroup {
		_ = json.Unmarshal(body["groupId"], &e.GroupID)
		if err := json.Unmarshal(body["split"], &e.Split); err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid split")
			return
		}
	}

	if err := e.Validate(); err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.expenseSvc.CreateExpense(r.Context(), e)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create expense", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to create expense")
		return
	}

	atomic.AddInt64(&s.appMetrics.totalExpenses, 1)
	s.reportCache.Delete(reportCacheKey(saved.Date.Year(), int(saved.Date.Month())))

	enriched, err := s.enrichExpenses(r, []core.Expense{saved})
	if err != nil {
		// The write succeeded; return the bare record rather than a 500.
		writeJSON(w, http.StatusCreated, saved)
		return
	}

	writeJSON(w, http.StatusCreated, enriched[0])
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	var filter ledger.ExpenseFilter

	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			errorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			errorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.To = &t
	}
	filter.Category = q.Get("category")

	expenses, err := s.expenses.ListExpenses(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list expenses", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}

	enriched, err := s.enrichExpenses(r, expenses)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to enrich expenses", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}

	writeJSON(w, http.StatusOK, enriched)
}

// enrichExpenses resolves payer, group and split participant names.
func (s *Server) enrichExpenses(r *http.Request, expenses []core.Expense) ([]expenseResponse, error) {
	roster, err := s.groups.Roster(r.Context())
	if err != nil {
		return nil, err
	}

	groupNames := map[string]string{}
	if hasGroupExpense(expenses) {
		groups, err := s.groups.ListGroups(r.Context())
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			groupNames[g.ID] = g.Name
		}
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		resp := expenseResponse{Expense: e, PaidByName: displayName(roster, e.PaidBy)}
		if e.GroupID != "" {
			resp.GroupName = groupNames[e.GroupID]
		}
		if len(e.Split) > 0 {
			resp.MemberNames = make(map[string]string, len(e.Split))
			for _, entry := range e.Split {
				resp.MemberNames[entry.Participant] = displayName(roster, entry.Participant)
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

func hasGroupExpense(expenses []core.Expense) bool {
	for _, e := range expenses {
		if e.GroupID != "" {
			return true
		}
	}
	return false
}

// displayName falls back to the raw identifier when the roster has no entry.
func displayName(roster map[string]string, id string) string {
	if name, ok := roster[id]; ok && name != "" {
		return name
	}
	return id
}

// isMissing treats absent, null and empty-string values as not provided.
func isMissing(raw json.RawMessage) bool {
	switch string(raw) {
	case "", "null", `""`:
		return true
	}
	return false
}
