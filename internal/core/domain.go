package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Kind distinguishes personal expenses from shared group expenses.
type Kind string

const (
	KindPersonal Kind = "personal"
	KindGroup    Kind = "group"
)

// SelfPayer is the conventional payer id used for personal expenses.
const SelfPayer = "self"

var (
	ErrMissingDate      = errors.New("date is required")
	ErrMissingAmount    = errors.New("amount is required")
	ErrEmptyDescription = errors.New("description is required")
	ErrEmptyCategory    = errors.New("category is required")
	ErrInvalidKind      = errors.New("type must be personal or group")
	ErrMissingPayer     = errors.New("paidBy is required")
	ErrMissingGroupID   = errors.New("groupId is required for group expenses")
	ErrMissingSplit     = errors.New("split is required for group expenses")
	ErrEmptyGroupName   = errors.New("group name is required")
	ErrNoGroupMembers   = errors.New("group members are required")
)

type (
	// Amount is a decimal money value. Its unmarshaler coerces whatever
	// the client sent (number, numeric string, anything else) to a
	// number, degrading silently to 0 instead of failing the decode.
	Amount float64

	// SplitEntry records how much one participant owes for an expense.
	SplitEntry struct {
		Participant string
		Owed        float64
	}

	// Split is the per-participant ledger of a group expense. It keeps
	// the order in which participants appear in the source JSON object:
	// that order seeds the netting balances and, through them, the
	// order of the emitted settlements, so it is part of the observable
	// output contract.
	Split []SplitEntry

	// Expense is a single expense record. Field tags match the wire
	// format of the existing API consumers and must not change.
	Expense struct {
		ID          string    `json:"id,omitempty"`
		Date        time.Time `json:"date"`
		Amount      Amount    `json:"amount"`
		Description string    `json:"description"`
		Category    string    `json:"category"`
		Kind        Kind      `json:"type"`
		PaidBy      string    `json:"paidBy"`
		GroupID     string    `json:"groupId,omitempty"`
		Split       Split     `json:"split,omitempty"`
	}

	// Member is one participant of a group.
	Member struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	// Group is a named set of participants sharing expenses.
	Group struct {
		ID        string    `json:"id,omitempty"`
		Name      string    `json:"name"`
		Members   []Member  `json:"members"`
		CreatedAt time.Time `json:"createdAt,omitempty"`
	}
)

// coerceNumber converts a raw JSON value to a float64 the way the API has
// always done it: numbers and numeric strings pass through, objects of the
// shape {"amount": v} are unwrapped, everything else becomes 0.
func coerceNumber(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		return v
	case '{':
		var obj struct {
			Amount json.RawMessage `json:"amount"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil || len(obj.Amount) == 0 {
			return 0
		}
		return coerceNumber(obj.Amount)
	default:
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return 0
		}
		return v
	}
}

// UnmarshalJSON implements coercing decode for Amount. It never returns an
// error for well-formed JSON: malformed numeric content decodes as 0.
func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = Amount(coerceNumber(b))
	return nil
}

// UnmarshalJSON decodes a JSON object into a Split preserving key order.
// Values are coerced like Amount; nested {"amount": v} objects, as sent by
// older clients, are unwrapped.
func (s *Split) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("split must be a JSON object")
	}

	var out Split
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.New("split key must be a string")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		out = append(out, SplitEntry{Participant: key, Owed: coerceNumber(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// MarshalJSON encodes a Split back to a JSON object in entry order.
func (s Split) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Participant)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(e.Owed)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the owed amount recorded for a participant.
func (s Split) Get(participant string) (float64, bool) {
	for _, e := range s {
		if e.Participant == participant {
			return e.Owed, true
		}
	}
	return 0, false
}

// Validate checks the fields required before an expense may be stored.
// The reconciliation engine itself never validates: it is total over any
// structurally well-formed input.
func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrMissingDate
	}
	if e.Amount == 0 {
		return ErrMissingAmount
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	switch e.Kind {
	case KindPersonal, KindGroup:
	default:
		return ErrInvalidKind
	}
	if strings.TrimSpace(e.PaidBy) == "" {
		return ErrMissingPayer
	}
	if e.Kind == KindGroup {
		if strings.TrimSpace(e.GroupID) == "" {
			return ErrMissingGroupID
		}
		if len(e.Split) == 0 {
			return ErrMissingSplit
		}
	}
	return nil
}

// Validate checks a group before it may be stored.
func (g Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGroupName
	}
	if len(g.Members) == 0 {
		return ErrNoGroupMembers
	}
	return nil
}
