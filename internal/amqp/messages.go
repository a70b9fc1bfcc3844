package amqp

import (
	"encoding/json"
	"time"
)

// ReportRefreshMessage asks the worker to rebuild and re-export the
// reconciliation report for one month. It carries only the window; the
// worker reads the expenses from the database itself.
type ReportRefreshMessage struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportRefreshMessage creates a refresh message for the given window.
func NewReportRefreshMessage(year, month int) *ReportRefreshMessage {
	return &ReportRefreshMessage{
		Year:      year,
		Month:     month,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportRefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportRefreshMessageFromJSON creates a message from JSON bytes
func ReportRefreshMessageFromJSON(data []byte) (*ReportRefreshMessage, error) {
	var msg ReportRefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
