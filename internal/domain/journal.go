package domain

import "time"

type Source string

const (
	SourceHTTP     Source = "http"
	SourceTelegram Source = "telegram"
)

type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeInvalidCommand Outcome = "invalid_command"
	OutcomeError          Outcome = "error"
)

// JournalEntry records that a command was handled. Amounts and categories are
// deliberately absent: the journal is an audit trail, not a ledger.
type JournalEntry struct {
	RequestID  string    `json:"request_id"`
	Source     Source    `json:"source"`
	Kind       string    `json:"kind,omitempty"`
	Outcome    Outcome   `json:"outcome"`
	ReceivedAt time.Time `json:"received_at"`
}
