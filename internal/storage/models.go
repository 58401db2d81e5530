package storage

import "time"

// timestampLayout is ISO-8601 with millisecond precision, e.g. 2023-01-01T00:00:00.000Z
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// GameDocument is the on-disk shape of the claim registry
type GameDocument struct {
	Numbers    []NumberRecord `json:"numbers"`
	Players    []string       `json:"players"`
	LastUpdate string         `json:"lastUpdate"`
}

// NumberRecord is one claimed slot as stored
type NumberRecord struct {
	Number    string `json:"number"`
	UserID    string `json:"userId"`
	Timestamp string `json:"timestamp"`
}

// LedgerDocument is the on-disk shape of the activity ledger
type LedgerDocument struct {
	LastUpdateID           int64   `json:"lastUpdateId"`
	LastActivity           string  `json:"lastActivity"`
	LastMessageTime        string  `json:"lastMessageTime"`
	TotalMessagesProcessed int64   `json:"totalMessagesProcessed"`
	Uptime                 float64 `json:"uptime"`
}

// FormatTimestamp renders t in the stored timestamp format
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp parses a stored timestamp. Empty or malformed values yield
// the zero time.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
