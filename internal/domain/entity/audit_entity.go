package entity

// AuditEntry is a single security-relevant event.
type AuditEntry struct {
	UserID    string
	Email     string
	Action    string
	IP        string
	UserAgent string
	Metadata  map[string]any
}
