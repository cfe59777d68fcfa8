package domain

// AuditRepository handles persistence of audit events.
type AuditRepository interface {
	RecordEvent(event Event) error
	LoadEvents() ([]Event, error)
}
