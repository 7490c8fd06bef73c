package domain

import "time"

// DateFormat is the wire format for calendar dates in the API (ISO-8601).
const DateFormat = "2006-01-02"

// StatementDateFormat is the date format used inside uploaded statement files.
const StatementDateFormat = "02/01/2006"

// AuditFields holds the timestamps common to all persisted entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
