package entity

import "time"

// AppointmentFilter holds optional list filters; Date wins over the range
type AppointmentFilter struct {
	Date      string
	StartDate string
	EndDate   string
	PatientID int64
	Status    AppointmentStatus
}

type PatientFilter struct {
	Search string
	Active *bool
}

type FinancialFilter struct {
	Type      TransactionType
	StartDate string
	EndDate   string
	PatientID int64
}

// AuditLogFilter narrows the audit trail. Action matches a prefix, so
// "appointment." selects every appointment event.
type AuditLogFilter struct {
	Action  string
	ActorID int64
	Since   *time.Time
	Limit   int
	Offset  int
}
