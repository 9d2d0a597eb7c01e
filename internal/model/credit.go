package model

import "time"

// CreditBalance is the locally tracked credit account. The remote service does
// the real metering; this is the operator-facing mock ledger.
type CreditBalance struct {
	RenewalDate   string
	Balance       int
	UsedToday     int
	UsedThisMonth int
	PlanLimit     int
}

// CreditEstimate prices an enrichment run before submission.
type CreditEstimate struct {
	FieldBreakdown map[string]int
	Records        int
	PerRecord      int
	Total          int
	Shortfall      int
	RemainingAfter int
	CanAfford      bool
}

// Run is the locally persisted record of one enrichment workflow execution.
type Run struct {
	CreatedAt        time.Time
	JobID            string
	Name             string
	SourceHash       string
	Status           string
	Duration         time.Duration
	ID               int64
	TotalRecords     int
	ValidRecords     int
	DuplicateRecords int
	InvalidRecords   int
	CreditsUsed      int
}
