// Package credits prices enrichment runs against the locally tracked credit
// account. The remote service is the source of truth for real metering; this
// ledger lets an operator budget a run before paying for it.
package credits

import (
	"github.com/calebhart/enrichflow/internal/mapping"
	"github.com/calebhart/enrichflow/internal/model"
)

// DefaultBalance seeds a fresh credit account.
func DefaultBalance() model.CreditBalance {
	return model.CreditBalance{
		Balance:       10000,
		UsedToday:     0,
		UsedThisMonth: 0,
		PlanLimit:     50000,
		RenewalDate:   "2025-11-01",
	}
}

// Estimate prices enriching recordCount records with the given output fields.
// Unknown field ids contribute nothing.
func Estimate(balance model.CreditBalance, recordCount int, fieldIDs []string) model.CreditEstimate {
	perRecord := 0
	breakdown := make(map[string]int, len(fieldIDs))
	for _, id := range fieldIDs {
		field, ok := mapping.OutputFieldByID(id)
		if !ok {
			continue
		}
		perRecord += field.Cost
		breakdown[field.Name] = field.Cost
	}

	total := recordCount * perRecord
	return model.CreditEstimate{
		Records:        recordCount,
		PerRecord:      perRecord,
		Total:          total,
		FieldBreakdown: breakdown,
		CanAfford:      total <= balance.Balance,
		Shortfall:      max(0, total-balance.Balance),
		RemainingAfter: balance.Balance - total,
	}
}

// Consume debits a completed run from the account.
func Consume(balance model.CreditBalance, amount int) model.CreditBalance {
	balance.Balance -= amount
	balance.UsedToday += amount
	balance.UsedThisMonth += amount
	return balance
}

// WarningLevel grades how depleted the account is.
type WarningLevel string

const (
	WarnNone     WarningLevel = ""
	WarnInfo     WarningLevel = "info"
	WarnLow      WarningLevel = "warning"
	WarnCritical WarningLevel = "critical"
)

// Warning reports a depletion notice once the balance drops under 20% of the
// plan limit, escalating at 10% and 5%.
func Warning(balance model.CreditBalance) (WarningLevel, string) {
	if balance.PlanLimit <= 0 {
		return WarnNone, ""
	}
	pct := float64(balance.Balance) / float64(balance.PlanLimit) * 100
	switch {
	case pct <= 5:
		return WarnCritical, "Critical: only 5% of plan credits remaining"
	case pct <= 10:
		return WarnLow, "Warning: only 10% of plan credits remaining"
	case pct <= 20:
		return WarnInfo, "20% of plan credits remaining"
	default:
		return WarnNone, ""
	}
}
