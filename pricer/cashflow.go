package pricer

import (
	"time"

	"github.com/meenmo/ratecalc/currency"
)

// CashFlow is a single projected payment.
type CashFlow struct {
	PaymentDate time.Time
	FutureValue currency.Amount
}

// CashFlows is an ordered list of projected payments.
type CashFlows []CashFlow
