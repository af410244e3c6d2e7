package payment

import (
	"github.com/lettings/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LateFeePolicy assesses the fee owed for a late rent payment.
// Implementations must be pure: same inputs, same fee.
type LateFeePolicy interface {
	// Name identifies the policy in configuration and logs
	Name() string

	// Assess returns the fee for a payment that is daysLate days late
	// against the given rent amount. daysLate <= 0 always yields zero.
	Assess(daysLate int, rentAmount valueobject.Money) valueobject.Money
}

// NoLateFeePolicy charges nothing. The default.
type NoLateFeePolicy struct{}

// NewNoLateFeePolicy creates a policy that never charges a fee
func NewNoLateFeePolicy() *NoLateFeePolicy {
	return &NoLateFeePolicy{}
}

// Name identifies the policy
func (p *NoLateFeePolicy) Name() string {
	return "none"
}

// Assess always returns zero
func (p *NoLateFeePolicy) Assess(daysLate int, rentAmount valueobject.Money) valueobject.Money {
	return valueobject.ZeroGBP()
}

// FlatLateFeePolicy charges a fixed fee once a grace period is exhausted
type FlatLateFeePolicy struct {
	fee       valueobject.Money
	graceDays int
}

// NewFlatLateFeePolicy creates a flat-fee policy with a grace period
func NewFlatLateFeePolicy(fee valueobject.Money, graceDays int) *FlatLateFeePolicy {
	return &FlatLateFeePolicy{fee: fee, graceDays: graceDays}
}

// Name identifies the policy
func (p *FlatLateFeePolicy) Name() string {
	return "flat"
}

// Assess returns the flat fee once the grace period is exceeded
func (p *FlatLateFeePolicy) Assess(daysLate int, rentAmount valueobject.Money) valueobject.Money {
	if daysLate <= p.graceDays {
		return valueobject.ZeroGBP()
	}
	return p.fee
}

// DailyLateFeePolicy charges a per-day fee after a grace period, capped at a
// percentage of the rent amount
type DailyLateFeePolicy struct {
	perDay     valueobject.Money
	graceDays  int
	capPercent decimal.Decimal
}

// NewDailyLateFeePolicy creates a per-day policy. capPercent bounds the total
// fee as a percentage of the rent amount (e.g. 10 for 10%).
func NewDailyLateFeePolicy(perDay valueobject.Money, graceDays int, capPercent decimal.Decimal) *DailyLateFeePolicy {
	return &DailyLateFeePolicy{perDay: perDay, graceDays: graceDays, capPercent: capPercent}
}

// Name identifies the policy
func (p *DailyLateFeePolicy) Name() string {
	return "daily"
}

// Assess charges perDay for each day past the grace period, capped
func (p *DailyLateFeePolicy) Assess(daysLate int, rentAmount valueobject.Money) valueobject.Money {
	chargeableDays := daysLate - p.graceDays
	if chargeableDays <= 0 {
		return valueobject.ZeroGBP()
	}
	fee := p.perDay.MultiplyByInt(int64(chargeableDays))
	cap := rentAmount.Multiply(p.capPercent.Div(decimal.NewFromInt(100)))
	if fee.Amount().GreaterThan(cap.Amount()) {
		return cap.Round(2)
	}
	return fee.Round(2)
}
