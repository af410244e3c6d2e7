package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
)

// ReportStatus represents the generation state of a financial report
type ReportStatus string

const (
	ReportStatusGenerating ReportStatus = "GENERATING"
	ReportStatusCompleted  ReportStatus = "COMPLETED"
	ReportStatusFailed     ReportStatus = "FAILED"
)

// IsValid checks if the status is a valid ReportStatus
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusGenerating, ReportStatusCompleted, ReportStatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true once generation has concluded
func (s ReportStatus) IsTerminal() bool {
	return s == ReportStatusCompleted || s == ReportStatusFailed
}

// String returns the string representation of ReportStatus
func (s ReportStatus) String() string {
	return string(s)
}

// ReportTotals holds the aggregated figures written on completion
type ReportTotals struct {
	TotalRentalIncome     valueobject.Money `json:"total_rental_income"`
	TotalFeeIncome        valueobject.Money `json:"total_fee_income"`
	TotalGrossIncome      valueobject.Money `json:"total_gross_income"`
	TotalMaintenanceCosts valueobject.Money `json:"total_maintenance_costs"`
	TotalExpenses         valueobject.Money `json:"total_expenses"`
	NetRentalIncome       valueobject.Money `json:"net_rental_income"`
	PaymentCount          int               `json:"payment_count"`
	MaintenanceCount      int               `json:"maintenance_count"`
}

// FinancialReport represents a financial report aggregate root. It is created
// in GENERATING and written exactly once more, to COMPLETED or FAILED. A
// completed report is never hand-edited.
type FinancialReport struct {
	shared.AuditedAggregateRoot
	Reference    string       `json:"reference"`
	LandlordID   uuid.UUID    `json:"landlord_id"`
	PeriodStart  time.Time    `json:"period_start"`
	PeriodEnd    time.Time    `json:"period_end"`
	Status       ReportStatus `json:"status"`
	Totals       ReportTotals `json:"totals"`
	GeneratedAt  *time.Time   `json:"generated_at,omitempty"`
	ErrorMessage string       `json:"error_message,omitempty"`
	ErrorDate    *time.Time   `json:"error_date,omitempty"`
}

// NewFinancialReport creates a report row in GENERATING status with an
// RPT-prefixed reference
func NewFinancialReport(landlordID uuid.UUID, periodStart, periodEnd time.Time) (*FinancialReport, error) {
	if landlordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LANDLORD", "Landlord ID is required")
	}
	if periodEnd.Before(periodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end cannot precede period start")
	}

	r := &FinancialReport{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Reference:            shared.NewReference(shared.ReportPrefix),
		LandlordID:           landlordID,
		PeriodStart:          periodStart,
		PeriodEnd:            periodEnd,
		Status:               ReportStatusGenerating,
		Totals:               zeroTotals(),
	}

	r.AddDomainEvent(NewReportRequestedEvent(r))

	return r, nil
}

// MarkCompleted writes the aggregated totals. The derived figures must be
// internally consistent: gross = rental + fees, expenses = maintenance,
// net = gross - expenses.
func (r *FinancialReport) MarkCompleted(totals ReportTotals) error {
	if r.Status != ReportStatusGenerating {
		return shared.NewDomainError("INVALID_STATE", "Only a generating report can complete")
	}
	expectedGross := totals.TotalRentalIncome.MustAdd(totals.TotalFeeIncome)
	if !totals.TotalGrossIncome.Equals(expectedGross) {
		return shared.NewDomainError("INCONSISTENT_TOTALS", "Gross income must equal rental plus fee income")
	}
	if !totals.TotalExpenses.Equals(totals.TotalMaintenanceCosts) {
		return shared.NewDomainError("INCONSISTENT_TOTALS", "Expenses must equal maintenance costs")
	}
	expectedNet := totals.TotalGrossIncome.MustSubtract(totals.TotalExpenses)
	if !totals.NetRentalIncome.Equals(expectedNet) {
		return shared.NewDomainError("INCONSISTENT_TOTALS", "Net income must equal gross minus expenses")
	}

	now := time.Now()
	r.Status = ReportStatusCompleted
	r.Totals = totals
	r.GeneratedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewReportCompletedEvent(r))
	return nil
}

// MarkFailed captures the generation error. The report never stays in
// GENERATING after a failure.
func (r *FinancialReport) MarkFailed(errorMessage string) error {
	if r.Status != ReportStatusGenerating {
		return shared.NewDomainError("INVALID_STATE", "Only a generating report can fail")
	}
	now := time.Now()
	r.Status = ReportStatusFailed
	r.ErrorMessage = errorMessage
	r.ErrorDate = &now
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewReportFailedEvent(r))
	return nil
}

// IsStuck reports whether generation has run past the given timeout
func (r *FinancialReport) IsStuck(now time.Time, timeout time.Duration) bool {
	return r.Status == ReportStatusGenerating && now.Sub(r.CreatedAt) > timeout
}

func zeroTotals() ReportTotals {
	return ReportTotals{
		TotalRentalIncome:     valueobject.ZeroGBP(),
		TotalFeeIncome:        valueobject.ZeroGBP(),
		TotalGrossIncome:      valueobject.ZeroGBP(),
		TotalMaintenanceCosts: valueobject.ZeroGBP(),
		TotalExpenses:         valueobject.ZeroGBP(),
		NetRentalIncome:       valueobject.ZeroGBP(),
	}
}

// BuildTotals derives the gross, expense and net figures from the raw sums
func BuildTotals(rentalIncome, feeIncome, maintenanceCosts valueobject.Money, paymentCount, maintenanceCount int) ReportTotals {
	gross := rentalIncome.MustAdd(feeIncome)
	return ReportTotals{
		TotalRentalIncome:     rentalIncome,
		TotalFeeIncome:        feeIncome,
		TotalGrossIncome:      gross,
		TotalMaintenanceCosts: maintenanceCosts,
		TotalExpenses:         maintenanceCosts,
		NetRentalIncome:       gross.MustSubtract(maintenanceCosts),
		PaymentCount:          paymentCount,
		MaintenanceCount:      maintenanceCount,
	}
}
