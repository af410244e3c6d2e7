package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReportRequestedEvent is raised when report generation is claimed
type ReportRequestedEvent struct {
	shared.BaseDomainEvent
	ReportID    uuid.UUID `json:"report_id"`
	Reference   string    `json:"reference"`
	LandlordID  uuid.UUID `json:"landlord_id"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}

// EventType returns the event type name
func (e *ReportRequestedEvent) EventType() string {
	return "ReportRequested"
}

// NewReportRequestedEvent creates a new ReportRequestedEvent
func NewReportRequestedEvent(r *FinancialReport) *ReportRequestedEvent {
	return &ReportRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ReportRequested", "FinancialReport", r.ID),
		ReportID:        r.ID,
		Reference:       r.Reference,
		LandlordID:      r.LandlordID,
		PeriodStart:     r.PeriodStart,
		PeriodEnd:       r.PeriodEnd,
	}
}

// ReportCompletedEvent is raised when aggregation finishes successfully
type ReportCompletedEvent struct {
	shared.BaseDomainEvent
	ReportID        uuid.UUID       `json:"report_id"`
	Reference       string          `json:"reference"`
	LandlordID      uuid.UUID       `json:"landlord_id"`
	GrossIncome     decimal.Decimal `json:"gross_income"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	NetRentalIncome decimal.Decimal `json:"net_rental_income"`
}

// EventType returns the event type name
func (e *ReportCompletedEvent) EventType() string {
	return "ReportCompleted"
}

// NewReportCompletedEvent creates a new ReportCompletedEvent
func NewReportCompletedEvent(r *FinancialReport) *ReportCompletedEvent {
	return &ReportCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ReportCompleted", "FinancialReport", r.ID),
		ReportID:        r.ID,
		Reference:       r.Reference,
		LandlordID:      r.LandlordID,
		GrossIncome:     r.Totals.TotalGrossIncome.Amount(),
		TotalExpenses:   r.Totals.TotalExpenses.Amount(),
		NetRentalIncome: r.Totals.NetRentalIncome.Amount(),
	}
}

// ReportFailedEvent is raised when aggregation fails
type ReportFailedEvent struct {
	shared.BaseDomainEvent
	ReportID     uuid.UUID  `json:"report_id"`
	Reference    string     `json:"reference"`
	LandlordID   uuid.UUID  `json:"landlord_id"`
	ErrorMessage string     `json:"error_message"`
	ErrorDate    *time.Time `json:"error_date,omitempty"`
}

// EventType returns the event type name
func (e *ReportFailedEvent) EventType() string {
	return "ReportFailed"
}

// NewReportFailedEvent creates a new ReportFailedEvent
func NewReportFailedEvent(r *FinancialReport) *ReportFailedEvent {
	return &ReportFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ReportFailed", "FinancialReport", r.ID),
		ReportID:        r.ID,
		Reference:       r.Reference,
		LandlordID:      r.LandlordID,
		ErrorMessage:    r.ErrorMessage,
		ErrorDate:       r.ErrorDate,
	}
}
