package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentRecordedEvent is raised when a rent payment is recorded
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID   uuid.UUID       `json:"payment_id"`
	TenancyID   uuid.UUID       `json:"tenancy_id"`
	LandlordID  uuid.UUID       `json:"landlord_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method"`
	PaymentDate time.Time       `json:"payment_date"`
	IsLate      bool            `json:"is_late"`
	DaysLate    int             `json:"days_late"`
}

// EventType returns the event type name
func (e *PaymentRecordedEvent) EventType() string {
	return "PaymentRecorded"
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(p *RentPayment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRecorded", "RentPayment", p.ID),
		PaymentID:       p.ID,
		TenancyID:       p.TenancyID,
		LandlordID:      p.LandlordID,
		Amount:          p.Amount.Amount(),
		Method:          p.Method,
		PaymentDate:     p.PaymentDate,
		IsLate:          p.IsLate,
		DaysLate:        p.DaysLate,
	}
}

// PaymentAllocatedEvent is raised when allocation across rent, fees, arrears
// and credit has been computed and validated
type PaymentAllocatedEvent struct {
	shared.BaseDomainEvent
	PaymentID         uuid.UUID       `json:"payment_id"`
	TenancyID         uuid.UUID       `json:"tenancy_id"`
	RentAllocation    decimal.Decimal `json:"rent_allocation"`
	FeesAllocation    decimal.Decimal `json:"fees_allocation"`
	ArrearsAllocation decimal.Decimal `json:"arrears_allocation"`
	CreditBalance     decimal.Decimal `json:"credit_balance"`
	IsPartial         bool            `json:"is_partial"`
}

// EventType returns the event type name
func (e *PaymentAllocatedEvent) EventType() string {
	return "PaymentAllocated"
}

// NewPaymentAllocatedEvent creates a new PaymentAllocatedEvent
func NewPaymentAllocatedEvent(p *RentPayment) *PaymentAllocatedEvent {
	return &PaymentAllocatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("PaymentAllocated", "RentPayment", p.ID),
		PaymentID:         p.ID,
		TenancyID:         p.TenancyID,
		RentAllocation:    p.RentAllocation.Amount(),
		FeesAllocation:    p.FeesAllocation.Amount(),
		ArrearsAllocation: p.ArrearsAllocation.Amount(),
		CreditBalance:     p.CreditBalance.Amount(),
		IsPartial:         p.IsPartial,
	}
}

// PaymentCompletedEvent is raised when a payment settles
type PaymentCompletedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"payment_id"`
	TenancyID  uuid.UUID       `json:"tenancy_id"`
	LandlordID uuid.UUID       `json:"landlord_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *PaymentCompletedEvent) EventType() string {
	return "PaymentCompleted"
}

// NewPaymentCompletedEvent creates a new PaymentCompletedEvent
func NewPaymentCompletedEvent(p *RentPayment) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentCompleted", "RentPayment", p.ID),
		PaymentID:       p.ID,
		TenancyID:       p.TenancyID,
		LandlordID:      p.LandlordID,
		Amount:          p.Amount.Amount(),
	}
}

// PaymentFailedEvent is raised when settlement fails
type PaymentFailedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID `json:"payment_id"`
	TenancyID     uuid.UUID `json:"tenancy_id"`
	FailureReason string    `json:"failure_reason"`
}

// EventType returns the event type name
func (e *PaymentFailedEvent) EventType() string {
	return "PaymentFailed"
}

// NewPaymentFailedEvent creates a new PaymentFailedEvent
func NewPaymentFailedEvent(p *RentPayment) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentFailed", "RentPayment", p.ID),
		PaymentID:       p.ID,
		TenancyID:       p.TenancyID,
		FailureReason:   p.FailureReason,
	}
}

// PaymentRefundedEvent is raised when a completed payment is refunded
type PaymentRefundedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"payment_id"`
	TenancyID  uuid.UUID       `json:"tenancy_id"`
	LandlordID uuid.UUID       `json:"landlord_id"`
	Amount     decimal.Decimal `json:"amount"`
	RefundedAt *time.Time      `json:"refunded_at,omitempty"`
}

// EventType returns the event type name
func (e *PaymentRefundedEvent) EventType() string {
	return "PaymentRefunded"
}

// NewPaymentRefundedEvent creates a new PaymentRefundedEvent
func NewPaymentRefundedEvent(p *RentPayment) *PaymentRefundedEvent {
	return &PaymentRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRefunded", "RentPayment", p.ID),
		PaymentID:       p.ID,
		TenancyID:       p.TenancyID,
		LandlordID:      p.LandlordID,
		Amount:          p.Amount.Amount(),
		RefundedAt:      p.RefundedAt,
	}
}
