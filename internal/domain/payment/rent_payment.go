package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
)

// PaymentStatus represents the settlement state of a rent payment
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusCancelled  PaymentStatus = "CANCELLED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
	PaymentStatusOverdue    PaymentStatus = "OVERDUE"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded,
		PaymentStatusOverdue:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that admit no further allocation
// or settlement activity
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentMethod represents how a rent payment was made
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "CASH"
	PaymentMethodCard          PaymentMethod = "CARD"
	PaymentMethodBankTransfer  PaymentMethod = "BANK_TRANSFER"
	PaymentMethodDirectDebit   PaymentMethod = "DIRECT_DEBIT"
	PaymentMethodStandingOrder PaymentMethod = "STANDING_ORDER"
	PaymentMethodCheque        PaymentMethod = "CHEQUE"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer,
		PaymentMethodDirectDebit, PaymentMethodStandingOrder, PaymentMethodCheque:
		return true
	}
	return false
}

// SettlesInstantly returns true for methods that clear at the point of
// payment. Other methods settle out of band and start in PENDING.
func (m PaymentMethod) SettlesInstantly() bool {
	return m == PaymentMethodCash || m == PaymentMethodCard
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// RentPayment represents a rent payment aggregate root. It belongs to one
// tenancy agreement. The allocation fields always satisfy
// rent + fees + arrears + credit == amount once Allocate has run.
type RentPayment struct {
	shared.AuditedAggregateRoot
	TenancyID         uuid.UUID         `json:"tenancy_id"`
	PropertyID        uuid.UUID         `json:"property_id"`
	LandlordID        uuid.UUID         `json:"landlord_id"`
	ParentPaymentID   *uuid.UUID        `json:"parent_payment_id,omitempty"`
	SequenceNumber    int64             `json:"sequence_number"`
	Amount            valueobject.Money `json:"amount"`
	Method            PaymentMethod     `json:"method"`
	Status            PaymentStatus     `json:"status"`
	PaymentDate       time.Time         `json:"payment_date"`
	DueDate           time.Time         `json:"due_date"`
	PeriodStart       time.Time         `json:"period_start"`
	PeriodEnd         time.Time         `json:"period_end"`
	IsLate            bool              `json:"is_late"`
	DaysLate          int               `json:"days_late"`
	IsPartial         bool              `json:"is_partial"`
	LateFee           valueobject.Money `json:"late_fee"`
	RentAllocation    valueobject.Money `json:"rent_allocation"`
	FeesAllocation    valueobject.Money `json:"fees_allocation"`
	ArrearsAllocation valueobject.Money `json:"arrears_allocation"`
	CreditBalance     valueobject.Money `json:"credit_balance"`
	FailureReason     string            `json:"failure_reason,omitempty"`
	RefundedAt        *time.Time        `json:"refunded_at,omitempty"`
}

// NewRentPayment records a rent payment against a tenancy. Lateness is
// derived from the due date; allocation runs separately via Allocate.
func NewRentPayment(
	tenancyID, propertyID, landlordID uuid.UUID,
	amount valueobject.Money,
	method PaymentMethod,
	paymentDate, dueDate, periodStart, periodEnd time.Time,
	sequenceNumber int64,
) (*RentPayment, error) {
	if tenancyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANCY", "Tenancy ID is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is not valid")
	}
	if periodEnd.Before(periodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end cannot precede period start")
	}
	if sequenceNumber < 1 {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "Sequence number must be positive")
	}

	isLate := paymentDate.After(dueDate)
	daysLate := 0
	if isLate {
		daysLate = int(paymentDate.Sub(dueDate).Hours() / 24)
		if daysLate == 0 {
			daysLate = 1
		}
	}

	p := &RentPayment{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		TenancyID:            tenancyID,
		PropertyID:           propertyID,
		LandlordID:           landlordID,
		SequenceNumber:       sequenceNumber,
		Amount:               amount,
		Method:               method,
		Status:               PaymentStatusPending,
		PaymentDate:          paymentDate,
		DueDate:              dueDate,
		PeriodStart:          periodStart,
		PeriodEnd:            periodEnd,
		IsLate:               isLate,
		DaysLate:             daysLate,
		LateFee:              valueobject.ZeroGBP(),
		RentAllocation:       valueobject.ZeroGBP(),
		FeesAllocation:       valueobject.ZeroGBP(),
		ArrearsAllocation:    valueobject.ZeroGBP(),
		CreditBalance:        valueobject.ZeroGBP(),
	}

	p.AddDomainEvent(NewPaymentRecordedEvent(p))

	return p, nil
}

// ChainToParent links a partial payment to the payment it tops up
func (p *RentPayment) ChainToParent(parentID uuid.UUID) error {
	if parentID == uuid.Nil {
		return shared.NewDomainError("INVALID_PARENT", "Parent payment ID is required")
	}
	if parentID == p.ID {
		return shared.NewDomainError("INVALID_PARENT", "Payment cannot be its own parent")
	}
	p.ParentPaymentID = &parentID
	return nil
}

// Allocate distributes the payment amount across rent, fees and arrears in
// that priority order; any remainder becomes credit. A payment that does not
// cover the rent due in full is partial, and a partial payment never touches
// arrears. The allocation must satisfy rent+fees+arrears+credit == amount.
func (p *RentPayment) Allocate(rentDue, outstandingArrears, lateFee valueobject.Money) error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot allocate a terminal payment")
	}
	if rentDue.IsNegative() || outstandingArrears.IsNegative() || lateFee.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Allocation inputs cannot be negative")
	}

	remaining := p.Amount

	rentAlloc := minMoney(remaining, rentDue)
	remaining = remaining.MustSubtract(rentAlloc)

	feesAlloc := minMoney(remaining, lateFee)
	remaining = remaining.MustSubtract(feesAlloc)

	p.IsPartial = rentAlloc.Amount().LessThan(rentDue.Amount())

	arrearsAlloc := valueobject.ZeroGBP()
	if !p.IsPartial {
		arrearsAlloc = minMoney(remaining, outstandingArrears)
		remaining = remaining.MustSubtract(arrearsAlloc)
	}

	p.LateFee = lateFee
	p.RentAllocation = rentAlloc
	p.FeesAllocation = feesAlloc
	p.ArrearsAllocation = arrearsAlloc
	p.CreditBalance = remaining

	if err := p.ValidateAllocation(); err != nil {
		return err
	}

	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentAllocatedEvent(p))

	return nil
}

// ValidateAllocation checks the reconciliation invariant
// rent + fees + arrears + credit == amount
func (p *RentPayment) ValidateAllocation() error {
	sum := p.RentAllocation.
		MustAdd(p.FeesAllocation).
		MustAdd(p.ArrearsAllocation).
		MustAdd(p.CreditBalance)
	if !sum.Equals(p.Amount) {
		return shared.NewDomainError("ALLOCATION_MISMATCH",
			"Allocation does not sum to the payment amount: "+sum.String()+" != "+p.Amount.String())
	}
	return nil
}

// MarkProcessing moves a pending payment into the clearing pipeline
func (p *RentPayment) MarkProcessing() error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only a pending payment can start processing")
	}
	p.Status = PaymentStatusProcessing
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// MarkCompleted settles the payment. Instant methods complete at record time;
// clearing methods complete when settlement is confirmed out of band.
func (p *RentPayment) MarkCompleted() error {
	if p.Status != PaymentStatusPending && p.Status != PaymentStatusProcessing && p.Status != PaymentStatusOverdue {
		return shared.NewDomainError("INVALID_STATE", "Only a pending, processing or overdue payment can complete")
	}
	p.Status = PaymentStatusCompleted
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentCompletedEvent(p))
	return nil
}

// MarkFailed records a settlement failure reported by the clearing system
func (p *RentPayment) MarkFailed(reason string) error {
	if p.Status != PaymentStatusPending && p.Status != PaymentStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", "Only a pending or processing payment can fail")
	}
	p.Status = PaymentStatusFailed
	p.FailureReason = reason
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentFailedEvent(p))
	return nil
}

// Cancel voids a payment before it settles
func (p *RentPayment) Cancel(reason string) error {
	if p.Status != PaymentStatusPending && p.Status != PaymentStatusProcessing && p.Status != PaymentStatusOverdue {
		return shared.NewDomainError("INVALID_STATE", "Only an unsettled payment can be cancelled")
	}
	p.Status = PaymentStatusCancelled
	p.FailureReason = reason
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Refund reverses a completed payment
func (p *RentPayment) Refund() error {
	if p.Status != PaymentStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Only a completed payment can be refunded")
	}
	now := time.Now()
	p.Status = PaymentStatusRefunded
	p.RefundedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentRefundedEvent(p))
	return nil
}

// MarkOverdue flags a pending payment whose due date has passed.
// Driven by the overdue sweep, not by the API.
func (p *RentPayment) MarkOverdue(now time.Time) error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only a pending payment can become overdue")
	}
	if !now.After(p.DueDate) {
		return shared.NewDomainError("INVALID_STATE", "Payment due date has not passed")
	}
	p.Status = PaymentStatusOverdue
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsSettled returns true once the money has cleared
func (p *RentPayment) IsSettled() bool {
	return p.Status == PaymentStatusCompleted
}

func minMoney(a, b valueobject.Money) valueobject.Money {
	if a.Amount().LessThan(b.Amount()) {
		return a
	}
	return b
}
