package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/payment"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
)

// RentPaymentModel is the persistence model for the RentPayment aggregate root.
type RentPaymentModel struct {
	AuditedAggregateModel
	TenancyID         uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_payment_tenancy_seq,priority:1;index"`
	PropertyID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	LandlordID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	ParentPaymentID   *uuid.UUID            `gorm:"type:uuid;index"`
	SequenceNumber    int64                 `gorm:"not null;uniqueIndex:idx_payment_tenancy_seq,priority:2"`
	Amount            valueobject.Money     `gorm:"type:decimal(18,4);not null"`
	Method            payment.PaymentMethod `gorm:"type:varchar(20);not null"`
	Status            payment.PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaymentDate       time.Time             `gorm:"not null;index"`
	DueDate           time.Time             `gorm:"not null;index"`
	PeriodStart       time.Time             `gorm:"not null;index"`
	PeriodEnd         time.Time             `gorm:"not null"`
	IsLate            bool                  `gorm:"not null;default:false"`
	DaysLate          int                   `gorm:"not null;default:0"`
	IsPartial         bool                  `gorm:"not null;default:false"`
	LateFee           valueobject.Money     `gorm:"type:decimal(18,4);not null;default:0"`
	RentAllocation    valueobject.Money     `gorm:"type:decimal(18,4);not null;default:0"`
	FeesAllocation    valueobject.Money     `gorm:"type:decimal(18,4);not null;default:0"`
	ArrearsAllocation valueobject.Money     `gorm:"type:decimal(18,4);not null;default:0"`
	CreditBalance     valueobject.Money     `gorm:"type:decimal(18,4);not null;default:0"`
	FailureReason     string                `gorm:"type:varchar(500)"`
	RefundedAt        *time.Time
}

// TableName returns the table name for GORM
func (RentPaymentModel) TableName() string {
	return "rent_payments"
}

// ToDomain converts the persistence model to a domain RentPayment entity.
func (m *RentPaymentModel) ToDomain() *payment.RentPayment {
	return &payment.RentPayment{
		AuditedAggregateRoot: m.ToDomainAuditedAggregateRoot(),
		TenancyID:            m.TenancyID,
		PropertyID:           m.PropertyID,
		LandlordID:           m.LandlordID,
		ParentPaymentID:      m.ParentPaymentID,
		SequenceNumber:       m.SequenceNumber,
		Amount:               m.Amount,
		Method:               m.Method,
		Status:               m.Status,
		PaymentDate:          m.PaymentDate,
		DueDate:              m.DueDate,
		PeriodStart:          m.PeriodStart,
		PeriodEnd:            m.PeriodEnd,
		IsLate:               m.IsLate,
		DaysLate:             m.DaysLate,
		IsPartial:            m.IsPartial,
		LateFee:              m.LateFee,
		RentAllocation:       m.RentAllocation,
		FeesAllocation:       m.FeesAllocation,
		ArrearsAllocation:    m.ArrearsAllocation,
		CreditBalance:        m.CreditBalance,
		FailureReason:        m.FailureReason,
		RefundedAt:           m.RefundedAt,
	}
}

// FromDomain populates the persistence model from a domain RentPayment entity.
func (m *RentPaymentModel) FromDomain(p *payment.RentPayment) {
	m.FromDomainAuditedAggregateRoot(p.AuditedAggregateRoot)
	m.TenancyID = p.TenancyID
	m.PropertyID = p.PropertyID
	m.LandlordID = p.LandlordID
	m.ParentPaymentID = p.ParentPaymentID
	m.SequenceNumber = p.SequenceNumber
	m.Amount = p.Amount
	m.Method = p.Method
	m.Status = p.Status
	m.PaymentDate = p.PaymentDate
	m.DueDate = p.DueDate
	m.PeriodStart = p.PeriodStart
	m.PeriodEnd = p.PeriodEnd
	m.IsLate = p.IsLate
	m.DaysLate = p.DaysLate
	m.IsPartial = p.IsPartial
	m.LateFee = p.LateFee
	m.RentAllocation = p.RentAllocation
	m.FeesAllocation = p.FeesAllocation
	m.ArrearsAllocation = p.ArrearsAllocation
	m.CreditBalance = p.CreditBalance
	m.FailureReason = p.FailureReason
	m.RefundedAt = p.RefundedAt
}

// RentPaymentModelFromDomain creates a new persistence model from a domain RentPayment.
func RentPaymentModelFromDomain(p *payment.RentPayment) *RentPaymentModel {
	m := &RentPaymentModel{}
	m.FromDomain(p)
	return m
}
