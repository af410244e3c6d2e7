package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
	"github.com/lettings/backend/internal/domain/tenancy"
)

// TenancyAgreementModel is the persistence model for the TenancyAgreement aggregate root.
type TenancyAgreementModel struct {
	AuditedAggregateModel
	PropertyID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	LandlordID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	TenantName        string                `gorm:"type:varchar(200);not null"`
	TenantEmail       string                `gorm:"type:varchar(200)"`
	Status            tenancy.TenancyStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	StartDate         time.Time             `gorm:"not null"`
	EndDate           time.Time             `gorm:"not null;index"`
	ActualEndDate     *time.Time
	RentAmount        valueobject.Money     `gorm:"type:decimal(18,4);not null"`
	RentFrequency     tenancy.RentFrequency `gorm:"type:varchar(20);not null"`
	RentDueDay        int                   `gorm:"not null"`
	DepositAmount     valueobject.Money     `gorm:"type:decimal(18,4);not null;default:0"`
	DepositScheme     tenancy.DepositScheme `gorm:"type:varchar(20);not null"`
	TerminationReason string                `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (TenancyAgreementModel) TableName() string {
	return "tenancy_agreements"
}

// ToDomain converts the persistence model to a domain TenancyAgreement entity.
func (m *TenancyAgreementModel) ToDomain() *tenancy.TenancyAgreement {
	return &tenancy.TenancyAgreement{
		AuditedAggregateRoot: m.ToDomainAuditedAggregateRoot(),
		PropertyID:           m.PropertyID,
		LandlordID:           m.LandlordID,
		TenantName:           m.TenantName,
		TenantEmail:          m.TenantEmail,
		Status:               m.Status,
		StartDate:            m.StartDate,
		EndDate:              m.EndDate,
		ActualEndDate:        m.ActualEndDate,
		RentAmount:           m.RentAmount,
		RentFrequency:        m.RentFrequency,
		RentDueDay:           m.RentDueDay,
		DepositAmount:        m.DepositAmount,
		DepositScheme:        m.DepositScheme,
		TerminationReason:    m.TerminationReason,
	}
}

// FromDomain populates the persistence model from a domain TenancyAgreement entity.
func (m *TenancyAgreementModel) FromDomain(ta *tenancy.TenancyAgreement) {
	m.FromDomainAuditedAggregateRoot(ta.AuditedAggregateRoot)
	m.PropertyID = ta.PropertyID
	m.LandlordID = ta.LandlordID
	m.TenantName = ta.TenantName
	m.TenantEmail = ta.TenantEmail
	m.Status = ta.Status
	m.StartDate = ta.StartDate
	m.EndDate = ta.EndDate
	m.ActualEndDate = ta.ActualEndDate
	m.RentAmount = ta.RentAmount
	m.RentFrequency = ta.RentFrequency
	m.RentDueDay = ta.RentDueDay
	m.DepositAmount = ta.DepositAmount
	m.DepositScheme = ta.DepositScheme
	m.TerminationReason = ta.TerminationReason
}

// TenancyAgreementModelFromDomain creates a new persistence model from a domain TenancyAgreement.
func TenancyAgreementModelFromDomain(ta *tenancy.TenancyAgreement) *TenancyAgreementModel {
	m := &TenancyAgreementModel{}
	m.FromDomain(ta)
	return m
}
