package models

import (
	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/portfolio"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LandlordModel is the persistence model for the Landlord aggregate root.
type LandlordModel struct {
	AuditedAggregateModel
	Name               string                    `gorm:"type:varchar(200);not null"`
	Email              string                    `gorm:"type:varchar(200);index"`
	Phone              string                    `gorm:"type:varchar(30)"`
	Type               portfolio.LandlordType    `gorm:"type:varchar(20);not null"`
	Status             portfolio.LandlordStatus  `gorm:"type:varchar(30);not null;default:'PENDING_VERIFICATION';index"`
	PortfolioBucket    portfolio.PortfolioBucket `gorm:"type:varchar(10);not null;default:'NONE'"`
	TotalProperties    int64                     `gorm:"not null;default:0"`
	OccupiedProperties int64                     `gorm:"not null;default:0"`
	OccupancyRate      decimal.Decimal           `gorm:"type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (LandlordModel) TableName() string {
	return "landlords"
}

// ToDomain converts the persistence model to a domain Landlord entity.
func (m *LandlordModel) ToDomain() *portfolio.Landlord {
	return &portfolio.Landlord{
		AuditedAggregateRoot: m.ToDomainAuditedAggregateRoot(),
		Name:                 m.Name,
		Email:                m.Email,
		Phone:                m.Phone,
		Type:                 m.Type,
		Status:               m.Status,
		PortfolioBucket:      m.PortfolioBucket,
		TotalProperties:      m.TotalProperties,
		OccupiedProperties:   m.OccupiedProperties,
		OccupancyRate:        m.OccupancyRate,
	}
}

// FromDomain populates the persistence model from a domain Landlord entity.
func (m *LandlordModel) FromDomain(l *portfolio.Landlord) {
	m.FromDomainAuditedAggregateRoot(l.AuditedAggregateRoot)
	m.Name = l.Name
	m.Email = l.Email
	m.Phone = l.Phone
	m.Type = l.Type
	m.Status = l.Status
	m.PortfolioBucket = l.PortfolioBucket
	m.TotalProperties = l.TotalProperties
	m.OccupiedProperties = l.OccupiedProperties
	m.OccupancyRate = l.OccupancyRate
}

// LandlordModelFromDomain creates a new persistence model from a domain Landlord.
func LandlordModelFromDomain(l *portfolio.Landlord) *LandlordModel {
	m := &LandlordModel{}
	m.FromDomain(l)
	return m
}

// PropertyModel is the persistence model for the Property aggregate root.
type PropertyModel struct {
	AuditedAggregateModel
	LandlordID      uuid.UUID                `gorm:"type:uuid;not null;index"`
	AddressLine1    string                   `gorm:"type:varchar(200);not null"`
	AddressLine2    string                   `gorm:"type:varchar(200)"`
	City            string                   `gorm:"type:varchar(100);index"`
	Postcode        string                   `gorm:"type:varchar(10);not null;index"`
	Type            portfolio.PropertyType   `gorm:"type:varchar(20);not null"`
	Bedrooms        int                      `gorm:"not null;default:0"`
	Status          portfolio.PropertyStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE';index"`
	CurrentTenantID *uuid.UUID               `gorm:"type:uuid;index"`
	PurchasePrice   valueobject.Money        `gorm:"type:decimal(18,4);not null;default:0"`
	MonthlyRent     valueobject.Money        `gorm:"type:decimal(18,4);not null;default:0"`
	MonthlyMortgage valueobject.Money        `gorm:"type:decimal(18,4);not null;default:0"`
	Notes           string                   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// ToDomain converts the persistence model to a domain Property entity.
func (m *PropertyModel) ToDomain() *portfolio.Property {
	return &portfolio.Property{
		AuditedAggregateRoot: m.ToDomainAuditedAggregateRoot(),
		LandlordID:           m.LandlordID,
		AddressLine1:         m.AddressLine1,
		AddressLine2:         m.AddressLine2,
		City:                 m.City,
		Postcode:             m.Postcode,
		Type:                 m.Type,
		Bedrooms:             m.Bedrooms,
		Status:               m.Status,
		CurrentTenantID:      m.CurrentTenantID,
		PurchasePrice:        m.PurchasePrice,
		MonthlyRent:          m.MonthlyRent,
		MonthlyMortgage:      m.MonthlyMortgage,
		Notes:                m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Property entity.
func (m *PropertyModel) FromDomain(p *portfolio.Property) {
	m.FromDomainAuditedAggregateRoot(p.AuditedAggregateRoot)
	m.LandlordID = p.LandlordID
	m.AddressLine1 = p.AddressLine1
	m.AddressLine2 = p.AddressLine2
	m.City = p.City
	m.Postcode = p.Postcode
	m.Type = p.Type
	m.Bedrooms = p.Bedrooms
	m.Status = p.Status
	m.CurrentTenantID = p.CurrentTenantID
	m.PurchasePrice = p.PurchasePrice
	m.MonthlyRent = p.MonthlyRent
	m.MonthlyMortgage = p.MonthlyMortgage
	m.Notes = p.Notes
}

// PropertyModelFromDomain creates a new persistence model from a domain Property.
func PropertyModelFromDomain(p *portfolio.Property) *PropertyModel {
	m := &PropertyModel{}
	m.FromDomain(p)
	return m
}
