package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/inspection"
)

// PropertyInspectionModel is the persistence model for the PropertyInspection aggregate root.
type PropertyInspectionModel struct {
	AuditedAggregateModel
	Reference     string                      `gorm:"type:varchar(30);not null;uniqueIndex"`
	PropertyID    uuid.UUID                   `gorm:"type:uuid;not null;index"`
	LandlordID    uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Type          inspection.InspectionType   `gorm:"type:varchar(20);not null"`
	Status        inspection.InspectionStatus `gorm:"type:varchar(20);not null;default:'SCHEDULED';index"`
	InspectorName string                      `gorm:"type:varchar(200)"`
	ScheduledDate time.Time                   `gorm:"not null;index"`
	ActualDate    *time.Time
	Notes         string               `gorm:"type:text"`
	Issues        inspection.IssueList `gorm:"type:jsonb;default:'[]'"`
	SuccessorID   *uuid.UUID           `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PropertyInspectionModel) TableName() string {
	return "property_inspections"
}

// ToDomain converts the persistence model to a domain PropertyInspection entity.
func (m *PropertyInspectionModel) ToDomain() *inspection.PropertyInspection {
	return &inspection.PropertyInspection{
		AuditedAggregateRoot: m.ToDomainAuditedAggregateRoot(),
		Reference:            m.Reference,
		PropertyID:           m.PropertyID,
		LandlordID:           m.LandlordID,
		Type:                 m.Type,
		Status:               m.Status,
		InspectorName:        m.InspectorName,
		ScheduledDate:        m.ScheduledDate,
		ActualDate:           m.ActualDate,
		Notes:                m.Notes,
		Issues:               m.Issues,
		SuccessorID:          m.SuccessorID,
	}
}

// FromDomain populates the persistence model from a domain PropertyInspection entity.
func (m *PropertyInspectionModel) FromDomain(i *inspection.PropertyInspection) {
	m.FromDomainAuditedAggregateRoot(i.AuditedAggregateRoot)
	m.Reference = i.Reference
	m.PropertyID = i.PropertyID
	m.LandlordID = i.LandlordID
	m.Type = i.Type
	m.Status = i.Status
	m.InspectorName = i.InspectorName
	m.ScheduledDate = i.ScheduledDate
	m.ActualDate = i.ActualDate
	m.Notes = i.Notes
	m.Issues = i.Issues
	m.SuccessorID = i.SuccessorID
}

// PropertyInspectionModelFromDomain creates a new persistence model from a domain PropertyInspection.
func PropertyInspectionModelFromDomain(i *inspection.PropertyInspection) *PropertyInspectionModel {
	m := &PropertyInspectionModel{}
	m.FromDomain(i)
	return m
}
