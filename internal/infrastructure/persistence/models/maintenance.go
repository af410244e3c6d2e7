package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/maintenance"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
)

// MaintenanceRequestModel is the persistence model for the MaintenanceRequest aggregate root.
type MaintenanceRequestModel struct {
	AuditedAggregateModel
	Reference       string                    `gorm:"type:varchar(30);not null;uniqueIndex"`
	PropertyID      uuid.UUID                 `gorm:"type:uuid;not null;index"`
	LandlordID      uuid.UUID                 `gorm:"type:uuid;not null;index"`
	InspectionID    *uuid.UUID                `gorm:"type:uuid;index"`
	Title           string                    `gorm:"type:varchar(200);not null"`
	Description     string                    `gorm:"type:text"`
	Category        maintenance.Category      `gorm:"type:varchar(20);not null"`
	Priority        maintenance.Priority      `gorm:"type:varchar(20);not null;index"`
	Status          maintenance.RequestStatus `gorm:"type:varchar(20);not null;default:'SUBMITTED';index"`
	ContractorName  string                    `gorm:"type:varchar(200)"`
	EstimatedCost   *valueobject.Money        `gorm:"type:decimal(18,4)"`
	ActualCost      *valueobject.Money        `gorm:"type:decimal(18,4)"`
	ScheduledDate   *time.Time
	CompletedDate   *time.Time                `gorm:"index"`
	CompletionNotes string                    `gorm:"type:text"`
	HoldReason      string                    `gorm:"type:varchar(500)"`
	ResumeStatus    maintenance.RequestStatus `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (MaintenanceRequestModel) TableName() string {
	return "maintenance_requests"
}

// ToDomain converts the persistence model to a domain MaintenanceRequest entity.
func (m *MaintenanceRequestModel) ToDomain() *maintenance.MaintenanceRequest {
	return &maintenance.MaintenanceRequest{
		AuditedAggregateRoot: m.ToDomainAuditedAggregateRoot(),
		Reference:            m.Reference,
		PropertyID:           m.PropertyID,
		LandlordID:           m.LandlordID,
		InspectionID:         m.InspectionID,
		Title:                m.Title,
		Description:          m.Description,
		Category:             m.Category,
		Priority:             m.Priority,
		Status:               m.Status,
		ContractorName:       m.ContractorName,
		EstimatedCost:        m.EstimatedCost,
		ActualCost:           m.ActualCost,
		ScheduledDate:        m.ScheduledDate,
		CompletedDate:        m.CompletedDate,
		CompletionNotes:      m.CompletionNotes,
		HoldReason:           m.HoldReason,
		ResumeStatus:         m.ResumeStatus,
	}
}

// FromDomain populates the persistence model from a domain MaintenanceRequest entity.
func (m *MaintenanceRequestModel) FromDomain(r *maintenance.MaintenanceRequest) {
	m.FromDomainAuditedAggregateRoot(r.AuditedAggregateRoot)
	m.Reference = r.Reference
	m.PropertyID = r.PropertyID
	m.LandlordID = r.LandlordID
	m.InspectionID = r.InspectionID
	m.Title = r.Title
	m.Description = r.Description
	m.Category = r.Category
	m.Priority = r.Priority
	m.Status = r.Status
	m.ContractorName = r.ContractorName
	m.EstimatedCost = r.EstimatedCost
	m.ActualCost = r.ActualCost
	m.ScheduledDate = r.ScheduledDate
	m.CompletedDate = r.CompletedDate
	m.CompletionNotes = r.CompletionNotes
	m.HoldReason = r.HoldReason
	m.ResumeStatus = r.ResumeStatus
}

// MaintenanceRequestModelFromDomain creates a new persistence model from a domain MaintenanceRequest.
func MaintenanceRequestModelFromDomain(r *maintenance.MaintenanceRequest) *MaintenanceRequestModel {
	m := &MaintenanceRequestModel{}
	m.FromDomain(r)
	return m
}
