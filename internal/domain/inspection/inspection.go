package inspection

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
)

// InspectionStatus represents the workflow state of a property inspection
type InspectionStatus string

const (
	InspectionStatusScheduled   InspectionStatus = "SCHEDULED"
	InspectionStatusConfirmed   InspectionStatus = "CONFIRMED"
	InspectionStatusInProgress  InspectionStatus = "IN_PROGRESS"
	InspectionStatusCompleted   InspectionStatus = "COMPLETED"
	InspectionStatusCancelled   InspectionStatus = "CANCELLED"
	InspectionStatusRescheduled InspectionStatus = "RESCHEDULED"
	InspectionStatusNoAccess    InspectionStatus = "NO_ACCESS"
	InspectionStatusPostponed   InspectionStatus = "POSTPONED"
)

// IsValid checks if the status is a valid InspectionStatus
func (s InspectionStatus) IsValid() bool {
	switch s {
	case InspectionStatusScheduled, InspectionStatusConfirmed, InspectionStatusInProgress,
		InspectionStatusCompleted, InspectionStatusCancelled, InspectionStatusRescheduled,
		InspectionStatusNoAccess, InspectionStatusPostponed:
		return true
	}
	return false
}

// IsTerminal returns true once the inspection visit can no longer proceed
func (s InspectionStatus) IsTerminal() bool {
	switch s {
	case InspectionStatusCompleted, InspectionStatusCancelled,
		InspectionStatusRescheduled, InspectionStatusNoAccess:
		return true
	}
	return false
}

// String returns the string representation of InspectionStatus
func (s InspectionStatus) String() string {
	return string(s)
}

// InspectionType classifies the reason for the visit
type InspectionType string

const (
	InspectionTypeRoutine  InspectionType = "ROUTINE"
	InspectionTypeMoveIn   InspectionType = "MOVE_IN"
	InspectionTypeMoveOut  InspectionType = "MOVE_OUT"
	InspectionTypeSafety   InspectionType = "SAFETY"
	InspectionTypeFollowUp InspectionType = "FOLLOW_UP"
)

// IsValid checks if the inspection type is valid
func (t InspectionType) IsValid() bool {
	switch t {
	case InspectionTypeRoutine, InspectionTypeMoveIn, InspectionTypeMoveOut,
		InspectionTypeSafety, InspectionTypeFollowUp:
		return true
	}
	return false
}

// String returns the string representation of InspectionType
func (t InspectionType) String() string {
	return string(t)
}

// Issue is a finding recorded on completion. Issues with ActionRequired set
// spawn maintenance requests through the completion event handler.
type Issue struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Severity       string `json:"severity"`
	ActionRequired bool   `json:"action_required"`
}

// IssueList is a collection of issues stored as JSONB
type IssueList []Issue

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l IssueList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *IssueList) Scan(value interface{}) error {
	if value == nil {
		*l = IssueList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan IssueList: unsupported type")
	}

	return json.Unmarshal(bytes, l)
}

// PropertyInspection represents a property inspection aggregate root
type PropertyInspection struct {
	shared.AuditedAggregateRoot
	Reference     string           `json:"reference"`
	PropertyID    uuid.UUID        `json:"property_id"`
	LandlordID    uuid.UUID        `json:"landlord_id"`
	Type          InspectionType   `json:"type"`
	Status        InspectionStatus `json:"status"`
	InspectorName string           `json:"inspector_name"`
	ScheduledDate time.Time        `json:"scheduled_date"`
	ActualDate    *time.Time       `json:"actual_date,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Issues        IssueList        `json:"issues,omitempty"`
	SuccessorID   *uuid.UUID       `json:"successor_id,omitempty"`
}

// NewPropertyInspection schedules an inspection with an INS-prefixed reference
func NewPropertyInspection(propertyID, landlordID uuid.UUID, inspectionType InspectionType, inspectorName string, scheduledDate time.Time) (*PropertyInspection, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID is required")
	}
	if !inspectionType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INSPECTION_TYPE", "Inspection type is not valid")
	}
	if scheduledDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Scheduled date is required")
	}

	i := &PropertyInspection{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Reference:            shared.NewReference(shared.InspectionPrefix),
		PropertyID:           propertyID,
		LandlordID:           landlordID,
		Type:                 inspectionType,
		Status:               InspectionStatusScheduled,
		InspectorName:        inspectorName,
		ScheduledDate:        scheduledDate,
	}

	i.AddDomainEvent(NewInspectionScheduledEvent(i))

	return i, nil
}

// Confirm records the tenant's confirmation of the appointment
func (i *PropertyInspection) Confirm() error {
	if i.Status != InspectionStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", "Only a scheduled inspection can be confirmed")
	}
	i.Status = InspectionStatusConfirmed
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// Start marks the inspector as on site
func (i *PropertyInspection) Start() error {
	if i.Status != InspectionStatusScheduled && i.Status != InspectionStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Only a scheduled or confirmed inspection can start")
	}
	i.Status = InspectionStatusInProgress
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// Complete records the visit outcome. Issues flagged ActionRequired are
// carried on the completion event for the maintenance handler.
func (i *PropertyInspection) Complete(actualDate time.Time, notes string, issues []Issue) error {
	if i.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Inspection has already concluded")
	}
	for _, issue := range issues {
		if issue.Title == "" {
			return shared.NewDomainError("INVALID_ISSUE", "Issue title cannot be empty")
		}
	}
	i.Status = InspectionStatusCompleted
	i.ActualDate = &actualDate
	i.Notes = notes
	i.Issues = issues
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.AddDomainEvent(NewInspectionCompletedEvent(i))
	return nil
}

// Reschedule closes this visit as RESCHEDULED; the service opens a successor
// inspection at the new date and links it here.
func (i *PropertyInspection) Reschedule(successorID uuid.UUID) error {
	if i.Status.IsTerminal() || i.Status == InspectionStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Only a pending inspection can be rescheduled")
	}
	if successorID == uuid.Nil {
		return shared.NewDomainError("INVALID_SUCCESSOR", "Successor inspection ID is required")
	}
	i.Status = InspectionStatusRescheduled
	i.SuccessorID = &successorID
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// Postpone pauses a pending inspection with no new date agreed yet
func (i *PropertyInspection) Postpone(reason string) error {
	if i.Status != InspectionStatusScheduled && i.Status != InspectionStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Only a pending inspection can be postponed")
	}
	i.Status = InspectionStatusPostponed
	i.Notes = reason
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// Rebook returns a postponed inspection to SCHEDULED at a new date
func (i *PropertyInspection) Rebook(scheduledDate time.Time) error {
	if i.Status != InspectionStatusPostponed {
		return shared.NewDomainError("INVALID_STATE", "Only a postponed inspection can be rebooked")
	}
	if scheduledDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Scheduled date is required")
	}
	i.Status = InspectionStatusScheduled
	i.ScheduledDate = scheduledDate
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// RecordNoAccess closes the visit because the inspector could not get in
func (i *PropertyInspection) RecordNoAccess(attemptedDate time.Time, notes string) error {
	if i.Status != InspectionStatusScheduled && i.Status != InspectionStatusConfirmed && i.Status != InspectionStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Only a pending or in-progress inspection can record no access")
	}
	i.Status = InspectionStatusNoAccess
	i.ActualDate = &attemptedDate
	i.Notes = notes
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// Cancel abandons a pending inspection
func (i *PropertyInspection) Cancel(reason string) error {
	if i.Status.IsTerminal() || i.Status == InspectionStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Only a pending inspection can be cancelled")
	}
	i.Status = InspectionStatusCancelled
	i.Notes = reason
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// ActionableIssues returns the issues that require follow-up maintenance
func (i *PropertyInspection) ActionableIssues() []Issue {
	var actionable []Issue
	for _, issue := range i.Issues {
		if issue.ActionRequired {
			actionable = append(actionable, issue)
		}
	}
	return actionable
}
