package maintenance

import (
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
)

// RequestStatus represents the workflow state of a maintenance request
type RequestStatus string

const (
	RequestStatusSubmitted    RequestStatus = "SUBMITTED"
	RequestStatusAcknowledged RequestStatus = "ACKNOWLEDGED"
	RequestStatusAssigned     RequestStatus = "ASSIGNED"
	RequestStatusInProgress   RequestStatus = "IN_PROGRESS"
	RequestStatusCompleted    RequestStatus = "COMPLETED"
	RequestStatusCancelled    RequestStatus = "CANCELLED"
	RequestStatusOnHold       RequestStatus = "ON_HOLD"
)

// IsValid checks if the status is a valid RequestStatus
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusSubmitted, RequestStatusAcknowledged, RequestStatusAssigned,
		RequestStatusInProgress, RequestStatusCompleted, RequestStatusCancelled,
		RequestStatusOnHold:
		return true
	}
	return false
}

// IsTerminal returns true once the request can no longer progress
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusCancelled
}

// String returns the string representation of RequestStatus
func (s RequestStatus) String() string {
	return string(s)
}

// Priority represents the urgency of a maintenance request. The value set
// on submission is preserved verbatim through every transition.
type Priority string

const (
	PriorityLow       Priority = "LOW"
	PriorityMedium    Priority = "MEDIUM"
	PriorityHigh      Priority = "HIGH"
	PriorityUrgent    Priority = "URGENT"
	PriorityEmergency Priority = "EMERGENCY"
)

// IsValid checks if the priority is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent, PriorityEmergency:
		return true
	}
	return false
}

// IsCritical returns true for priorities dashboards surface distinctly
func (p Priority) IsCritical() bool {
	return p == PriorityUrgent || p == PriorityEmergency
}

// String returns the string representation of Priority
func (p Priority) String() string {
	return string(p)
}

// Category classifies the trade needed for a maintenance request
type Category string

const (
	CategoryPlumbing   Category = "PLUMBING"
	CategoryElectrical Category = "ELECTRICAL"
	CategoryHeating    Category = "HEATING"
	CategoryStructural Category = "STRUCTURAL"
	CategoryAppliance  Category = "APPLIANCE"
	CategoryGardening  Category = "GARDENING"
	CategoryGeneral    Category = "GENERAL"
)

// IsValid checks if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryPlumbing, CategoryElectrical, CategoryHeating, CategoryStructural,
		CategoryAppliance, CategoryGardening, CategoryGeneral:
		return true
	}
	return false
}

// MaintenanceRequest represents a maintenance request aggregate root.
// Progression is linear Submitted→Acknowledged→Assigned→InProgress→Completed;
// ON_HOLD is reachable from and returns to any non-terminal state; CANCELLED
// is reachable from any non-terminal state.
type MaintenanceRequest struct {
	shared.AuditedAggregateRoot
	Reference       string             `json:"reference"`
	PropertyID      uuid.UUID          `json:"property_id"`
	LandlordID      uuid.UUID          `json:"landlord_id"`
	InspectionID    *uuid.UUID         `json:"inspection_id,omitempty"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Category        Category           `json:"category"`
	Priority        Priority           `json:"priority"`
	Status          RequestStatus      `json:"status"`
	ContractorName  string             `json:"contractor_name,omitempty"`
	EstimatedCost   *valueobject.Money `json:"estimated_cost,omitempty"`
	ActualCost      *valueobject.Money `json:"actual_cost,omitempty"`
	ScheduledDate   *time.Time         `json:"scheduled_date,omitempty"`
	CompletedDate   *time.Time         `json:"completed_date,omitempty"`
	CompletionNotes string             `json:"completion_notes,omitempty"`
	HoldReason      string             `json:"hold_reason,omitempty"`
	// resumeStatus remembers where to return when the hold lifts
	ResumeStatus RequestStatus `json:"-"`
}

// NewMaintenanceRequest creates a request in SUBMITTED status with a
// MNT-prefixed reference
func NewMaintenanceRequest(propertyID, landlordID uuid.UUID, title, description string, category Category, priority Priority) (*MaintenanceRequest, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID is required")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category is not valid")
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Priority is not valid")
	}

	r := &MaintenanceRequest{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Reference:            shared.NewReference(shared.MaintenancePrefix),
		PropertyID:           propertyID,
		LandlordID:           landlordID,
		Title:                title,
		Description:          description,
		Category:             category,
		Priority:             priority,
		Status:               RequestStatusSubmitted,
	}

	r.AddDomainEvent(NewMaintenanceSubmittedEvent(r))

	return r, nil
}

// LinkInspection records the inspection that spawned this request
func (r *MaintenanceRequest) LinkInspection(inspectionID uuid.UUID) {
	if inspectionID != uuid.Nil {
		r.InspectionID = &inspectionID
	}
}

// Acknowledge confirms receipt of a submitted request
func (r *MaintenanceRequest) Acknowledge() error {
	if r.Status != RequestStatusSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Only a submitted request can be acknowledged")
	}
	r.Status = RequestStatusAcknowledged
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// Assign allocates a contractor and optional estimate and schedule
func (r *MaintenanceRequest) Assign(contractorName string, estimatedCost *valueobject.Money, scheduledDate *time.Time) error {
	if r.Status != RequestStatusAcknowledged && r.Status != RequestStatusSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Only a submitted or acknowledged request can be assigned")
	}
	if contractorName == "" {
		return shared.NewDomainError("INVALID_CONTRACTOR", "Contractor name cannot be empty")
	}
	if estimatedCost != nil && estimatedCost.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Estimated cost cannot be negative")
	}
	r.Status = RequestStatusAssigned
	r.ContractorName = contractorName
	r.EstimatedCost = estimatedCost
	r.ScheduledDate = scheduledDate
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// Start marks work as underway
func (r *MaintenanceRequest) Start() error {
	if r.Status != RequestStatusAssigned {
		return shared.NewDomainError("INVALID_STATE", "Only an assigned request can start")
	}
	r.Status = RequestStatusInProgress
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// Complete finishes the work. When an estimate was recorded, the actual cost
// is mandatory so reconciliation can balance.
func (r *MaintenanceRequest) Complete(actualCost *valueobject.Money, completedDate time.Time, notes string) error {
	if r.Status != RequestStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Only an in-progress request can complete")
	}
	if r.EstimatedCost != nil && actualCost == nil {
		return shared.NewDomainError("VALIDATION", "Actual cost is required when an estimate was recorded")
	}
	if actualCost != nil && actualCost.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Actual cost cannot be negative")
	}
	r.Status = RequestStatusCompleted
	r.ActualCost = actualCost
	r.CompletedDate = &completedDate
	r.CompletionNotes = notes
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewMaintenanceCompletedEvent(r))
	return nil
}

// Hold pauses a non-terminal request, remembering where to resume
func (r *MaintenanceRequest) Hold(reason string) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "A terminal request cannot be put on hold")
	}
	if r.Status == RequestStatusOnHold {
		return shared.NewDomainError("INVALID_STATE", "Request is already on hold")
	}
	r.ResumeStatus = r.Status
	r.Status = RequestStatusOnHold
	r.HoldReason = reason
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// Resume lifts a hold, returning the request to its prior state
func (r *MaintenanceRequest) Resume() error {
	if r.Status != RequestStatusOnHold {
		return shared.NewDomainError("INVALID_STATE", "Only a request on hold can resume")
	}
	r.Status = r.ResumeStatus
	r.ResumeStatus = ""
	r.HoldReason = ""
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// Cancel abandons a non-terminal request
func (r *MaintenanceRequest) Cancel(reason string) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "A terminal request cannot be cancelled")
	}
	r.Status = RequestStatusCancelled
	r.CompletionNotes = reason
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}
