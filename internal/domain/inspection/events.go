package inspection

import (
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
)

// InspectionScheduledEvent is raised when an inspection is booked
type InspectionScheduledEvent struct {
	shared.BaseDomainEvent
	InspectionID  uuid.UUID      `json:"inspection_id"`
	Reference     string         `json:"reference"`
	PropertyID    uuid.UUID      `json:"property_id"`
	LandlordID    uuid.UUID      `json:"landlord_id"`
	Type          InspectionType `json:"type"`
	ScheduledDate time.Time      `json:"scheduled_date"`
}

// EventType returns the event type name
func (e *InspectionScheduledEvent) EventType() string {
	return "InspectionScheduled"
}

// NewInspectionScheduledEvent creates a new InspectionScheduledEvent
func NewInspectionScheduledEvent(i *PropertyInspection) *InspectionScheduledEvent {
	return &InspectionScheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InspectionScheduled", "PropertyInspection", i.ID),
		InspectionID:    i.ID,
		Reference:       i.Reference,
		PropertyID:      i.PropertyID,
		LandlordID:      i.LandlordID,
		Type:            i.Type,
		ScheduledDate:   i.ScheduledDate,
	}
}

// InspectionCompletedEvent is raised when an inspection concludes. Issues
// flagged ActionRequired drive the maintenance follow-up handler.
type InspectionCompletedEvent struct {
	shared.BaseDomainEvent
	InspectionID uuid.UUID  `json:"inspection_id"`
	Reference    string     `json:"reference"`
	PropertyID   uuid.UUID  `json:"property_id"`
	LandlordID   uuid.UUID  `json:"landlord_id"`
	ActualDate   *time.Time `json:"actual_date,omitempty"`
	Issues       IssueList  `json:"issues,omitempty"`
}

// EventType returns the event type name
func (e *InspectionCompletedEvent) EventType() string {
	return "InspectionCompleted"
}

// NewInspectionCompletedEvent creates a new InspectionCompletedEvent
func NewInspectionCompletedEvent(i *PropertyInspection) *InspectionCompletedEvent {
	return &InspectionCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InspectionCompleted", "PropertyInspection", i.ID),
		InspectionID:    i.ID,
		Reference:       i.Reference,
		PropertyID:      i.PropertyID,
		LandlordID:      i.LandlordID,
		ActualDate:      i.ActualDate,
		Issues:          i.Issues,
	}
}
