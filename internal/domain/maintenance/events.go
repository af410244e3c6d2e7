package maintenance

import (
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaintenanceSubmittedEvent is raised when a maintenance request is created
type MaintenanceSubmittedEvent struct {
	shared.BaseDomainEvent
	RequestID  uuid.UUID `json:"request_id"`
	Reference  string    `json:"reference"`
	PropertyID uuid.UUID `json:"property_id"`
	LandlordID uuid.UUID `json:"landlord_id"`
	Category   Category  `json:"category"`
	Priority   Priority  `json:"priority"`
	IsCritical bool      `json:"is_critical"`
}

// EventType returns the event type name
func (e *MaintenanceSubmittedEvent) EventType() string {
	return "MaintenanceSubmitted"
}

// NewMaintenanceSubmittedEvent creates a new MaintenanceSubmittedEvent
func NewMaintenanceSubmittedEvent(r *MaintenanceRequest) *MaintenanceSubmittedEvent {
	return &MaintenanceSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MaintenanceSubmitted", "MaintenanceRequest", r.ID),
		RequestID:       r.ID,
		Reference:       r.Reference,
		PropertyID:      r.PropertyID,
		LandlordID:      r.LandlordID,
		Category:        r.Category,
		Priority:        r.Priority,
		IsCritical:      r.Priority.IsCritical(),
	}
}

// MaintenanceCompletedEvent is raised when the work is completed
type MaintenanceCompletedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID        `json:"request_id"`
	Reference     string           `json:"reference"`
	PropertyID    uuid.UUID        `json:"property_id"`
	LandlordID    uuid.UUID        `json:"landlord_id"`
	ActualCost    *decimal.Decimal `json:"actual_cost,omitempty"`
	CompletedDate *time.Time       `json:"completed_date,omitempty"`
}

// EventType returns the event type name
func (e *MaintenanceCompletedEvent) EventType() string {
	return "MaintenanceCompleted"
}

// NewMaintenanceCompletedEvent creates a new MaintenanceCompletedEvent
func NewMaintenanceCompletedEvent(r *MaintenanceRequest) *MaintenanceCompletedEvent {
	var cost *decimal.Decimal
	if r.ActualCost != nil {
		c := r.ActualCost.Amount()
		cost = &c
	}
	return &MaintenanceCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MaintenanceCompleted", "MaintenanceRequest", r.ID),
		RequestID:       r.ID,
		Reference:       r.Reference,
		PropertyID:      r.PropertyID,
		LandlordID:      r.LandlordID,
		ActualCost:      cost,
		CompletedDate:   r.CompletedDate,
	}
}
