package portfolio

import (
	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
)

// PropertyAddedEvent is raised when a property joins a landlord's portfolio
type PropertyAddedEvent struct {
	shared.BaseDomainEvent
	PropertyID   uuid.UUID    `json:"property_id"`
	LandlordID   uuid.UUID    `json:"landlord_id"`
	AddressLine1 string       `json:"address_line1"`
	Postcode     string       `json:"postcode"`
	PropertyType PropertyType `json:"property_type"`
}

// EventType returns the event type name
func (e *PropertyAddedEvent) EventType() string {
	return "PropertyAdded"
}

// NewPropertyAddedEvent creates a new PropertyAddedEvent
func NewPropertyAddedEvent(p *Property) *PropertyAddedEvent {
	return &PropertyAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PropertyAdded", "Property", p.ID),
		PropertyID:      p.ID,
		LandlordID:      p.LandlordID,
		AddressLine1:    p.AddressLine1,
		Postcode:        p.Postcode,
		PropertyType:    p.Type,
	}
}

// PropertyUpdatedEvent is raised when descriptive property details change
type PropertyUpdatedEvent struct {
	shared.BaseDomainEvent
	PropertyID uuid.UUID `json:"property_id"`
	LandlordID uuid.UUID `json:"landlord_id"`
}

// EventType returns the event type name
func (e *PropertyUpdatedEvent) EventType() string {
	return "PropertyUpdated"
}

// NewPropertyUpdatedEvent creates a new PropertyUpdatedEvent
func NewPropertyUpdatedEvent(p *Property) *PropertyUpdatedEvent {
	return &PropertyUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PropertyUpdated", "Property", p.ID),
		PropertyID:      p.ID,
		LandlordID:      p.LandlordID,
	}
}

// PropertyOccupiedEvent is raised when a tenant moves in
type PropertyOccupiedEvent struct {
	shared.BaseDomainEvent
	PropertyID uuid.UUID `json:"property_id"`
	LandlordID uuid.UUID `json:"landlord_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
}

// EventType returns the event type name
func (e *PropertyOccupiedEvent) EventType() string {
	return "PropertyOccupied"
}

// NewPropertyOccupiedEvent creates a new PropertyOccupiedEvent
func NewPropertyOccupiedEvent(p *Property, tenantID uuid.UUID) *PropertyOccupiedEvent {
	return &PropertyOccupiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PropertyOccupied", "Property", p.ID),
		PropertyID:      p.ID,
		LandlordID:      p.LandlordID,
		TenantID:        tenantID,
	}
}

// PropertyVacatedEvent is raised when the current tenant moves out
type PropertyVacatedEvent struct {
	shared.BaseDomainEvent
	PropertyID uuid.UUID  `json:"property_id"`
	LandlordID uuid.UUID  `json:"landlord_id"`
	TenantID   *uuid.UUID `json:"tenant_id,omitempty"`
}

// EventType returns the event type name
func (e *PropertyVacatedEvent) EventType() string {
	return "PropertyVacated"
}

// NewPropertyVacatedEvent creates a new PropertyVacatedEvent
func NewPropertyVacatedEvent(p *Property, tenantID *uuid.UUID) *PropertyVacatedEvent {
	return &PropertyVacatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PropertyVacated", "Property", p.ID),
		PropertyID:      p.ID,
		LandlordID:      p.LandlordID,
		TenantID:        tenantID,
	}
}
