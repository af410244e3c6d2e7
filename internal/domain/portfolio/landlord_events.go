package portfolio

import (
	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
)

// LandlordCreatedEvent is raised when a new landlord is registered
type LandlordCreatedEvent struct {
	shared.BaseDomainEvent
	LandlordID   uuid.UUID    `json:"landlord_id"`
	Name         string       `json:"name"`
	LandlordType LandlordType `json:"landlord_type"`
}

// EventType returns the event type name
func (e *LandlordCreatedEvent) EventType() string {
	return "LandlordCreated"
}

// NewLandlordCreatedEvent creates a new LandlordCreatedEvent
func NewLandlordCreatedEvent(l *Landlord) *LandlordCreatedEvent {
	return &LandlordCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LandlordCreated", "Landlord", l.ID),
		LandlordID:      l.ID,
		Name:            l.Name,
		LandlordType:    l.Type,
	}
}
