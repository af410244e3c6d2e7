package tenancy

import (
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TenancyCreatedEvent is raised when a tenancy agreement is drafted
type TenancyCreatedEvent struct {
	shared.BaseDomainEvent
	TenancyID  uuid.UUID       `json:"tenancy_id"`
	PropertyID uuid.UUID       `json:"property_id"`
	LandlordID uuid.UUID       `json:"landlord_id"`
	TenantName string          `json:"tenant_name"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	RentAmount decimal.Decimal `json:"rent_amount"`
}

// EventType returns the event type name
func (e *TenancyCreatedEvent) EventType() string {
	return "TenancyCreated"
}

// NewTenancyCreatedEvent creates a new TenancyCreatedEvent
func NewTenancyCreatedEvent(ta *TenancyAgreement) *TenancyCreatedEvent {
	return &TenancyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TenancyCreated", "TenancyAgreement", ta.ID),
		TenancyID:       ta.ID,
		PropertyID:      ta.PropertyID,
		LandlordID:      ta.LandlordID,
		TenantName:      ta.TenantName,
		StartDate:       ta.StartDate,
		EndDate:         ta.EndDate,
		RentAmount:      ta.RentAmount.Amount(),
	}
}

// TenancyActivatedEvent is raised when a tenancy becomes active
type TenancyActivatedEvent struct {
	shared.BaseDomainEvent
	TenancyID  uuid.UUID `json:"tenancy_id"`
	PropertyID uuid.UUID `json:"property_id"`
	LandlordID uuid.UUID `json:"landlord_id"`
}

// EventType returns the event type name
func (e *TenancyActivatedEvent) EventType() string {
	return "TenancyActivated"
}

// NewTenancyActivatedEvent creates a new TenancyActivatedEvent
func NewTenancyActivatedEvent(ta *TenancyAgreement) *TenancyActivatedEvent {
	return &TenancyActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TenancyActivated", "TenancyAgreement", ta.ID),
		TenancyID:       ta.ID,
		PropertyID:      ta.PropertyID,
		LandlordID:      ta.LandlordID,
	}
}

// TenancyEndedEvent is raised when a tenancy ends or is terminated early
type TenancyEndedEvent struct {
	shared.BaseDomainEvent
	TenancyID         uuid.UUID  `json:"tenancy_id"`
	PropertyID        uuid.UUID  `json:"property_id"`
	LandlordID        uuid.UUID  `json:"landlord_id"`
	ActualEndDate     *time.Time `json:"actual_end_date,omitempty"`
	TerminationReason string     `json:"termination_reason,omitempty"`
}

// EventType returns the event type name
func (e *TenancyEndedEvent) EventType() string {
	return "TenancyEnded"
}

// NewTenancyEndedEvent creates a new TenancyEndedEvent
func NewTenancyEndedEvent(ta *TenancyAgreement) *TenancyEndedEvent {
	return &TenancyEndedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("TenancyEnded", "TenancyAgreement", ta.ID),
		TenancyID:         ta.ID,
		PropertyID:        ta.PropertyID,
		LandlordID:        ta.LandlordID,
		ActualEndDate:     ta.ActualEndDate,
		TerminationReason: ta.TerminationReason,
	}
}

// TenancyExpiredEvent is raised by the sweep when an active tenancy passes its end date
type TenancyExpiredEvent struct {
	shared.BaseDomainEvent
	TenancyID  uuid.UUID `json:"tenancy_id"`
	PropertyID uuid.UUID `json:"property_id"`
	LandlordID uuid.UUID `json:"landlord_id"`
	EndDate    time.Time `json:"end_date"`
}

// EventType returns the event type name
func (e *TenancyExpiredEvent) EventType() string {
	return "TenancyExpired"
}

// NewTenancyExpiredEvent creates a new TenancyExpiredEvent
func NewTenancyExpiredEvent(ta *TenancyAgreement) *TenancyExpiredEvent {
	return &TenancyExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TenancyExpired", "TenancyAgreement", ta.ID),
		TenancyID:       ta.ID,
		PropertyID:      ta.PropertyID,
		LandlordID:      ta.LandlordID,
		EndDate:         ta.EndDate,
	}
}
