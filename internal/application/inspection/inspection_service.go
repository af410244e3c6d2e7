package inspection

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/inspection"
	"github.com/lettings/backend/internal/domain/portfolio"
	"github.com/lettings/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InspectionService provides application-level inspection operations
type InspectionService struct {
	inspectionRepo inspection.InspectionRepository
	propertyRepo   portfolio.PropertyRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInspectionService creates a new InspectionService
func NewInspectionService(
	inspectionRepo inspection.InspectionRepository,
	propertyRepo portfolio.PropertyRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *InspectionService {
	return &InspectionService{
		inspectionRepo: inspectionRepo,
		propertyRepo:   propertyRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// InspectionResponse represents an inspection in API responses
type InspectionResponse struct {
	ID            uuid.UUID          `json:"id"`
	Reference     string             `json:"reference"`
	PropertyID    uuid.UUID          `json:"property_id"`
	LandlordID    uuid.UUID          `json:"landlord_id"`
	Type          string             `json:"type"`
	Status        string             `json:"status"`
	InspectorName string             `json:"inspector_name,omitempty"`
	ScheduledDate time.Time          `json:"scheduled_date"`
	ActualDate    *time.Time         `json:"actual_date,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	Issues        []inspection.Issue `json:"issues,omitempty"`
	SuccessorID   *uuid.UUID         `json:"successor_id,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Version       int                `json:"version"`
}

// ScheduleInspectionInput carries the fields for booking an inspection
type ScheduleInspectionInput struct {
	Type          string    `json:"type" binding:"required"`
	InspectorName string    `json:"inspector_name" binding:"omitempty,max=200"`
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
}

// Schedule books an inspection for a property
func (s *InspectionService) Schedule(ctx context.Context, propertyID uuid.UUID, input ScheduleInspectionInput, actorID *uuid.UUID) (*InspectionResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	insp, err := inspection.NewPropertyInspection(
		property.ID, property.LandlordID,
		inspection.InspectionType(input.Type),
		input.InspectorName, input.ScheduledDate,
	)
	if err != nil {
		return nil, err
	}
	if actorID != nil {
		insp.SetCreatedBy(*actorID)
	}

	if err := s.inspectionRepo.Save(ctx, insp); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, insp)

	s.logger.Info("inspection scheduled",
		zap.String("inspection_id", insp.ID.String()),
		zap.String("reference", insp.Reference),
		zap.Time("scheduled_date", insp.ScheduledDate))

	return toInspectionResponse(insp), nil
}

// Confirm records the tenant's confirmation of the appointment
func (s *InspectionService) Confirm(ctx context.Context, id uuid.UUID) (*InspectionResponse, error) {
	return s.transition(ctx, id, func(i *inspection.PropertyInspection) error {
		return i.Confirm()
	})
}

// Start marks the inspector as on site
func (s *InspectionService) Start(ctx context.Context, id uuid.UUID) (*InspectionResponse, error) {
	return s.transition(ctx, id, func(i *inspection.PropertyInspection) error {
		return i.Start()
	})
}

// CompleteInspectionInput carries the completion payload
type CompleteInspectionInput struct {
	ActualDate time.Time          `json:"actual_date" binding:"required"`
	Notes      string             `json:"notes" binding:"omitempty,max=2000"`
	Issues     []inspection.Issue `json:"issues" binding:"omitempty,dive"`
}

// Complete records the visit outcome. Issues flagged action-required travel
// on the completion event; the maintenance follow-up handler opens a request
// for each one.
func (s *InspectionService) Complete(ctx context.Context, id uuid.UUID, input CompleteInspectionInput) (*InspectionResponse, error) {
	return s.transition(ctx, id, func(i *inspection.PropertyInspection) error {
		return i.Complete(input.ActualDate, input.Notes, input.Issues)
	})
}

// RescheduleInput carries the new appointment date
type RescheduleInput struct {
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
}

// Reschedule closes the inspection as RESCHEDULED and books a successor
// visit at the new date, linked back to the original.
func (s *InspectionService) Reschedule(ctx context.Context, id uuid.UUID, input RescheduleInput) (*InspectionResponse, error) {
	insp, err := s.inspectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	successor, err := inspection.NewPropertyInspection(
		insp.PropertyID, insp.LandlordID, insp.Type, insp.InspectorName, input.ScheduledDate,
	)
	if err != nil {
		return nil, err
	}

	if err := insp.Reschedule(successor.ID); err != nil {
		return nil, err
	}

	if err := s.inspectionRepo.Save(ctx, successor); err != nil {
		return nil, err
	}
	if err := s.inspectionRepo.SaveWithLock(ctx, insp); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, successor)
	s.publishEvents(ctx, insp)

	s.logger.Info("inspection rescheduled",
		zap.String("inspection_id", insp.ID.String()),
		zap.String("successor_id", successor.ID.String()))

	return toInspectionResponse(successor), nil
}

// Postpone pauses a pending inspection without a new date
func (s *InspectionService) Postpone(ctx context.Context, id uuid.UUID, reason string) (*InspectionResponse, error) {
	return s.transition(ctx, id, func(i *inspection.PropertyInspection) error {
		return i.Postpone(reason)
	})
}

// Rebook returns a postponed inspection to the diary
func (s *InspectionService) Rebook(ctx context.Context, id uuid.UUID, scheduledDate time.Time) (*InspectionResponse, error) {
	return s.transition(ctx, id, func(i *inspection.PropertyInspection) error {
		return i.Rebook(scheduledDate)
	})
}

// RecordNoAccess closes the visit because the inspector could not get in
func (s *InspectionService) RecordNoAccess(ctx context.Context, id uuid.UUID, attemptedDate time.Time, notes string) (*InspectionResponse, error) {
	return s.transition(ctx, id, func(i *inspection.PropertyInspection) error {
		return i.RecordNoAccess(attemptedDate, notes)
	})
}

// Cancel abandons a pending inspection
func (s *InspectionService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*InspectionResponse, error) {
	return s.transition(ctx, id, func(i *inspection.PropertyInspection) error {
		return i.Cancel(reason)
	})
}

// Get gets an inspection by ID
func (s *InspectionService) Get(ctx context.Context, id uuid.UUID) (*InspectionResponse, error) {
	insp, err := s.inspectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInspectionResponse(insp), nil
}

// List lists inspections with filtering and pagination
func (s *InspectionService) List(ctx context.Context, filter inspection.InspectionFilter) (*shared.Paginated[InspectionResponse], error) {
	page, err := s.inspectionRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]InspectionResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *toInspectionResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

func (s *InspectionService) transition(ctx context.Context, id uuid.UUID, fn func(*inspection.PropertyInspection) error) (*InspectionResponse, error) {
	insp, err := s.inspectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(insp); err != nil {
		return nil, err
	}
	if err := s.inspectionRepo.SaveWithLock(ctx, insp); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, insp)
	return toInspectionResponse(insp), nil
}

func (s *InspectionService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	for _, event := range aggregate.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish domain event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
	aggregate.ClearDomainEvents()
}

func toInspectionResponse(i *inspection.PropertyInspection) *InspectionResponse {
	return &InspectionResponse{
		ID:            i.ID,
		Reference:     i.Reference,
		PropertyID:    i.PropertyID,
		LandlordID:    i.LandlordID,
		Type:          i.Type.String(),
		Status:        i.Status.String(),
		InspectorName: i.InspectorName,
		ScheduledDate: i.ScheduledDate,
		ActualDate:    i.ActualDate,
		Notes:         i.Notes,
		Issues:        i.Issues,
		SuccessorID:   i.SuccessorID,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
		Version:       i.Version,
	}
}
