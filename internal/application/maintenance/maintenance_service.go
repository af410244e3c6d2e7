package maintenance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/maintenance"
	"github.com/lettings/backend/internal/domain/portfolio"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// MaintenanceService provides application-level maintenance request operations
type MaintenanceService struct {
	requestRepo    maintenance.RequestRepository
	propertyRepo   portfolio.PropertyRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewMaintenanceService creates a new MaintenanceService
func NewMaintenanceService(
	requestRepo maintenance.RequestRepository,
	propertyRepo portfolio.PropertyRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		requestRepo:    requestRepo,
		propertyRepo:   propertyRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// RequestResponse represents a maintenance request in API responses
type RequestResponse struct {
	ID              uuid.UUID          `json:"id"`
	Reference       string             `json:"reference"`
	PropertyID      uuid.UUID          `json:"property_id"`
	LandlordID      uuid.UUID          `json:"landlord_id"`
	InspectionID    *uuid.UUID         `json:"inspection_id,omitempty"`
	Title           string             `json:"title"`
	Description     string             `json:"description,omitempty"`
	Category        string             `json:"category"`
	Priority        string             `json:"priority"`
	IsCritical      bool               `json:"is_critical"`
	Status          string             `json:"status"`
	ContractorName  string             `json:"contractor_name,omitempty"`
	EstimatedCost   *valueobject.Money `json:"estimated_cost,omitempty"`
	ActualCost      *valueobject.Money `json:"actual_cost,omitempty"`
	ScheduledDate   *time.Time         `json:"scheduled_date,omitempty"`
	CompletedDate   *time.Time         `json:"completed_date,omitempty"`
	CompletionNotes string             `json:"completion_notes,omitempty"`
	HoldReason      string             `json:"hold_reason,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Version         int                `json:"version"`
}

// CreateRequestInput carries the fields for submitting a maintenance request
type CreateRequestInput struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Category    string `json:"category" binding:"required"`
	Priority    string `json:"priority" binding:"required"`
}

// Create submits a maintenance request for a property
func (s *MaintenanceService) Create(ctx context.Context, propertyID uuid.UUID, input CreateRequestInput, actorID *uuid.UUID) (*RequestResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	request, err := maintenance.NewMaintenanceRequest(
		property.ID, property.LandlordID,
		input.Title, input.Description,
		maintenance.Category(input.Category),
		maintenance.Priority(input.Priority),
	)
	if err != nil {
		return nil, err
	}
	if actorID != nil {
		request.SetCreatedBy(*actorID)
	}

	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, request)

	s.logger.Info("maintenance request submitted",
		zap.String("request_id", request.ID.String()),
		zap.String("reference", request.Reference),
		zap.String("priority", request.Priority.String()),
		zap.Bool("is_critical", request.Priority.IsCritical()))

	return toRequestResponse(request), nil
}

// Acknowledge confirms receipt of a submitted request
func (s *MaintenanceService) Acknowledge(ctx context.Context, id uuid.UUID) (*RequestResponse, error) {
	return s.transition(ctx, id, func(r *maintenance.MaintenanceRequest) error {
		return r.Acknowledge()
	})
}

// AssignInput carries the fields for assigning a contractor
type AssignInput struct {
	ContractorName string     `json:"contractor_name" binding:"required,max=200"`
	EstimatedCost  *float64   `json:"estimated_cost" binding:"omitempty,gte=0"`
	ScheduledDate  *time.Time `json:"scheduled_date"`
}

// Assign allocates a contractor with an optional estimate and schedule
func (s *MaintenanceService) Assign(ctx context.Context, id uuid.UUID, input AssignInput) (*RequestResponse, error) {
	var estimate *valueobject.Money
	if input.EstimatedCost != nil {
		m := valueobject.NewMoneyGBPFromFloat(*input.EstimatedCost)
		estimate = &m
	}
	return s.transition(ctx, id, func(r *maintenance.MaintenanceRequest) error {
		return r.Assign(input.ContractorName, estimate, input.ScheduledDate)
	})
}

// Start marks work as underway
func (s *MaintenanceService) Start(ctx context.Context, id uuid.UUID) (*RequestResponse, error) {
	return s.transition(ctx, id, func(r *maintenance.MaintenanceRequest) error {
		return r.Start()
	})
}

// CompleteRequestInput carries the fields for completing a request
type CompleteRequestInput struct {
	ActualCost    *float64  `json:"actual_cost" binding:"omitempty,gte=0"`
	CompletedDate time.Time `json:"completed_date" binding:"required"`
	Notes         string    `json:"notes" binding:"omitempty,max=2000"`
}

// Complete finishes the work. Actual cost is mandatory when an estimate was
// recorded.
func (s *MaintenanceService) Complete(ctx context.Context, id uuid.UUID, input CompleteRequestInput) (*RequestResponse, error) {
	var actual *valueobject.Money
	if input.ActualCost != nil {
		m := valueobject.NewMoneyGBPFromFloat(*input.ActualCost)
		actual = &m
	}
	return s.transition(ctx, id, func(r *maintenance.MaintenanceRequest) error {
		return r.Complete(actual, input.CompletedDate, input.Notes)
	})
}

// Hold pauses a request
func (s *MaintenanceService) Hold(ctx context.Context, id uuid.UUID, reason string) (*RequestResponse, error) {
	return s.transition(ctx, id, func(r *maintenance.MaintenanceRequest) error {
		return r.Hold(reason)
	})
}

// Resume lifts a hold
func (s *MaintenanceService) Resume(ctx context.Context, id uuid.UUID) (*RequestResponse, error) {
	return s.transition(ctx, id, func(r *maintenance.MaintenanceRequest) error {
		return r.Resume()
	})
}

// Cancel abandons a request
func (s *MaintenanceService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*RequestResponse, error) {
	return s.transition(ctx, id, func(r *maintenance.MaintenanceRequest) error {
		return r.Cancel(reason)
	})
}

// Get gets a maintenance request by ID
func (s *MaintenanceService) Get(ctx context.Context, id uuid.UUID) (*RequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRequestResponse(request), nil
}

// List lists maintenance requests with filtering and pagination
func (s *MaintenanceService) List(ctx context.Context, filter maintenance.RequestFilter) (*shared.Paginated[RequestResponse], error) {
	page, err := s.requestRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]RequestResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *toRequestResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

func (s *MaintenanceService) transition(ctx context.Context, id uuid.UUID, fn func(*maintenance.MaintenanceRequest) error) (*RequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(request); err != nil {
		return nil, err
	}
	if err := s.requestRepo.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, request)
	return toRequestResponse(request), nil
}

func (s *MaintenanceService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	for _, event := range aggregate.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish domain event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
	aggregate.ClearDomainEvents()
}

func toRequestResponse(r *maintenance.MaintenanceRequest) *RequestResponse {
	return &RequestResponse{
		ID:              r.ID,
		Reference:       r.Reference,
		PropertyID:      r.PropertyID,
		LandlordID:      r.LandlordID,
		InspectionID:    r.InspectionID,
		Title:           r.Title,
		Description:     r.Description,
		Category:        string(r.Category),
		Priority:        r.Priority.String(),
		IsCritical:      r.Priority.IsCritical(),
		Status:          r.Status.String(),
		ContractorName:  r.ContractorName,
		EstimatedCost:   r.EstimatedCost,
		ActualCost:      r.ActualCost,
		ScheduledDate:   r.ScheduledDate,
		CompletedDate:   r.CompletedDate,
		CompletionNotes: r.CompletionNotes,
		HoldReason:      r.HoldReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Version:         r.Version,
	}
}
