package tenancy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/application/lock"
	"github.com/lettings/backend/internal/domain/portfolio"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
	"github.com/lettings/backend/internal/domain/tenancy"
	"go.uber.org/zap"
)

// TenancyService owns the tenancy lifecycle. It is the only writer of
// TenancyAgreement.Status and of Property.Status/CurrentTenantID.
// Concurrent create/end calls on the same property are serialized by a
// per-property mutex; the optimistic lock on the property row backstops
// other replicas.
type TenancyService struct {
	tenancyRepo       tenancy.TenancyRepository
	propertyRepo      portfolio.PropertyRepository
	txScope           TransactionScope
	eventPublisher    shared.EventPublisher
	propertyLocks     *lock.KeyedMutex
	signatureRequired bool
	logger            *zap.Logger
}

// TenancyServiceOption is a functional option for configuring TenancyService
type TenancyServiceOption func(*TenancyService)

// WithSignatureStep makes new tenancies start in DRAFT awaiting signature
// instead of activating immediately
func WithSignatureStep() TenancyServiceOption {
	return func(s *TenancyService) {
		s.signatureRequired = true
	}
}

// NewTenancyService creates a new TenancyService
func NewTenancyService(
	tenancyRepo tenancy.TenancyRepository,
	propertyRepo portfolio.PropertyRepository,
	txScope TransactionScope,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
	opts ...TenancyServiceOption,
) *TenancyService {
	s := &TenancyService{
		tenancyRepo:    tenancyRepo,
		propertyRepo:   propertyRepo,
		txScope:        txScope,
		eventPublisher: eventPublisher,
		propertyLocks:  lock.NewKeyedMutex(),
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TenancyResponse represents a tenancy agreement in API responses
type TenancyResponse struct {
	ID                uuid.UUID         `json:"id"`
	PropertyID        uuid.UUID         `json:"property_id"`
	LandlordID        uuid.UUID         `json:"landlord_id"`
	TenantName        string            `json:"tenant_name"`
	TenantEmail       string            `json:"tenant_email,omitempty"`
	Status            string            `json:"status"`
	StartDate         time.Time         `json:"start_date"`
	EndDate           time.Time         `json:"end_date"`
	ActualEndDate     *time.Time        `json:"actual_end_date,omitempty"`
	RentAmount        valueobject.Money `json:"rent_amount"`
	RentFrequency     string            `json:"rent_frequency"`
	RentDueDay        int               `json:"rent_due_day"`
	DepositAmount     valueobject.Money `json:"deposit_amount"`
	DepositScheme     string            `json:"deposit_scheme"`
	TerminationReason string            `json:"termination_reason,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Version           int               `json:"version"`
}

// CreateTenancyInput carries the fields for creating a tenancy agreement
type CreateTenancyInput struct {
	TenantName    string    `json:"tenant_name" binding:"required,max=200"`
	TenantEmail   string    `json:"tenant_email" binding:"omitempty,email"`
	StartDate     time.Time `json:"start_date" binding:"required"`
	EndDate       time.Time `json:"end_date" binding:"required"`
	RentAmount    float64   `json:"rent_amount" binding:"required,gt=0"`
	RentFrequency string    `json:"rent_frequency" binding:"required"`
	RentDueDay    int       `json:"rent_due_day" binding:"required,gte=1,lte=28"`
	DepositAmount float64   `json:"deposit_amount" binding:"gte=0"`
	DepositScheme string    `json:"deposit_scheme" binding:"required"`
}

// Create creates a tenancy for the property. Guard: the property must exist
// and hold no non-terminal tenancy. On success the tenancy activates (or
// stays DRAFT when the signature step is configured), the property moves to
// OCCUPIED and the tenancy becomes its current tenant. Conflict on guard
// violation, with no state changed.
func (s *TenancyService) Create(ctx context.Context, propertyID uuid.UUID, input CreateTenancyInput, actorID *uuid.UUID) (*TenancyResponse, error) {
	s.propertyLocks.Lock(propertyID.String())
	defer s.propertyLocks.Unlock(propertyID.String())

	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	existing, err := s.tenancyRepo.FindNonTerminalByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("CONFLICT", "Property already has a tenancy in a non-terminal status")
	}

	agreement, err := tenancy.NewTenancyAgreement(
		property.ID, property.LandlordID,
		input.TenantName, input.TenantEmail,
		input.StartDate, input.EndDate,
		valueobject.NewMoneyGBPFromFloat(input.RentAmount),
		tenancy.RentFrequency(input.RentFrequency),
		input.RentDueDay,
		valueobject.NewMoneyGBPFromFloat(input.DepositAmount),
		tenancy.DepositScheme(input.DepositScheme),
	)
	if err != nil {
		return nil, err
	}
	if actorID != nil {
		agreement.SetCreatedBy(*actorID)
	}

	if !s.signatureRequired {
		if err := agreement.Activate(); err != nil {
			return nil, err
		}
	}

	if err := property.MarkOccupied(agreement.ID); err != nil {
		return nil, err
	}

	// one transaction for the cascade: the agreement row and the property row
	// commit together or not at all. The optimistic lock on the property row
	// upholds one-active-tenancy across replicas.
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.TenancyRepo().Save(ctx, agreement); err != nil {
			return err
		}
		return repos.PropertyRepo().SaveWithLock(ctx, property)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, agreement)
	s.publishEvents(ctx, property)

	s.logger.Info("tenancy created",
		zap.String("tenancy_id", agreement.ID.String()),
		zap.String("property_id", property.ID.String()),
		zap.String("status", agreement.Status.String()))

	return toTenancyResponse(agreement), nil
}

// EndTenancyInput carries the fields for ending a tenancy
type EndTenancyInput struct {
	EndDate time.Time `json:"end_date" binding:"required"`
	Reason  string    `json:"reason" binding:"omitempty,max=500"`
}

// End closes a non-terminal tenancy and cascades the property back to
// AVAILABLE with its current tenant cleared
func (s *TenancyService) End(ctx context.Context, tenancyID uuid.UUID, input EndTenancyInput) (*TenancyResponse, error) {
	agreement, err := s.tenancyRepo.FindByID(ctx, tenancyID)
	if err != nil {
		return nil, err
	}

	s.propertyLocks.Lock(agreement.PropertyID.String())
	defer s.propertyLocks.Unlock(agreement.PropertyID.String())

	if err := agreement.End(input.EndDate, input.Reason); err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.FindByID(ctx, agreement.PropertyID)
	if err != nil {
		return nil, err
	}
	vacated := false
	if property.IsOccupied() {
		if err := property.MarkVacant(); err != nil {
			return nil, err
		}
		vacated = true
	}

	// the agreement close and the property vacate commit together or not at all
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.TenancyRepo().SaveWithLock(ctx, agreement); err != nil {
			return err
		}
		if vacated {
			return repos.PropertyRepo().SaveWithLock(ctx, property)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, agreement)
	s.publishEvents(ctx, property)

	s.logger.Info("tenancy ended",
		zap.String("tenancy_id", agreement.ID.String()),
		zap.String("property_id", property.ID.String()))

	return toTenancyResponse(agreement), nil
}

// Activate activates a tenancy that was waiting on a signature
func (s *TenancyService) Activate(ctx context.Context, tenancyID uuid.UUID) (*TenancyResponse, error) {
	agreement, err := s.tenancyRepo.FindByID(ctx, tenancyID)
	if err != nil {
		return nil, err
	}
	if err := agreement.Activate(); err != nil {
		return nil, err
	}
	if err := s.tenancyRepo.SaveWithLock(ctx, agreement); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, agreement)
	return toTenancyResponse(agreement), nil
}

// Get gets a tenancy agreement by ID
func (s *TenancyService) Get(ctx context.Context, id uuid.UUID) (*TenancyResponse, error) {
	agreement, err := s.tenancyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTenancyResponse(agreement), nil
}

// List lists tenancy agreements with filtering and pagination
func (s *TenancyService) List(ctx context.Context, filter tenancy.TenancyFilter) (*shared.Paginated[TenancyResponse], error) {
	page, err := s.tenancyRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]TenancyResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *toTenancyResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// MarkExpired transitions active tenancies whose end date has passed.
// Called by the scheduled sweep; the property stays occupied until the
// tenancy is explicitly ended. Returns the number of tenancies expired.
func (s *TenancyService) MarkExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.tenancyRepo.FindExpiredActive(ctx, now)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range expired {
		agreement := &expired[i]
		if err := agreement.MarkExpired(now); err != nil {
			continue
		}
		if err := s.tenancyRepo.SaveWithLock(ctx, agreement); err != nil {
			s.logger.Warn("failed to persist tenancy expiry",
				zap.String("tenancy_id", agreement.ID.String()), zap.Error(err))
			continue
		}
		s.publishEvents(ctx, agreement)
		count++
	}

	if count > 0 {
		s.logger.Info("tenancies expired by sweep", zap.Int("count", count))
	}
	return count, nil
}

func (s *TenancyService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	for _, event := range aggregate.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish domain event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
	aggregate.ClearDomainEvents()
}

func toTenancyResponse(ta *tenancy.TenancyAgreement) *TenancyResponse {
	return &TenancyResponse{
		ID:                ta.ID,
		PropertyID:        ta.PropertyID,
		LandlordID:        ta.LandlordID,
		TenantName:        ta.TenantName,
		TenantEmail:       ta.TenantEmail,
		Status:            ta.Status.String(),
		StartDate:         ta.StartDate,
		EndDate:           ta.EndDate,
		ActualEndDate:     ta.ActualEndDate,
		RentAmount:        ta.RentAmount,
		RentFrequency:     ta.RentFrequency.String(),
		RentDueDay:        ta.RentDueDay,
		DepositAmount:     ta.DepositAmount,
		DepositScheme:     string(ta.DepositScheme),
		TerminationReason: ta.TerminationReason,
		CreatedAt:         ta.CreatedAt,
		UpdatedAt:         ta.UpdatedAt,
		Version:           ta.Version,
	}
}
