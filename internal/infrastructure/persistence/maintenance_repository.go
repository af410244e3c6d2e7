package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/maintenance"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRequestRepository implements RequestRepository using GORM
type GormRequestRepository struct {
	db *gorm.DB
}

// NewGormRequestRepository creates a new GormRequestRepository
func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

// FindByID finds a maintenance request by its ID
func (r *GormRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*maintenance.MaintenanceRequest, error) {
	var model models.MaintenanceRequestModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReference finds a maintenance request by its reference
func (r *GormRequestRepository) FindByReference(ctx context.Context, reference string) (*maintenance.MaintenanceRequest, error) {
	var model models.MaintenanceRequestModel
	if err := r.db.WithContext(ctx).
		First(&model, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds maintenance requests with filtering and pagination
func (r *GormRequestRepository) FindAll(ctx context.Context, filter maintenance.RequestFilter) (*shared.Paginated[maintenance.MaintenanceRequest], error) {
	query := r.db.WithContext(ctx).Model(&models.MaintenanceRequestModel{})
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	orderBy := ValidateSortField(filter.OrderBy, MaintenanceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var requestModels []models.MaintenanceRequestModel
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&requestModels).Error; err != nil {
		return nil, err
	}

	requests := make([]maintenance.MaintenanceRequest, len(requestModels))
	for i, model := range requestModels {
		requests[i] = *model.ToDomain()
	}
	result := shared.NewPaginated(requests, total, page, pageSize)
	return &result, nil
}

// FindByProperty finds all requests for a property
func (r *GormRequestRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]maintenance.MaintenanceRequest, error) {
	var requestModels []models.MaintenanceRequestModel
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&requestModels).Error; err != nil {
		return nil, err
	}
	requests := make([]maintenance.MaintenanceRequest, len(requestModels))
	for i, model := range requestModels {
		requests[i] = *model.ToDomain()
	}
	return requests, nil
}

// FindCompletedForLandlordInPeriod finds completed requests for a landlord
// whose completed date falls inside [from, to]
func (r *GormRequestRepository) FindCompletedForLandlordInPeriod(ctx context.Context, landlordID uuid.UUID, from, to time.Time) ([]maintenance.MaintenanceRequest, error) {
	var requestModels []models.MaintenanceRequestModel
	if err := r.db.WithContext(ctx).
		Where("landlord_id = ? AND status = ? AND completed_date >= ? AND completed_date <= ?",
			landlordID, maintenance.RequestStatusCompleted, from, to).
		Order("completed_date ASC").
		Find(&requestModels).Error; err != nil {
		return nil, err
	}
	requests := make([]maintenance.MaintenanceRequest, len(requestModels))
	for i, model := range requestModels {
		requests[i] = *model.ToDomain()
	}
	return requests, nil
}

// Save creates or updates a maintenance request
func (r *GormRequestRepository) Save(ctx context.Context, request *maintenance.MaintenanceRequest) error {
	model := models.MaintenanceRequestModelFromDomain(request)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormRequestRepository) SaveWithLock(ctx context.Context, request *maintenance.MaintenanceRequest) error {
	model := models.MaintenanceRequestModelFromDomain(request)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", request.ID, request.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormRequestRepository) applyFilter(query *gorm.DB, filter maintenance.RequestFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("reference LIKE ? OR title LIKE ? OR contractor_name LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.LandlordID != nil {
		query = query.Where("landlord_id = ?", *filter.LandlordID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Critical != nil && *filter.Critical {
		query = query.Where("priority IN ?", []maintenance.Priority{
			maintenance.PriorityUrgent,
			maintenance.PriorityEmergency,
		})
	}
	return query
}

// Ensure GormRequestRepository implements RequestRepository
var _ maintenance.RequestRepository = (*GormRequestRepository)(nil)
