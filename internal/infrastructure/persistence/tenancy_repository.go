package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/domain/tenancy"
	"github.com/lettings/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTenancyRepository implements TenancyRepository using GORM
type GormTenancyRepository struct {
	db *gorm.DB
}

// NewGormTenancyRepository creates a new GormTenancyRepository
func NewGormTenancyRepository(db *gorm.DB) *GormTenancyRepository {
	return &GormTenancyRepository{db: db}
}

// FindByID finds a tenancy agreement by its ID
func (r *GormTenancyRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.TenancyAgreement, error) {
	var model models.TenancyAgreementModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds tenancy agreements with filtering and pagination
func (r *GormTenancyRepository) FindAll(ctx context.Context, filter tenancy.TenancyFilter) (*shared.Paginated[tenancy.TenancyAgreement], error) {
	query := r.db.WithContext(ctx).Model(&models.TenancyAgreementModel{})
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	orderBy := ValidateSortField(filter.OrderBy, TenancySortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var agreementModels []models.TenancyAgreementModel
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&agreementModels).Error; err != nil {
		return nil, err
	}

	agreements := make([]tenancy.TenancyAgreement, len(agreementModels))
	for i, model := range agreementModels {
		agreements[i] = *model.ToDomain()
	}
	result := shared.NewPaginated(agreements, total, page, pageSize)
	return &result, nil
}

// FindByProperty finds all tenancy agreements for a property
func (r *GormTenancyRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]tenancy.TenancyAgreement, error) {
	var agreementModels []models.TenancyAgreementModel
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("start_date DESC").
		Find(&agreementModels).Error; err != nil {
		return nil, err
	}
	agreements := make([]tenancy.TenancyAgreement, len(agreementModels))
	for i, model := range agreementModels {
		agreements[i] = *model.ToDomain()
	}
	return agreements, nil
}

// FindNonTerminalByProperty finds the tenancy currently holding the property.
// Returns nil without error when the property has no live tenancy.
func (r *GormTenancyRepository) FindNonTerminalByProperty(ctx context.Context, propertyID uuid.UUID) (*tenancy.TenancyAgreement, error) {
	var model models.TenancyAgreementModel
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND status IN ?", propertyID, []tenancy.TenancyStatus{
			tenancy.TenancyStatusDraft,
			tenancy.TenancyStatusPendingSignature,
			tenancy.TenancyStatusActive,
		}).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindExpiredActive finds active tenancies whose end date has passed
func (r *GormTenancyRepository) FindExpiredActive(ctx context.Context, before time.Time) ([]tenancy.TenancyAgreement, error) {
	var agreementModels []models.TenancyAgreementModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND end_date < ?", tenancy.TenancyStatusActive, before).
		Find(&agreementModels).Error; err != nil {
		return nil, err
	}
	agreements := make([]tenancy.TenancyAgreement, len(agreementModels))
	for i, model := range agreementModels {
		agreements[i] = *model.ToDomain()
	}
	return agreements, nil
}

// Save creates or updates a tenancy agreement
func (r *GormTenancyRepository) Save(ctx context.Context, agreement *tenancy.TenancyAgreement) error {
	model := models.TenancyAgreementModelFromDomain(agreement)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormTenancyRepository) SaveWithLock(ctx context.Context, agreement *tenancy.TenancyAgreement) error {
	model := models.TenancyAgreementModelFromDomain(agreement)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", agreement.ID, agreement.Version-1).
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
func (r *GormTenancyRepository) applyFilter(query *gorm.DB, filter tenancy.TenancyFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("tenant_name LIKE ? OR tenant_email LIKE ?", searchPattern, searchPattern)
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
	if filter.ActiveOn != nil {
		query = query.Where("start_date <= ? AND end_date >= ?", *filter.ActiveOn, *filter.ActiveOn)
	}
	return query
}

// Ensure GormTenancyRepository implements TenancyRepository
var _ tenancy.TenancyRepository = (*GormTenancyRepository)(nil)
