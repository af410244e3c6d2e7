package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/payment"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a rent payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.RentPayment, error) {
	var model models.RentPaymentModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds rent payments with filtering and pagination
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter payment.PaymentFilter) (*shared.Paginated[payment.RentPayment], error) {
	query := r.db.WithContext(ctx).Model(&models.RentPaymentModel{})
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	orderBy := ValidateSortField(filter.OrderBy, PaymentSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var paymentModels []models.RentPaymentModel
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]payment.RentPayment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	result := shared.NewPaginated(payments, total, page, pageSize)
	return &result, nil
}

// FindByTenancy finds all payments for a tenancy ordered by sequence number
func (r *GormPaymentRepository) FindByTenancy(ctx context.Context, tenancyID uuid.UUID) ([]payment.RentPayment, error) {
	var paymentModels []models.RentPaymentModel
	if err := r.db.WithContext(ctx).
		Where("tenancy_id = ?", tenancyID).
		Order("sequence_number ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	payments := make([]payment.RentPayment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}

// NextSequenceNumber returns the next sequence number for a tenancy. The
// caller must hold the per-tenancy lock; the unique index on
// (tenancy_id, sequence_number) backstops a missed lock.
func (r *GormPaymentRepository) NextSequenceNumber(ctx context.Context, tenancyID uuid.UUID) (int64, error) {
	var next int64
	if err := r.db.WithContext(ctx).
		Model(&models.RentPaymentModel{}).
		Where("tenancy_id = ?", tenancyID).
		Select("COALESCE(MAX(sequence_number), 0) + 1").
		Scan(&next).Error; err != nil {
		return 0, err
	}
	return next, nil
}

// FindCompletedForLandlordInPeriod finds completed payments for a landlord
// with a payment date inside [from, to]
func (r *GormPaymentRepository) FindCompletedForLandlordInPeriod(ctx context.Context, landlordID uuid.UUID, from, to time.Time) ([]payment.RentPayment, error) {
	var paymentModels []models.RentPaymentModel
	if err := r.db.WithContext(ctx).
		Where("landlord_id = ? AND status = ? AND payment_date >= ? AND payment_date <= ?",
			landlordID, payment.PaymentStatusCompleted, from, to).
		Order("payment_date ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	payments := make([]payment.RentPayment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}

// FindOverduePending finds pending payments whose due date has passed
func (r *GormPaymentRepository) FindOverduePending(ctx context.Context, before time.Time) ([]payment.RentPayment, error) {
	var paymentModels []models.RentPaymentModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", payment.PaymentStatusPending, before).
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	payments := make([]payment.RentPayment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}

// Save creates or updates a rent payment
func (r *GormPaymentRepository) Save(ctx context.Context, rentPayment *payment.RentPayment) error {
	model := models.RentPaymentModelFromDomain(rentPayment)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormPaymentRepository) SaveWithLock(ctx context.Context, rentPayment *payment.RentPayment) error {
	model := models.RentPaymentModelFromDomain(rentPayment)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", rentPayment.ID, rentPayment.Version-1).
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
func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter payment.PaymentFilter) *gorm.DB {
	if filter.TenancyID != nil {
		query = query.Where("tenancy_id = ?", *filter.TenancyID)
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
	if filter.Method != nil {
		query = query.Where("method = ?", *filter.Method)
	}
	if filter.IsLate != nil {
		query = query.Where("is_late = ?", *filter.IsLate)
	}
	if filter.FromDate != nil {
		query = query.Where("payment_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("payment_date <= ?", *filter.ToDate)
	}
	return query
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ payment.PaymentRepository = (*GormPaymentRepository)(nil)
