package persistence

import (
	"context"

	apptenancy "github.com/lettings/backend/internal/application/tenancy"
	"github.com/lettings/backend/internal/domain/portfolio"
	"github.com/lettings/backend/internal/domain/tenancy"
	"gorm.io/gorm"
)

// GormTransactionScope implements the tenancy TransactionScope on GORM
// transactions. The function either commits every repository write it made
// or none of them.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a database transaction, rolling back when fn
// returns an error.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apptenancy.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// TenancyRepo returns the tenancy repository scoped to the current transaction.
func (r *gormTransactionalRepositories) TenancyRepo() tenancy.TenancyRepository {
	return NewGormTenancyRepository(r.tx)
}

// PropertyRepo returns the property repository scoped to the current transaction.
func (r *gormTransactionalRepositories) PropertyRepo() portfolio.PropertyRepository {
	return NewGormPropertyRepository(r.tx)
}

var _ apptenancy.TransactionScope = (*GormTransactionScope)(nil)
var _ apptenancy.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
