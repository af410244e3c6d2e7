package tenancy

import (
	"context"

	"github.com/lettings/backend/internal/domain/portfolio"
	"github.com/lettings/backend/internal/domain/tenancy"
)

// TransactionScope runs a tenancy-property cascade atomically. Repository
// operations inside the function share one database transaction; an error
// rolls every write back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories scoped to the current
// transaction. A tenancy state transition writes the agreement row and the
// owning property row together, so both repositories are provided.
type TransactionalRepositories interface {
	// TenancyRepo returns the tenancy repository scoped to the current transaction
	TenancyRepo() tenancy.TenancyRepository
	// PropertyRepo returns the property repository scoped to the current transaction
	PropertyRepo() portfolio.PropertyRepository
}
