package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// AccountFilter narrows an account listing. Zero values mean no filter.
type AccountFilter struct {
	SalesContactID string
}

// AccountRepository persists customer accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	// Get returns a *domain.NotFoundError when no account has the id.
	Get(ctx context.Context, id string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, error)
}
