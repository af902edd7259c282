package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// ContractFilter carries the query parameters for listing contracts.
type ContractFilter struct {
	AccountID      string // optional
	SalesContactID string // optional: scope to one owner
	UnsignedOnly   bool
	SignedOnly     bool
	UnpaidOnly     bool // remaining > 0
}

// ContractRepository persists contracts.
type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	// Get returns a *domain.NotFoundError when no contract has the id.
	Get(ctx context.Context, id string) (*domain.Contract, error)
	Update(ctx context.Context, contract *domain.Contract) error
	List(ctx context.Context, filter ContractFilter) ([]*domain.Contract, error)
}
