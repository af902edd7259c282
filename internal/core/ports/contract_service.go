package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// CreateContractInput carries the terms of a new contract.
type CreateContractInput struct {
	AccountID string
	Total     domain.Money
	Remaining domain.Money
}

// UpdateContractInput changes the non-nil terms of a contract.
type UpdateContractInput struct {
	ID        string
	Total     *domain.Money
	Remaining *domain.Money
}

// ContractService defines use-case operations for contracts.
type ContractService interface {
	CreateContract(ctx context.Context, p domain.Principal, in CreateContractInput) (*domain.Contract, error)
	UpdateContract(ctx context.Context, p domain.Principal, in UpdateContractInput) (*domain.Contract, error)
	SignContract(ctx context.Context, p domain.Principal, id string) (*domain.Contract, error)
	RecordPayment(ctx context.Context, p domain.Principal, id string, amount domain.Money) (*domain.Contract, error)
	ListContracts(ctx context.Context, p domain.Principal) ([]*domain.Contract, error)
	ListUnsignedContracts(ctx context.Context, p domain.Principal) ([]*domain.Contract, error)
	ListSignedContracts(ctx context.Context, p domain.Principal) ([]*domain.Contract, error)
	ListUnpaidContracts(ctx context.Context, p domain.Principal) ([]*domain.Contract, error)
}
