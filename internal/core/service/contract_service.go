package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/lifecycle"
	"github.com/epicevents/crm/internal/core/ports"
)

// ContractService implements contract use cases.
type ContractService struct {
	deps Deps
	log  zerolog.Logger
}

var _ ports.ContractService = (*ContractService)(nil)

// NewContractService returns the contract use cases over deps.
func NewContractService(deps Deps, log zerolog.Logger) *ContractService {
	return &ContractService{deps: deps, log: log}
}

// CreateContract opens an unsigned contract under an account in the caller's
// scope. The contract is owned by the account's owner at this moment.
func (s *ContractService) CreateContract(ctx context.Context, p domain.Principal, in ports.CreateContractInput) (*domain.Contract, error) {
	account, err := s.deps.Authorizer.Account(ctx, p, authz.ContractCreate, in.AccountID)
	if err != nil {
		return nil, loadFailed(s.log, "create contract", err)
	}

	contract, err := lifecycle.NewContract(newID(), *account, in.Total, in.Remaining, s.deps.now())
	if err != nil {
		return nil, rejected(s.log, domain.KindContract, err)
	}
	if err := s.deps.Contracts.Create(ctx, contract); err != nil {
		return nil, saveFailed(s.log, "create contract", err)
	}
	mutated(domain.KindContract, "create")
	s.log.Info().
		Str("contract_id", contract.ID).
		Str("account_id", contract.AccountID).
		Str("total", contract.Total.String()).
		Str("by", p.ActorID).
		Msg("contract created")
	return contract, nil
}

// UpdateContract changes the amounts of a contract. Signed contracts stay
// signed.
func (s *ContractService) UpdateContract(ctx context.Context, p domain.Principal, in ports.UpdateContractInput) (*domain.Contract, error) {
	prior, err := s.authorized(ctx, p, authz.ContractUpdate, in.ID)
	if err != nil {
		return nil, err
	}
	contract, err := lifecycle.UpdateContract(*prior, lifecycle.ContractPatch{
		Total:     in.Total,
		Remaining: in.Remaining,
	}, s.deps.now())
	if err != nil {
		return nil, rejected(s.log, domain.KindContract, err)
	}
	if err := s.deps.Contracts.Update(ctx, contract); err != nil {
		return nil, saveFailed(s.log, "update contract", err)
	}
	mutated(domain.KindContract, "update")
	s.log.Info().Str("contract_id", contract.ID).Bool("signed", contract.Signed).Str("by", p.ActorID).Msg("contract updated")
	return contract, nil
}

// SignContract marks a contract signed. Signing twice is a successful no-op.
func (s *ContractService) SignContract(ctx context.Context, p domain.Principal, id string) (*domain.Contract, error) {
	prior, err := s.authorized(ctx, p, authz.ContractSign, id)
	if err != nil {
		return nil, err
	}
	contract, changed := lifecycle.Sign(*prior, s.deps.now())
	if !changed {
		s.log.Debug().Str("contract_id", id).Msg("contract already signed")
		return contract, nil
	}
	if err := s.deps.Contracts.Update(ctx, contract); err != nil {
		return nil, saveFailed(s.log, "sign contract", err)
	}
	mutated(domain.KindContract, "sign")
	s.log.Info().Str("contract_id", id).Str("by", p.ActorID).Msg("contract signed")
	return contract, nil
}

// RecordPayment deducts amount from the remaining balance.
func (s *ContractService) RecordPayment(ctx context.Context, p domain.Principal, id string, amount domain.Money) (*domain.Contract, error) {
	prior, err := s.authorized(ctx, p, authz.ContractRecordPayment, id)
	if err != nil {
		return nil, err
	}
	contract, err := lifecycle.RecordPayment(*prior, amount, s.deps.now())
	if err != nil {
		return nil, rejected(s.log, domain.KindContract, err)
	}
	if amount == 0 {
		return contract, nil
	}
	if err := s.deps.Contracts.Update(ctx, contract); err != nil {
		return nil, saveFailed(s.log, "record payment", err)
	}
	mutated(domain.KindContract, "payment")
	s.log.Info().
		Str("contract_id", id).
		Str("amount", amount.String()).
		Str("remaining", contract.Remaining.String()).
		Str("by", p.ActorID).
		Msg("payment recorded")
	return contract, nil
}

// ListContracts returns every contract visible to the caller.
func (s *ContractService) ListContracts(ctx context.Context, p domain.Principal) ([]*domain.Contract, error) {
	return s.list(ctx, p, authz.ContractList, ports.ContractFilter{})
}

// ListUnsignedContracts returns contracts still awaiting a signature.
func (s *ContractService) ListUnsignedContracts(ctx context.Context, p domain.Principal) ([]*domain.Contract, error) {
	return s.list(ctx, p, authz.ContractFilterUnsigned, ports.ContractFilter{UnsignedOnly: true})
}

// ListSignedContracts returns contracts that have been signed.
func (s *ContractService) ListSignedContracts(ctx context.Context, p domain.Principal) ([]*domain.Contract, error) {
	return s.list(ctx, p, authz.ContractFilterSigned, ports.ContractFilter{SignedOnly: true})
}

// ListUnpaidContracts returns contracts with an amount still due.
func (s *ContractService) ListUnpaidContracts(ctx context.Context, p domain.Principal) ([]*domain.Contract, error) {
	return s.list(ctx, p, authz.ContractFilterUnpaid, ports.ContractFilter{UnpaidOnly: true})
}

func (s *ContractService) list(ctx context.Context, p domain.Principal, action authz.Action, filter ports.ContractFilter) ([]*domain.Contract, error) {
	scope, err := s.deps.Authorizer.Authorize(ctx, p, action, "")
	if err != nil {
		return nil, err
	}
	filter.SalesContactID = scope.OwnerID()
	contracts, err := s.deps.Contracts.List(ctx, filter)
	if err != nil {
		return nil, loadFailed(s.log, "list contracts", err)
	}
	return contracts, nil
}

// authorized loads the contract and checks action against its frozen owner.
func (s *ContractService) authorized(ctx context.Context, p domain.Principal, action authz.Action, id string) (*domain.Contract, error) {
	contract, err := s.deps.Authorizer.Contract(ctx, p, action, id)
	if err != nil {
		return nil, loadFailed(s.log, string(action), err)
	}
	return contract, nil
}
