package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/lifecycle"
	"github.com/epicevents/crm/internal/core/ports"
)

// AccountService implements customer account use cases.
type AccountService struct {
	deps Deps
	log  zerolog.Logger
}

var _ ports.AccountService = (*AccountService)(nil)

// NewAccountService returns the account use cases over deps.
func NewAccountService(deps Deps, log zerolog.Logger) *AccountService {
	return &AccountService{deps: deps, log: log}
}

// CreateAccount registers a customer. A Sales caller owns the account they
// create and may not name another owner; Management must name a Sales owner.
func (s *AccountService) CreateAccount(ctx context.Context, p domain.Principal, in ports.CreateAccountInput) (*domain.Account, error) {
	scope, err := s.deps.Authorizer.Authorize(ctx, p, authz.AccountCreate, "")
	if err != nil {
		return nil, err
	}

	ownerID := strings.TrimSpace(in.SalesContactID)
	if !scope.IsGlobal() {
		if ownerID == "" {
			ownerID = scope.OwnerID()
		}
		if _, err := s.deps.Authorizer.Allow(p, authz.AccountCreate, &authz.Target{OwnerID: ownerID}); err != nil {
			return nil, err
		}
	}
	if ownerID == "" {
		return nil, rejected(s.log, domain.KindAccount, &domain.ValidationError{Problems: []string{"sales_contact_id is required"}})
	}
	owner, err := s.salesOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	draft := domain.Account{
		ID:          newID(),
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		CompanyName: strings.TrimSpace(in.CompanyName),
	}
	account, err := lifecycle.NewAccount(draft, *owner, s.deps.now())
	if err != nil {
		return nil, rejected(s.log, domain.KindAccount, err)
	}

	if err := s.deps.Accounts.Create(ctx, account); err != nil {
		return nil, saveFailed(s.log, "create account", err)
	}
	mutated(domain.KindAccount, "create")
	s.log.Info().Str("account_id", account.ID).Str("owner", account.SalesContactID).Str("by", p.ActorID).Msg("account created")
	return account, nil
}

// UpdateAccount changes the contact fields of an account in the caller's scope.
func (s *AccountService) UpdateAccount(ctx context.Context, p domain.Principal, in ports.UpdateAccountInput) (*domain.Account, error) {
	prior, err := s.deps.Authorizer.Account(ctx, p, authz.AccountUpdate, in.ID)
	if err != nil {
		return nil, loadFailed(s.log, "update account", err)
	}

	account, err := lifecycle.UpdateAccount(*prior, lifecycle.AccountPatch{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		CompanyName: in.CompanyName,
	}, s.deps.now())
	if err != nil {
		return nil, rejected(s.log, domain.KindAccount, err)
	}

	if err := s.deps.Accounts.Update(ctx, account); err != nil {
		return nil, saveFailed(s.log, "update account", err)
	}
	mutated(domain.KindAccount, "update")
	s.log.Info().Str("account_id", account.ID).Str("by", p.ActorID).Msg("account updated")
	return account, nil
}

// ReassignAccount hands an account to another Sales actor. Existing contracts
// keep their original owner.
func (s *AccountService) ReassignAccount(ctx context.Context, p domain.Principal, accountID, salesContactID string) (*domain.Account, error) {
	prior, err := s.deps.Authorizer.Account(ctx, p, authz.AccountReassign, accountID)
	if err != nil {
		return nil, loadFailed(s.log, "reassign account", err)
	}
	owner, err := s.salesOwner(ctx, salesContactID)
	if err != nil {
		return nil, err
	}

	account, err := lifecycle.Reassign(*prior, *owner, s.deps.now())
	if err != nil {
		return nil, rejected(s.log, domain.KindAccount, err)
	}
	if err := s.deps.Accounts.Update(ctx, account); err != nil {
		return nil, saveFailed(s.log, "reassign account", err)
	}
	mutated(domain.KindAccount, "reassign")
	s.log.Info().
		Str("account_id", account.ID).
		Str("from", prior.SalesContactID).
		Str("to", account.SalesContactID).
		Str("by", p.ActorID).
		Msg("account reassigned")
	return account, nil
}

// ListAccounts returns the accounts in the caller's scope.
func (s *AccountService) ListAccounts(ctx context.Context, p domain.Principal) ([]*domain.Account, error) {
	scope, err := s.deps.Authorizer.Authorize(ctx, p, authz.AccountList, "")
	if err != nil {
		return nil, err
	}
	accounts, err := s.deps.Accounts.List(ctx, ports.AccountFilter{SalesContactID: scope.OwnerID()})
	if err != nil {
		return nil, loadFailed(s.log, "list accounts", err)
	}
	return accounts, nil
}

// salesOwner loads the actor id and requires the Sales role.
func (s *AccountService) salesOwner(ctx context.Context, id string) (*domain.Actor, error) {
	owner, err := s.deps.Actors.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, rejected(s.log, domain.KindAccount, domain.ErrInvalidOwner)
		}
		return nil, loadFailed(s.log, "load owner", err)
	}
	if owner.Role != domain.RoleSales {
		return nil, rejected(s.log, domain.KindAccount, domain.ErrInvalidOwner)
	}
	return owner, nil
}
