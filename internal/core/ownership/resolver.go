// Package ownership answers who owns a record, so that authorization never
// depends on how records are stored.
package ownership

import (
	"context"
	"fmt"

	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// OwnerOfAccount returns the account's current Sales contact.
func OwnerOfAccount(a domain.Account) authz.Target {
	return authz.Target{OwnerID: a.SalesContactID}
}

// OwnerOfContract returns the Sales contact frozen on the contract at
// creation, which may differ from the account's current owner.
func OwnerOfContract(c domain.Contract) authz.Target {
	return authz.Target{OwnerID: c.SalesContactID}
}

// AssigneeOfEvent returns the event's Support contact. The target is
// unowned while the event is unassigned.
func AssigneeOfEvent(e domain.Event) authz.Target {
	return authz.Target{OwnerID: e.SupportContactID}
}

// Resolver loads records and projects their ownership. Missing records
// surface as *domain.NotFoundError before any authorization takes place.
type Resolver struct {
	accounts  ports.AccountRepository
	contracts ports.ContractRepository
	events    ports.EventRepository
}

func NewResolver(accounts ports.AccountRepository, contracts ports.ContractRepository, events ports.EventRepository) *Resolver {
	return &Resolver{accounts: accounts, contracts: contracts, events: events}
}

// Account loads the account and its ownership target.
func (r *Resolver) Account(ctx context.Context, id string) (*domain.Account, authz.Target, error) {
	a, err := r.accounts.Get(ctx, id)
	if err != nil {
		return nil, authz.Target{}, fmt.Errorf("resolve account: %w", err)
	}
	return a, OwnerOfAccount(*a), nil
}

// Contract loads the contract and its ownership target.
func (r *Resolver) Contract(ctx context.Context, id string) (*domain.Contract, authz.Target, error) {
	c, err := r.contracts.Get(ctx, id)
	if err != nil {
		return nil, authz.Target{}, fmt.Errorf("resolve contract: %w", err)
	}
	return c, OwnerOfContract(*c), nil
}

// Event loads the event and its assignee target.
func (r *Resolver) Event(ctx context.Context, id string) (*domain.Event, authz.Target, error) {
	e, err := r.events.Get(ctx, id)
	if err != nil {
		return nil, authz.Target{}, fmt.Errorf("resolve event: %w", err)
	}
	return e, AssigneeOfEvent(*e), nil
}
