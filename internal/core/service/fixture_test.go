package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ownership"
	"github.com/epicevents/crm/internal/infrastructure/db/memory"
)

var (
	mgmt     = domain.Principal{ActorID: "m-1", Role: domain.RoleManagement}
	salesA   = domain.Principal{ActorID: "s-a", Role: domain.RoleSales}
	salesB   = domain.Principal{ActorID: "s-b", Role: domain.RoleSales}
	support1 = domain.Principal{ActorID: "sup-1", Role: domain.RoleSupport}
	support2 = domain.Principal{ActorID: "sup-2", Role: domain.RoleSupport}

	fixedNow = time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	store     *memory.Store
	deps      Deps
	accounts  *AccountService
	contracts *ContractService
	events    *eventService
}

// newFixture seeds one actor per principal above into a fresh store.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	for _, p := range []domain.Principal{mgmt, salesA, salesB, support1, support2} {
		a := &domain.Actor{ID: p.ActorID, Username: p.ActorID, Role: p.Role}
		if err := store.Actors().Create(ctx, a); err != nil {
			t.Fatalf("seed actor %s: %v", p.ActorID, err)
		}
	}

	resolver := ownership.NewResolver(store.Accounts(), store.Contracts(), store.Events())
	deps := Deps{
		Actors:     store.Actors(),
		Accounts:   store.Accounts(),
		Contracts:  store.Contracts(),
		Events:     store.Events(),
		Authorizer: NewAuthorizer(authz.Default(), resolver, zerolog.Nop()),
		Now:        func() time.Time { return fixedNow },
	}
	return &fixture{
		store:     store,
		deps:      deps,
		accounts:  NewAccountService(deps, zerolog.Nop()),
		contracts: NewContractService(deps, zerolog.Nop()),
		events:    NewEventService(deps, zerolog.Nop()).(*eventService),
	}
}

func (f *fixture) account(t *testing.T, owner domain.Principal) *domain.Account {
	t.Helper()
	acc, err := f.accounts.CreateAccount(context.Background(), owner, accountInput())
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return acc
}

func (f *fixture) signedContract(t *testing.T, owner domain.Principal, total domain.Money) *domain.Contract {
	t.Helper()
	ctx := context.Background()
	acc := f.account(t, owner)
	c, err := f.contracts.CreateContract(ctx, owner, contractInput(acc.ID, total, total))
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	c, err = f.contracts.SignContract(ctx, owner, c.ID)
	if err != nil {
		t.Fatalf("sign contract: %v", err)
	}
	return c
}
