// Package memory keeps records in process memory with the same semantics as
// the MongoDB repositories.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// Store holds every record kind behind one lock. Records are copied on the
// way in and on the way out so callers never share memory with the store.
type Store struct {
	mu sync.RWMutex

	actors    map[string]domain.Actor
	accounts  map[string]domain.Account
	contracts map[string]domain.Contract
	events    map[string]domain.Event
}

func NewStore() *Store {
	return &Store{
		actors:    make(map[string]domain.Actor),
		accounts:  make(map[string]domain.Account),
		contracts: make(map[string]domain.Contract),
		events:    make(map[string]domain.Event),
	}
}

func (s *Store) Actors() *ActorRepository       { return &ActorRepository{s: s} }
func (s *Store) Accounts() *AccountRepository   { return &AccountRepository{s: s} }
func (s *Store) Contracts() *ContractRepository { return &ContractRepository{s: s} }
func (s *Store) Events() *EventRepository       { return &EventRepository{s: s} }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// ActorRepository implements ports.ActorRepository.
type ActorRepository struct{ s *Store }

var _ ports.ActorRepository = (*ActorRepository)(nil)

func (r *ActorRepository) Create(_ context.Context, a *domain.Actor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.actors {
		if strings.EqualFold(existing.Username, a.Username) {
			return domain.ErrActorExists
		}
	}
	if _, ok := r.s.actors[a.ID]; ok {
		return domain.ErrActorExists
	}
	r.s.actors[a.ID] = *a
	return nil
}

func (r *ActorRepository) Get(_ context.Context, id string) (*domain.Actor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.actors[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: domain.KindActor, ID: id}
	}
	return &a, nil
}

func (r *ActorRepository) FindByUsername(_ context.Context, username string) (*domain.Actor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.actors {
		if strings.EqualFold(a.Username, username) {
			return &a, nil
		}
	}
	return nil, &domain.NotFoundError{Kind: domain.KindActor, ID: username}
}

func (r *ActorRepository) Update(_ context.Context, a *domain.Actor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.actors[a.ID]; !ok {
		return &domain.NotFoundError{Kind: domain.KindActor, ID: a.ID}
	}
	r.s.actors[a.ID] = *a
	return nil
}

func (r *ActorRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.actors[id]; !ok {
		return &domain.NotFoundError{Kind: domain.KindActor, ID: id}
	}
	delete(r.s.actors, id)
	return nil
}

func (r *ActorRepository) List(_ context.Context) ([]*domain.Actor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Actor, 0, len(r.s.actors))
	for _, a := range r.s.actors {
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// AccountRepository implements ports.AccountRepository.
type AccountRepository struct{ s *Store }

var _ ports.AccountRepository = (*AccountRepository)(nil)

func (r *AccountRepository) Create(_ context.Context, a *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.accounts[a.ID] = *a
	return nil
}

func (r *AccountRepository) Get(_ context.Context, id string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: domain.KindAccount, ID: id}
	}
	return &a, nil
}

func (r *AccountRepository) Update(_ context.Context, a *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[a.ID]; !ok {
		return &domain.NotFoundError{Kind: domain.KindAccount, ID: a.ID}
	}
	r.s.accounts[a.ID] = *a
	return nil
}

func (r *AccountRepository) List(_ context.Context, f ports.AccountFilter) ([]*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Account, 0)
	for _, a := range r.s.accounts {
		if f.SalesContactID != "" && a.SalesContactID != f.SalesContactID {
			continue
		}
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return before(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

// ContractRepository implements ports.ContractRepository.
type ContractRepository struct{ s *Store }

var _ ports.ContractRepository = (*ContractRepository)(nil)

func (r *ContractRepository) Create(_ context.Context, c *domain.Contract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.contracts[c.ID] = *c
	return nil
}

func (r *ContractRepository) Get(_ context.Context, id string) (*domain.Contract, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.contracts[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: domain.KindContract, ID: id}
	}
	return &c, nil
}

func (r *ContractRepository) Update(_ context.Context, c *domain.Contract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.contracts[c.ID]; !ok {
		return &domain.NotFoundError{Kind: domain.KindContract, ID: c.ID}
	}
	r.s.contracts[c.ID] = *c
	return nil
}

func (r *ContractRepository) List(_ context.Context, f ports.ContractFilter) ([]*domain.Contract, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Contract, 0)
	for _, c := range r.s.contracts {
		switch {
		case f.AccountID != "" && c.AccountID != f.AccountID:
			continue
		case f.SalesContactID != "" && c.SalesContactID != f.SalesContactID:
			continue
		case f.UnsignedOnly && c.Signed:
			continue
		case f.SignedOnly && !c.Signed:
			continue
		case f.UnpaidOnly && c.Remaining <= 0:
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return before(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

// EventRepository implements ports.EventRepository.
type EventRepository struct{ s *Store }

var _ ports.EventRepository = (*EventRepository)(nil)

func (r *EventRepository) Create(_ context.Context, e *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.events[e.ID] = *e
	return nil
}

func (r *EventRepository) Get(_ context.Context, id string) (*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.events[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: domain.KindEvent, ID: id}
	}
	return &e, nil
}

func (r *EventRepository) Update(_ context.Context, e *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[e.ID]; !ok {
		return &domain.NotFoundError{Kind: domain.KindEvent, ID: e.ID}
	}
	r.s.events[e.ID] = *e
	return nil
}

func (r *EventRepository) List(_ context.Context, f ports.EventFilter) ([]*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Event, 0)
	for _, e := range r.s.events {
		switch {
		case f.ContractID != "" && e.ContractID != f.ContractID:
			continue
		case f.SupportContactID != "" && e.SupportContactID != f.SupportContactID:
			continue
		case f.UnassignedOnly && e.SupportContactID != "":
			continue
		}
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return before(out[i].Start, out[i].ID, out[j].Start, out[j].ID) })
	return out, nil
}

func before(ti time.Time, idi string, tj time.Time, idj string) bool {
	if !ti.Equal(tj) {
		return ti.Before(tj)
	}
	return idi < idj
}
