package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ownership"
	"github.com/epicevents/crm/internal/metrics"
)

// Authorizer runs the policy engine for a verified principal, recording every
// decision. It is the only place decisions are logged.
type Authorizer struct {
	engine   *authz.Engine
	resolver *ownership.Resolver
	log      zerolog.Logger
}

// NewAuthorizer returns an Authorizer. A nil engine uses the built-in policy.
func NewAuthorizer(engine *authz.Engine, resolver *ownership.Resolver, log zerolog.Logger) *Authorizer {
	if engine == nil {
		engine = authz.Default()
	}
	return &Authorizer{engine: engine, resolver: resolver, log: log}
}

// Allow decides action against an already resolved target. target is nil for
// actions that do not touch an existing record.
func (a *Authorizer) Allow(p domain.Principal, action authz.Action, target *authz.Target) (authz.Scope, error) {
	scope, err := a.engine.Decide(p, action, target)
	if err != nil {
		metrics.AuthzDecisionsTotal.WithLabelValues(string(action), string(p.Role), "deny").Inc()
		var denied *domain.PermissionDeniedError
		if errors.As(err, &denied) {
			a.log.Warn().
				Str("actor_id", p.ActorID).
				Str("role", string(p.Role)).
				Str("action", string(action)).
				Str("required_scope", denied.RequiredScope).
				Msg("permission denied")
		}
		return authz.Scope{}, err
	}
	metrics.AuthzDecisionsTotal.WithLabelValues(string(action), string(p.Role), "allow").Inc()
	return scope, nil
}

// Authorize resolves the owner of the record id of the action's resource
// kind, then decides. An empty id authorizes the action without a target.
// A missing record is reported as *domain.NotFoundError before any decision.
func (a *Authorizer) Authorize(ctx context.Context, p domain.Principal, action authz.Action, id string) (authz.Scope, error) {
	if id == "" {
		return a.Allow(p, action, nil)
	}

	var (
		target authz.Target
		err    error
	)
	switch action.Kind() {
	case domain.KindAccount:
		_, target, err = a.resolver.Account(ctx, id)
	case domain.KindContract:
		_, target, err = a.resolver.Contract(ctx, id)
	case domain.KindEvent:
		_, target, err = a.resolver.Event(ctx, id)
	default:
		return a.Allow(p, action, nil)
	}
	if err != nil {
		return authz.Scope{}, err
	}
	return a.Allow(p, action, &target)
}

// Account loads the account and authorizes action against its owner.
func (a *Authorizer) Account(ctx context.Context, p domain.Principal, action authz.Action, id string) (*domain.Account, error) {
	account, target, err := a.resolver.Account(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := a.Allow(p, action, &target); err != nil {
		return nil, err
	}
	return account, nil
}

// Contract loads the contract and authorizes action against its frozen owner.
func (a *Authorizer) Contract(ctx context.Context, p domain.Principal, action authz.Action, id string) (*domain.Contract, error) {
	contract, target, err := a.resolver.Contract(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := a.Allow(p, action, &target); err != nil {
		return nil, err
	}
	return contract, nil
}

// Event loads the event and authorizes action against its assignee.
func (a *Authorizer) Event(ctx context.Context, p domain.Principal, action authz.Action, id string) (*domain.Event, error) {
	event, target, err := a.resolver.Event(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := a.Allow(p, action, &target); err != nil {
		return nil, err
	}
	return event, nil
}
