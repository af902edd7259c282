// Package authz decides whether a principal may perform an action, and at
// what scope. Decisions are pure: the caller resolves ownership beforehand
// and passes it in.
package authz

import (
	"github.com/epicevents/crm/internal/core/domain"
)

// Scope is the reach of an allowed decision. The zero value is Global.
type Scope struct {
	owner string
}

// Global returns a scope covering every record.
func Global() Scope { return Scope{} }

// Owned returns a scope restricted to records owned or assigned to actorID.
func Owned(actorID string) Scope { return Scope{owner: actorID} }

// IsGlobal reports whether the scope is unrestricted.
func (s Scope) IsGlobal() bool { return s.owner == "" }

// OwnerID returns the actor the scope is restricted to, or "" for Global.
func (s Scope) OwnerID() string { return s.owner }

// Permits reports whether a record with the given owner falls in scope.
// Unowned records are only reachable through Global scope.
func (s Scope) Permits(ownerID string) bool {
	if s.IsGlobal() {
		return true
	}
	return ownerID != "" && ownerID == s.owner
}

func (s Scope) String() string {
	if s.IsGlobal() {
		return "global"
	}
	return "owned"
}

// Target is the resolved ownership of the record an action touches.
// OwnerID is the Sales contact for accounts and contracts and the Support
// contact for events; it is empty for an unassigned event.
type Target struct {
	OwnerID string
}

// Engine evaluates a complete Policy.
type Engine struct {
	policy Policy
}

// NewEngine returns an Engine over policy, refusing tables that leave any
// (role, action) pair undefined.
func NewEngine(policy Policy) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Engine{policy: policy}, nil
}

var std = &Engine{policy: defaultPolicy}

// Default returns the Engine backed by the built-in policy.
func Default() *Engine { return std }

// Decide returns the scope at which p may perform action. target is nil for
// actions that do not touch an existing record (list, filter, create).
// Refusals are *domain.PermissionDeniedError.
func (e *Engine) Decide(p domain.Principal, action Action, target *Target) (Scope, error) {
	if !p.Role.Valid() {
		return Scope{}, denied(action, "none")
	}
	grant, _ := e.policy.Lookup(p.Role, action)

	switch grant {
	case AllowGlobal:
		return Global(), nil
	case AllowOwned:
		if p.ActorID == "" {
			return Scope{}, denied(action, "owned")
		}
		scope := Owned(p.ActorID)
		if target != nil && !scope.Permits(target.OwnerID) {
			return Scope{}, denied(action, "owned")
		}
		return scope, nil
	default:
		return Scope{}, denied(action, "none")
	}
}

func denied(action Action, required string) error {
	return &domain.PermissionDeniedError{
		Action:        string(action),
		ResourceKind:  action.Kind(),
		RequiredScope: required,
	}
}
