package authz

import (
	"fmt"
	"strings"

	"github.com/epicevents/crm/internal/core/domain"
)

// Grant is the outcome of the role-level gate for one (role, action) pair.
type Grant int

const (
	// Deny is the zero value so a corrupted entry can never grant access.
	Deny Grant = iota
	AllowGlobal
	AllowOwned
)

func (g Grant) String() string {
	switch g {
	case AllowGlobal:
		return "allow_global"
	case AllowOwned:
		return "allow_owned"
	default:
		return "deny"
	}
}

// Policy maps every action to an explicit grant for every role.
type Policy map[Action]map[domain.Role]Grant

var defaultPolicy = Policy{
	AccountCreate:   {domain.RoleManagement: AllowGlobal, domain.RoleSales: AllowOwned, domain.RoleSupport: Deny},
	AccountUpdate:   {domain.RoleManagement: AllowGlobal, domain.RoleSales: AllowOwned, domain.RoleSupport: Deny},
	AccountReassign: {domain.RoleManagement: AllowGlobal, domain.RoleSales: Deny, domain.RoleSupport: Deny},
	AccountList:     {domain.RoleManagement: AllowGlobal, domain.RoleSales: AllowGlobal, domain.RoleSupport: AllowGlobal},

	ContractCreate:         {domain.RoleManagement: AllowGlobal, domain.RoleSales: AllowOwned, domain.RoleSupport: Deny},
	ContractUpdate:         {domain.RoleManagement: AllowGlobal, domain.RoleSales: AllowOwned, domain.RoleSupport: Deny},
	ContractSign:           {domain.RoleManagement: Deny, domain.RoleSales: AllowOwned, domain.RoleSupport: Deny},
	ContractRecordPayment:  {domain.RoleManagement: AllowGlobal, domain.RoleSales: AllowOwned, domain.RoleSupport: Deny},
	ContractList:           {domain.RoleManagement: AllowGlobal, domain.RoleSales: AllowGlobal, domain.RoleSupport: AllowGlobal},
	ContractFilterUnsigned: {domain.RoleManagement: AllowGlobal, domain.RoleSales: AllowGlobal, domain.RoleSupport: Deny},
	ContractFilterSigned:   {domain.RoleManagement: AllowGlobal, domain.RoleSales: AllowGlobal, domain.RoleSupport: Deny},
	ContractFilterUnpaid:   {domain.RoleManagement: AllowGlobal, domain.RoleSales: AllowGlobal, domain.RoleSupport: Deny},

	EventCreate:           {domain.RoleManagement: AllowGlobal, domain.RoleSales: AllowOwned, domain.RoleSupport: Deny},
	EventUpdate:           {domain.RoleManagement: AllowGlobal, domain.RoleSales: Deny, domain.RoleSupport: AllowOwned},
	EventAssignSupport:    {domain.RoleManagement: AllowGlobal, domain.RoleSales: Deny, domain.RoleSupport: Deny},
	EventListOwn:          {domain.RoleManagement: Deny, domain.RoleSales: Deny, domain.RoleSupport: AllowOwned},
	EventFilterUnassigned: {domain.RoleManagement: AllowGlobal, domain.RoleSales: Deny, domain.RoleSupport: Deny},

	ActorCreate: {domain.RoleManagement: AllowGlobal, domain.RoleSales: Deny, domain.RoleSupport: Deny},
	ActorUpdate: {domain.RoleManagement: AllowGlobal, domain.RoleSales: Deny, domain.RoleSupport: Deny},
	ActorDelete: {domain.RoleManagement: AllowGlobal, domain.RoleSales: Deny, domain.RoleSupport: Deny},
	ActorList:   {domain.RoleManagement: AllowGlobal, domain.RoleSales: Deny, domain.RoleSupport: Deny},
}

// DefaultPolicy returns a copy of the built-in least-privilege table.
func DefaultPolicy() Policy {
	out := make(Policy, len(defaultPolicy))
	for action, row := range defaultPolicy {
		cp := make(map[domain.Role]Grant, len(row))
		for role, g := range row {
			cp[role] = g
		}
		out[action] = cp
	}
	return out
}

// Lookup returns the grant for role and action. ok is false when the table
// has no entry for the pair.
func (p Policy) Lookup(role domain.Role, action Action) (grant Grant, ok bool) {
	row, ok := p[action]
	if !ok {
		return Deny, false
	}
	grant, ok = row[role]
	if !ok {
		return Deny, false
	}
	return grant, true
}

// Validate reports every (role, action) pair of the closed sets that has no
// entry, and every entry naming an unknown action, role or grant.
func (p Policy) Validate() error {
	known := make(map[Action]struct{}, len(p))
	var problems []string
	for _, action := range Actions() {
		known[action] = struct{}{}
		for _, role := range domain.Roles() {
			g, ok := p.Lookup(role, action)
			if !ok {
				problems = append(problems, fmt.Sprintf("%s/%s missing", role, action))
				continue
			}
			if g != Deny && g != AllowGlobal && g != AllowOwned {
				problems = append(problems, fmt.Sprintf("%s/%s has unknown grant %d", role, action, g))
			}
		}
	}
	for action, row := range p {
		if _, ok := known[action]; !ok {
			problems = append(problems, fmt.Sprintf("unknown action %s", action))
		}
		for role := range row {
			if !role.Valid() {
				problems = append(problems, fmt.Sprintf("unknown role %s for %s", role, action))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("authz: incomplete policy: %s", strings.Join(problems, ", "))
	}
	return nil
}
