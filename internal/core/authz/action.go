package authz

import (
	"strings"

	"github.com/epicevents/crm/internal/core/domain"
)

// Action is a closed set of operations, named "<resource>.<verb>".
type Action string

const (
	AccountCreate   Action = "account.create"
	AccountUpdate   Action = "account.update"
	AccountReassign Action = "account.reassign"
	AccountList     Action = "account.list"

	ContractCreate         Action = "contract.create"
	ContractUpdate         Action = "contract.update"
	ContractSign           Action = "contract.sign"
	ContractRecordPayment  Action = "contract.record_payment"
	ContractList           Action = "contract.list"
	ContractFilterUnsigned Action = "contract.filter_unsigned"
	ContractFilterSigned   Action = "contract.filter_signed"
	ContractFilterUnpaid   Action = "contract.filter_unpaid"

	EventCreate           Action = "event.create"
	EventUpdate           Action = "event.update"
	EventAssignSupport    Action = "event.assign_support"
	EventListOwn          Action = "event.list_own"
	EventFilterUnassigned Action = "event.filter_unassigned"

	ActorCreate Action = "actor.create"
	ActorUpdate Action = "actor.update"
	ActorDelete Action = "actor.delete"
	ActorList   Action = "actor.list"
)

// Actions lists every action in a stable order.
func Actions() []Action {
	return []Action{
		AccountCreate, AccountUpdate, AccountReassign, AccountList,
		ContractCreate, ContractUpdate, ContractSign, ContractRecordPayment,
		ContractList, ContractFilterUnsigned, ContractFilterSigned, ContractFilterUnpaid,
		EventCreate, EventUpdate, EventAssignSupport, EventListOwn, EventFilterUnassigned,
		ActorCreate, ActorUpdate, ActorDelete, ActorList,
	}
}

// Kind returns the resource kind the action operates on.
func (a Action) Kind() domain.ResourceKind {
	kind, _, _ := strings.Cut(string(a), ".")
	return domain.ResourceKind(kind)
}
