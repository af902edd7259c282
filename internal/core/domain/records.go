package domain

import "time"

// ResourceKind names the record types subject to authorization.
type ResourceKind string

const (
	KindActor    ResourceKind = "actor"
	KindAccount  ResourceKind = "account"
	KindContract ResourceKind = "contract"
	KindEvent    ResourceKind = "event"
)

// Account is a customer record owned by a Sales actor.
type Account struct {
	ID             string    `json:"id" bson:"_id"`
	SalesContactID string    `json:"sales_contact_id" bson:"sales_contact_id" validate:"required"`
	FirstName      string    `json:"first_name" bson:"first_name" validate:"required,min=2,max=50"`
	LastName       string    `json:"last_name" bson:"last_name" validate:"required,min=2,max=50"`
	Email          string    `json:"email" bson:"email" validate:"required,email"`
	Phone          string    `json:"phone" bson:"phone" validate:"required,max=20"`
	CompanyName    string    `json:"company_name" bson:"company_name" validate:"required,max=100"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

// ContractState is the signing state of a contract.
type ContractState string

const (
	ContractUnsigned ContractState = "unsigned"
	ContractSigned   ContractState = "signed"
)

// Contract is a sales agreement attached to an account. SalesContactID is
// copied from the account at creation and never changes afterwards, even if
// the account is reassigned.
type Contract struct {
	ID             string    `json:"id" bson:"_id"`
	AccountID      string    `json:"account_id" bson:"account_id"`
	SalesContactID string    `json:"sales_contact_id" bson:"sales_contact_id"`
	Total          Money     `json:"total" bson:"total"`
	Remaining      Money     `json:"remaining" bson:"remaining"`
	Signed         bool      `json:"signed" bson:"signed"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

// State reports the signing state.
func (c Contract) State() ContractState {
	if c.Signed {
		return ContractSigned
	}
	return ContractUnsigned
}

// Paid reports whether nothing remains due.
func (c Contract) Paid() bool {
	return c.Remaining == 0
}

// EventState is the staffing state of an event.
type EventState string

const (
	EventUnassigned EventState = "unassigned"
	EventAssigned   EventState = "assigned"
)

// Event is a scheduled engagement under a signed contract.
type Event struct {
	ID               string    `json:"id" bson:"_id"`
	ContractID       string    `json:"contract_id" bson:"contract_id" validate:"required"`
	SupportContactID string    `json:"support_contact_id,omitempty" bson:"support_contact_id,omitempty"`
	Name             string    `json:"name" bson:"name" validate:"required,min=3,max=100"`
	Start            time.Time `json:"start" bson:"start"`
	End              time.Time `json:"end" bson:"end"`
	Location         string    `json:"location" bson:"location" validate:"required,max=255"`
	Attendees        int       `json:"attendees" bson:"attendees"`
	Notes            string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

// State reports whether a Support actor is assigned.
func (e Event) State() EventState {
	if e.SupportContactID == "" {
		return EventUnassigned
	}
	return EventAssigned
}
