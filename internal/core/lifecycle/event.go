package lifecycle

import (
	"time"

	"github.com/epicevents/crm/internal/core/domain"
)

// EventPatch changes the non-nil fields of an event. Assignment is handled by
// AssignSupport.
type EventPatch struct {
	Name      *string
	Start     *time.Time
	End       *time.Time
	Location  *string
	Attendees *int
	Notes     *string
}

// NewEvent returns the event described by draft under contract. assignee is
// the actor named by draft.SupportContactID, or nil when none is named.
//
// Checks run in a fixed order and the first failure is returned: signed
// contract, date range, attendee count, fields, assignee.
func NewEvent(contract domain.Contract, draft domain.Event, assignee *domain.Actor, now time.Time) (*domain.Event, error) {
	if !contract.Signed {
		return nil, domain.ErrContractNotSigned
	}
	e := draft
	e.ContractID = contract.ID
	if err := checkSchedule(e); err != nil {
		return nil, err
	}
	if err := checkFields(e); err != nil {
		return nil, err
	}
	if e.SupportContactID != "" {
		if assignee == nil || assignee.ID != e.SupportContactID || assignee.Role != domain.RoleSupport {
			return nil, domain.ErrInvalidAssignee
		}
	}
	e.CreatedAt = now
	e.UpdatedAt = now
	return &e, nil
}

// UpdateEvent applies patch to a copy of prior and re-checks the schedule.
// The parent contract is not consulted again.
func UpdateEvent(prior domain.Event, patch EventPatch, now time.Time) (*domain.Event, error) {
	e := prior
	setString(&e.Name, patch.Name)
	setString(&e.Location, patch.Location)
	setString(&e.Notes, patch.Notes)
	if patch.Start != nil {
		e.Start = *patch.Start
	}
	if patch.End != nil {
		e.End = *patch.End
	}
	if patch.Attendees != nil {
		e.Attendees = *patch.Attendees
	}
	if err := checkSchedule(e); err != nil {
		return nil, err
	}
	if err := checkFields(e); err != nil {
		return nil, err
	}
	e.UpdatedAt = now
	return &e, nil
}

// AssignSupport sets or replaces the event's Support contact.
func AssignSupport(prior domain.Event, assignee domain.Actor, now time.Time) (*domain.Event, error) {
	if assignee.ID == "" || assignee.Role != domain.RoleSupport {
		return nil, domain.ErrInvalidAssignee
	}
	e := prior
	e.SupportContactID = assignee.ID
	e.UpdatedAt = now
	return &e, nil
}

func checkSchedule(e domain.Event) error {
	if !e.End.After(e.Start) {
		return domain.ErrInvalidDateRange
	}
	if e.Attendees < 0 {
		return domain.ErrInvalidAttendeeCount
	}
	return nil
}
