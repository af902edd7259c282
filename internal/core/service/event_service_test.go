package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

func eventInput(contractID string) ports.CreateEventInput {
	return ports.CreateEventInput{
		ContractID: contractID,
		Name:       "Launch party",
		Start:      time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		End:        time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		Location:   "53 Rue du Château, Candé-sur-Beuvron",
		Attendees:  75,
	}
}

func TestEventService_CreateEvent_RequiresSignedContract(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.account(t, salesA)
	c, _ := f.contracts.CreateContract(ctx, salesA, contractInput(acc.ID, 1000, 1000))

	if _, err := f.events.CreateEvent(ctx, salesA, eventInput(c.ID)); !errors.Is(err, domain.ErrContractNotSigned) {
		t.Fatalf("expected ErrContractNotSigned, got %v", err)
	}
	if _, err := f.contracts.SignContract(ctx, salesA, c.ID); err != nil {
		t.Fatalf("sign: %v", err)
	}
	e, err := f.events.CreateEvent(ctx, salesA, eventInput(c.ID))
	if err != nil {
		t.Fatalf("CreateEvent returned error: %v", err)
	}
	if e.State() != domain.EventUnassigned || e.ContractID != c.ID {
		t.Fatalf("unexpected event: %+v", e)
	}
}

func TestEventService_CreateEvent_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.signedContract(t, salesA, 1000)

	backwards := eventInput(c.ID)
	backwards.End = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	crowd := eventInput(c.ID)
	crowd.Attendees = -1

	toSales := eventInput(c.ID)
	toSales.SupportContactID = salesB.ActorID

	toGhost := eventInput(c.ID)
	toGhost.SupportContactID = "ghost"

	tests := []struct {
		name string
		p    domain.Principal
		in   ports.CreateEventInput
		want error
	}{
		{"end before start", salesA, backwards, domain.ErrInvalidDateRange},
		{"negative attendees", salesA, crowd, domain.ErrInvalidAttendeeCount},
		{"assignee is sales", mgmt, toSales, domain.ErrInvalidAssignee},
		{"assignee unknown", mgmt, toGhost, domain.ErrInvalidAssignee},
		{"foreign contract", salesB, eventInput(c.ID), domain.ErrPermissionDenied},
		{"support cannot create", support1, eventInput(c.ID), domain.ErrPermissionDenied},
		{"missing contract", mgmt, eventInput("missing"), domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.events.CreateEvent(ctx, tt.p, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	list, _ := f.store.Events().List(ctx, ports.EventFilter{})
	if len(list) != 0 {
		t.Fatalf("rejected events must not be stored, found %d", len(list))
	}
}

func TestEventService_AssignAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.signedContract(t, salesA, 1000)
	e, err := f.events.CreateEvent(ctx, salesA, eventInput(c.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	notes := strPtr("Bring a DJ")

	// Nobody but Management reaches an unassigned event.
	if _, err := f.events.UpdateEvent(ctx, support1, ports.UpdateEventInput{ID: e.ID, Notes: notes}); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied before assignment, got %v", err)
	}
	if _, err := f.events.AssignSupport(ctx, salesA, e.ID, support1.ActorID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected sales to be denied assignment, got %v", err)
	}
	if _, err := f.events.AssignSupport(ctx, mgmt, e.ID, salesA.ActorID); !errors.Is(err, domain.ErrInvalidAssignee) {
		t.Fatalf("expected ErrInvalidAssignee, got %v", err)
	}

	if _, err := f.events.AssignSupport(ctx, mgmt, e.ID, support1.ActorID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	updated, err := f.events.UpdateEvent(ctx, support1, ports.UpdateEventInput{ID: e.ID, Notes: notes})
	if err != nil {
		t.Fatalf("assignee update: %v", err)
	}
	if updated.Notes != *notes {
		t.Fatalf("notes not updated: %+v", updated)
	}
	if _, err := f.events.UpdateEvent(ctx, support2, ports.UpdateEventInput{ID: e.ID, Notes: notes}); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected other support to be denied, got %v", err)
	}
	if _, err := f.events.UpdateEvent(ctx, salesA, ports.UpdateEventInput{ID: e.ID, Notes: notes}); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected sales to be denied event updates, got %v", err)
	}

	// Reassignment overwrites the previous assignee.
	if _, err := f.events.AssignSupport(ctx, mgmt, e.ID, support2.ActorID); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if _, err := f.events.UpdateEvent(ctx, support1, ports.UpdateEventInput{ID: e.ID, Notes: notes}); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected previous assignee to lose access, got %v", err)
	}

	early := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	if _, err := f.events.UpdateEvent(ctx, support2, ports.UpdateEventInput{ID: e.ID, End: &early}); !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestEventService_Listings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.signedContract(t, salesA, 1000)

	mine := eventInput(c.ID)
	mine.SupportContactID = support1.ActorID
	if _, err := f.events.CreateEvent(ctx, mgmt, mine); err != nil {
		t.Fatalf("create assigned: %v", err)
	}
	open, err := f.events.CreateEvent(ctx, salesA, eventInput(c.ID))
	if err != nil {
		t.Fatalf("create unassigned: %v", err)
	}

	list, err := f.events.ListMyEvents(ctx, support1)
	if err != nil || len(list) != 1 || list[0].SupportContactID != support1.ActorID {
		t.Fatalf("support1 events: %v, %v", list, err)
	}
	list, err = f.events.ListMyEvents(ctx, support2)
	if err != nil || len(list) != 0 {
		t.Fatalf("support2 events: %v, %v", list, err)
	}
	if _, err := f.events.ListMyEvents(ctx, mgmt); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected management to be denied own-event listing, got %v", err)
	}

	list, err = f.events.ListUnassignedEvents(ctx, mgmt)
	if err != nil || len(list) != 1 || list[0].ID != open.ID {
		t.Fatalf("unassigned: %v, %v", list, err)
	}
	if _, err := f.events.ListUnassignedEvents(ctx, support1); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected support to be denied unassigned listing, got %v", err)
	}
}
