package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicevents/crm/internal/core/domain"
)

func draftEvent() domain.Event {
	return domain.Event{
		Name:      "Launch party",
		Start:     time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		Location:  "53 Rue du Château, Candé-sur-Beuvron",
		Attendees: 75,
	}
}

func TestNewEvent_RequiresSignedContract(t *testing.T) {
	c, err := NewContract("c-1", account(), 1000, 1000, now)
	require.NoError(t, err)

	_, err = NewEvent(*c, draftEvent(), nil, now)
	assert.ErrorIs(t, err, domain.ErrContractNotSigned)
	assert.Equal(t, "contract_not_signed", domain.Code(err))

	signed, _ := Sign(*c, now)
	e, err := NewEvent(*signed, draftEvent(), nil, now)
	require.NoError(t, err)
	assert.Equal(t, "c-1", e.ContractID)
	assert.Equal(t, domain.EventUnassigned, e.State())
}

func TestNewEvent_Checks(t *testing.T) {
	signed := domain.Contract{ID: "c-1", Signed: true}
	sup := &domain.Actor{ID: "sup-1", Role: domain.RoleSupport}
	sales := &domain.Actor{ID: "s-a", Role: domain.RoleSales}

	backwards := draftEvent()
	backwards.End = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	equal := draftEvent()
	equal.End = equal.Start

	negative := draftEvent()
	negative.Attendees = -1

	// Date range is reported before the attendee count.
	both := backwards
	both.Attendees = -5

	noName := draftEvent()
	noName.Name = ""

	assigned := draftEvent()
	assigned.SupportContactID = "sup-1"

	toSales := draftEvent()
	toSales.SupportContactID = "s-a"

	tests := []struct {
		name     string
		draft    domain.Event
		assignee *domain.Actor
		want     error
	}{
		{"end before start", backwards, nil, domain.ErrInvalidDateRange},
		{"end equals start", equal, nil, domain.ErrInvalidDateRange},
		{"negative attendees", negative, nil, domain.ErrInvalidAttendeeCount},
		{"first violation wins", both, nil, domain.ErrInvalidDateRange},
		{"missing name", noName, nil, domain.ErrValidation},
		{"assignee missing", assigned, nil, domain.ErrInvalidAssignee},
		{"assignee not support", toSales, sales, domain.ErrInvalidAssignee},
		{"assigned to support", assigned, sup, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEvent(signed, tt.draft, tt.assignee, now)
			if tt.want == nil {
				require.NoError(t, err)
				assert.Equal(t, domain.EventAssigned, e.State())
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, e)
		})
	}
}

func TestNewEvent_ValidationListsFields(t *testing.T) {
	signed := domain.Contract{ID: "c-1", Signed: true}
	d := draftEvent()
	d.Name = "ab"
	d.Location = ""

	_, err := NewEvent(signed, d, nil, now)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []string{
		"name must be at least 3 characters",
		"location is required",
	}, ve.Problems)
}

func TestUpdateEvent(t *testing.T) {
	signed := domain.Contract{ID: "c-1", Signed: true}
	e, err := NewEvent(signed, draftEvent(), nil, now)
	require.NoError(t, err)

	early := e.Start.Add(-time.Hour)
	_, err = UpdateEvent(*e, EventPatch{End: &early}, now)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	neg := -3
	_, err = UpdateEvent(*e, EventPatch{Attendees: &neg}, now)
	assert.ErrorIs(t, err, domain.ErrInvalidAttendeeCount)

	notes := "Bring a DJ"
	later := now.Add(time.Hour)
	updated, err := UpdateEvent(*e, EventPatch{Notes: &notes}, later)
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.Empty(t, e.Notes)
}

func TestAssignSupport(t *testing.T) {
	e := domain.Event{ID: "e-1"}

	first, err := AssignSupport(e, domain.Actor{ID: "sup-1", Role: domain.RoleSupport}, now)
	require.NoError(t, err)
	assert.Equal(t, "sup-1", first.SupportContactID)

	second, err := AssignSupport(*first, domain.Actor{ID: "sup-2", Role: domain.RoleSupport}, now)
	require.NoError(t, err)
	assert.Equal(t, "sup-2", second.SupportContactID)

	_, err = AssignSupport(*first, domain.Actor{ID: "m-1", Role: domain.RoleManagement}, now)
	assert.ErrorIs(t, err, domain.ErrInvalidAssignee)
}
