package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

func TestActorRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Actors()

	require.NoError(t, repo.Create(ctx, &domain.Actor{ID: "a-1", Username: "alice", Role: domain.RoleSales}))
	assert.ErrorIs(t, repo.Create(ctx, &domain.Actor{ID: "a-2", Username: "ALICE"}), domain.ErrActorExists)

	got, err := repo.FindByUsername(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "a-1", got.ID)

	got.Role = domain.RoleSupport
	stored, err := repo.Get(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSales, stored.Role, "returned records must be copies")

	require.NoError(t, repo.Delete(ctx, "a-1"))
	_, err = repo.Get(ctx, "a-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "a-1"), domain.ErrNotFound)
}

func TestContractRepository_Filters(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Contracts()
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, c := range []domain.Contract{
		{ID: "c-1", AccountID: "acc-1", SalesContactID: "s-a", Total: 100, Remaining: 0, Signed: true, CreatedAt: t0},
		{ID: "c-2", AccountID: "acc-1", SalesContactID: "s-a", Total: 100, Remaining: 50, CreatedAt: t0.Add(time.Hour)},
		{ID: "c-3", AccountID: "acc-2", SalesContactID: "s-b", Total: 100, Remaining: 100, Signed: true, CreatedAt: t0.Add(2 * time.Hour)},
	} {
		c := c
		require.NoError(t, repo.Create(ctx, &c))
	}

	ids := func(f ports.ContractFilter) []string {
		list, err := repo.List(ctx, f)
		require.NoError(t, err)
		out := make([]string, 0, len(list))
		for _, c := range list {
			out = append(out, c.ID)
		}
		return out
	}

	assert.Equal(t, []string{"c-1", "c-2", "c-3"}, ids(ports.ContractFilter{}))
	assert.Equal(t, []string{"c-2"}, ids(ports.ContractFilter{UnsignedOnly: true}))
	assert.Equal(t, []string{"c-1", "c-3"}, ids(ports.ContractFilter{SignedOnly: true}))
	assert.Equal(t, []string{"c-3"}, ids(ports.ContractFilter{SignedOnly: true, UnpaidOnly: true}))
	assert.Equal(t, []string{"c-2", "c-3"}, ids(ports.ContractFilter{UnpaidOnly: true}))
	assert.Equal(t, []string{"c-3"}, ids(ports.ContractFilter{SalesContactID: "s-b"}))
	assert.Equal(t, []string{"c-1", "c-2"}, ids(ports.ContractFilter{AccountID: "acc-1"}))
}

func TestEventRepository_Filters(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Events()
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &domain.Event{ID: "e-1", ContractID: "c-1", Start: start}))
	require.NoError(t, repo.Create(ctx, &domain.Event{ID: "e-2", ContractID: "c-1", SupportContactID: "sup-1", Start: start.Add(time.Hour)}))

	unassigned, err := repo.List(ctx, ports.EventFilter{UnassignedOnly: true})
	require.NoError(t, err)
	require.Len(t, unassigned, 1)
	assert.Equal(t, "e-1", unassigned[0].ID)

	mine, err := repo.List(ctx, ports.EventFilter{SupportContactID: "sup-1"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "e-2", mine[0].ID)

	err = repo.Update(ctx, &domain.Event{ID: "missing"})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, domain.KindEvent, nf.Kind)
}
