package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pos-platform/sales-service/internal/domain"
)

func TestPrepareEntry_ResolvesActorAndComputesDiff(t *testing.T) {
	env := newTestEnv()

	entry, err := env.audit.PrepareEntry(
		context.Background(),
		domain.ActivityEntityProduct, "p1", domain.ActionUpdate, "actor-2",
		[]domain.FieldSnapshot{{Name: "stock", Value: int64(10)}},
		[]domain.FieldSnapshot{{Name: "stock", Value: int64(7)}},
	)

	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "Bob", entry.ActorName)
	assert.Equal(t, "actor-2", entry.ActorID)
	assert.False(t, entry.Date.IsZero())

	change, ok := entry.Changes.Get("stock")
	require.True(t, ok)
	assert.Equal(t, int64(10), change.Before)
	assert.Equal(t, int64(7), change.After)
}

func TestPrepareEntry_UnknownActor(t *testing.T) {
	env := newTestEnv()

	_, err := env.audit.PrepareEntry(
		context.Background(),
		domain.ActivityEntityProduct, "p1", domain.ActionCreate, "nobody",
		nil, nil,
	)

	var actorErr *domain.ActorNotFoundError
	require.ErrorAs(t, err, &actorErr)
	assert.Equal(t, "nobody", actorErr.ActorID)
}

func TestRecord_WritesImmediately(t *testing.T) {
	env := newTestEnv()

	err := env.audit.Record(
		context.Background(),
		domain.ActivityEntityCustomer, "c1", domain.ActionCreate, "actor-1",
		nil,
		[]domain.FieldSnapshot{{Name: "customerName", Value: "Dewi"}},
	)

	require.NoError(t, err)
	require.Len(t, env.store.activities, 1)
	assert.Equal(t, domain.ActivityEntityCustomer, env.store.activities[0].Entity)
}
