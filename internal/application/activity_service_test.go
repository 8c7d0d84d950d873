package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pos-platform/sales-service/internal/domain"
)

func seedActivities(env *testEnv, count int, age time.Duration) {
	now := time.Now().UTC()
	for i := 0; i < count; i++ {
		env.store.activities = append(env.store.activities, domain.ActivityLogEntry{
			ID:     fmt.Sprintf("a-%d-%s", i, age),
			Entity: domain.ActivityEntityTransaction,
			Action: domain.ActionCreate,
			Date:   now.Add(-age),
		})
	}
}

func TestActivityList_NewestFirstWithLimit(t *testing.T) {
	env := newTestEnv()
	seedActivities(env, 5, time.Hour)

	entries, err := env.activitySvc.List(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, env.store.activities[4].ID, entries[0].ID)
}

func TestPurgeExpired_RemovesOnlyEntriesPastRetention(t *testing.T) {
	env := newTestEnv()
	seedActivities(env, 4, domain.ActivityRetention+time.Hour)
	seedActivities(env, 3, time.Hour)

	removed, err := env.activitySvc.PurgeExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), removed)
	assert.Len(t, env.store.activities, 3)
}

func TestPurgeExpired_DrainsBacklogInBatches(t *testing.T) {
	env := newTestEnv()
	seedActivities(env, 2*retentionBatchSize+17, domain.ActivityRetention+time.Hour)

	removed, err := env.activitySvc.PurgeExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2*retentionBatchSize+17), removed)
	assert.Empty(t, env.store.activities)
}

func TestPurgeExpired_NothingToRemove(t *testing.T) {
	env := newTestEnv()
	seedActivities(env, 3, time.Hour)

	removed, err := env.activitySvc.PurgeExpired(context.Background())

	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Len(t, env.store.activities, 3)
}
