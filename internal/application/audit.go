package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pos-platform/sales-service/internal/domain"
)

// AuditWriter produces append-only activity log entries for every tracked
// mutation. Entries are staged through the caller's transaction context so
// a mutation and its audit record commit together or not at all.
type AuditWriter struct {
	actors     actorDirectory
	activities activityRepository
	now        func() time.Time
}

func NewAuditWriter(actors actorDirectory, activities activityRepository) *AuditWriter {
	return &AuditWriter{
		actors:     actors,
		activities: activities,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// PrepareEntry resolves the actor's display name and computes the field
// diff. It performs a read, so coordinators must call it during the read
// phase of their transaction. Fails with domain.ActorNotFoundError when
// the acting user cannot be resolved, which aborts the enclosing
// transaction: an audit record with an unknown actor is worse than
// rejecting the mutation.
func (w *AuditWriter) PrepareEntry(
	ctx context.Context,
	entity domain.ActivityEntity,
	entityID string,
	action domain.ActivityAction,
	actorID string,
	before, after []domain.FieldSnapshot,
) (*domain.ActivityLogEntry, error) {
	displayName, err := w.actors.GetDisplayName(ctx, actorID)
	if err != nil {
		return nil, err
	}

	return &domain.ActivityLogEntry{
		ID:        uuid.NewString(),
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		ActorID:   actorID,
		ActorName: displayName,
		Changes:   domain.Diff(before, after),
		Date:      w.now(),
	}, nil
}

// Stage persists a prepared entry through the caller's transaction
// context. It does not commit.
func (w *AuditWriter) Stage(ctx context.Context, entry *domain.ActivityLogEntry) error {
	return w.activities.Insert(ctx, entry)
}

// Record prepares and writes an entry immediately, for call sites without
// an enclosing transaction.
func (w *AuditWriter) Record(
	ctx context.Context,
	entity domain.ActivityEntity,
	entityID string,
	action domain.ActivityAction,
	actorID string,
	before, after []domain.FieldSnapshot,
) error {
	entry, err := w.PrepareEntry(ctx, entity, entityID, action, actorID, before, after)
	if err != nil {
		return err
	}
	return w.activities.Insert(ctx, entry)
}
