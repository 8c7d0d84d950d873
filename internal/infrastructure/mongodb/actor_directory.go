package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pos-platform/sales-service/internal/domain"
	"github.com/pos-platform/sales-service/pkg/metrics"
	"github.com/pos-platform/sales-service/pkg/mongodb"
)

// ActorDirectory resolves acting users from the users collection for the
// audit trail.
type ActorDirectory struct {
	collection *mongo.Collection
	metrics    *metrics.Metrics
}

func NewActorDirectory(client *mongodb.Client, m *metrics.Metrics) *ActorDirectory {
	return &ActorDirectory{
		collection: client.Collection(CollectionUsers),
		metrics:    m,
	}
}

func (d *ActorDirectory) GetDisplayName(ctx context.Context, actorID string) (string, error) {
	start := time.Now()
	var user domain.User
	err := d.collection.FindOne(ctx, bson.M{"_id": actorID}).Decode(&user)
	observe(d.metrics, CollectionUsers, "findOne", start, err)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", &domain.ActorNotFoundError{ActorID: actorID}
	}
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	return user.DisplayName, nil
}
