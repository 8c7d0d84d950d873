package domain

import "time"

// ActivityEntity identifies the kind of record an activity entry tracks.
type ActivityEntity string

const (
	ActivityEntityProduct     ActivityEntity = "product"
	ActivityEntityTransaction ActivityEntity = "transaction"
	ActivityEntityCustomer    ActivityEntity = "customer"
)

// ActivityAction identifies the mutation recorded by an activity entry.
type ActivityAction string

const (
	ActionCreate ActivityAction = "CREATE"
	ActionUpdate ActivityAction = "UPDATE"
	ActionDelete ActivityAction = "DELETE"
)

// ActivityLogEntry is one append-only audit record. Entries are never
// updated or deleted except by the retention sweep.
type ActivityLogEntry struct {
	ID        string         `bson:"_id" json:"id"`
	Entity    ActivityEntity `bson:"entity" json:"entity"`
	EntityID  string         `bson:"entityId" json:"entityId"`
	Action    ActivityAction `bson:"action" json:"action"`
	ActorID   string         `bson:"userId" json:"actorId"`
	ActorName string         `bson:"displayName" json:"actorDisplayName"`
	Changes   ChangeSet      `bson:"changes" json:"changes"`
	Date      time.Time      `bson:"date" json:"date"`
}

// ActivityRetention is how long activity entries are kept before the
// periodic sweep removes them.
const ActivityRetention = 30 * 24 * time.Hour
