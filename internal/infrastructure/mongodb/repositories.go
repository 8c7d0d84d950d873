// Package mongodb provides the MongoDB-backed repositories. All methods
// join whatever session is carried by ctx, so the same repository works
// inside and outside multi-document transactions.
package mongodb

import (
	"time"

	"github.com/pos-platform/sales-service/pkg/metrics"
)

// Collection names
const (
	CollectionProducts      = "products"
	CollectionTransactions  = "transactions"
	CollectionPendingOrders = "pendingOrders"
	CollectionActivities    = "activities"
	CollectionCustomers     = "customers"
	CollectionUsers         = "users"
)

func observe(m *metrics.Metrics, collection, operation string, start time.Time, err error) {
	m.RecordMongoDBOperation(collection, operation, err == nil, time.Since(start))
}
