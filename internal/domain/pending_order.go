package domain

import "time"

// PendingStatusOpen is the initial status of a newly staged pending order.
const PendingStatusOpen = "pending"

// PendingOrder tracks a sale held for deferred fulfillment. It shares its
// ID with the sale it shadows but lives in its own document so staff can
// acknowledge or re-status it without touching the sale.
type PendingOrder struct {
	ID          string          `bson:"_id" json:"id"`
	Transaction SaleTransaction `bson:"transaction" json:"transaction"`
	Status      string          `bson:"status" json:"status"`
	CheckedBy   []string        `bson:"checkedBy" json:"checkedBy"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
}

// NewPendingOrder builds the pending order staged alongside a newly created
// sale. Nobody has acknowledged it yet.
func NewPendingOrder(txn SaleTransaction, now time.Time) PendingOrder {
	return PendingOrder{
		ID:          txn.ID,
		Transaction: txn,
		Status:      PendingStatusOpen,
		CheckedBy:   []string{},
		CreatedAt:   now,
	}
}

// ProjectPendingOrder merges an updated sale body into its pending order.
// Status, acknowledgements, and creation time survive the update; the
// embedded sale snapshot is always replaced, and the updating actor is
// recorded as having seen the order.
func ProjectPendingOrder(existing *PendingOrder, txn SaleTransaction, actorID string, now time.Time) PendingOrder {
	order := PendingOrder{
		ID:          txn.ID,
		Transaction: txn,
		Status:      PendingStatusOpen,
		CheckedBy:   []string{},
		CreatedAt:   now,
	}

	if existing != nil {
		if existing.Status != "" {
			order.Status = existing.Status
		}
		order.CheckedBy = append(order.CheckedBy, existing.CheckedBy...)
		if !existing.CreatedAt.IsZero() {
			order.CreatedAt = existing.CreatedAt
		}
	}

	order.CheckedBy = appendUnique(order.CheckedBy, actorID)
	return order
}

// Acknowledge records that an actor has viewed the order.
func (o *PendingOrder) Acknowledge(actorID string) {
	o.CheckedBy = appendUnique(o.CheckedBy, actorID)
}

func appendUnique(set []string, value string) []string {
	if value == "" {
		return set
	}
	for _, existing := range set {
		if existing == value {
			return set
		}
	}
	return append(set, value)
}
