package domain

import "time"

// UnknownCustomerID is the sentinel customer reference used for walk-in
// sales with no recorded customer.
const UnknownCustomerID = "unknown"

// LineItem is one product/quantity pair on a sale.
type LineItem struct {
	ProductID string `bson:"productId" json:"productId"`
	Quantity  int64  `bson:"quantity" json:"quantity"`
}

// SaleTransaction is a committed sale. Updates replace the whole body
// rather than patching individual fields.
type SaleTransaction struct {
	ID               string     `bson:"_id" json:"id"`
	CustomerID       string     `bson:"customerId" json:"customerId"`
	Items            []LineItem `bson:"items" json:"items"`
	Date             time.Time  `bson:"date" json:"date"`
	CashPaid         float64    `bson:"cashPayment" json:"cashPaid"`
	OnlinePaid       float64    `bson:"onlinePayment" json:"onlinePaid"`
	DeliveryFee      float64    `bson:"deliveryFee" json:"deliveryFee"`
	Discount         float64    `bson:"discount" json:"discount"`
	FreebiesValue    float64    `bson:"freebies" json:"freebiesValue"`
	Pending          bool       `bson:"pending" json:"pending"`
	OrderInformation string     `bson:"orderInformation,omitempty" json:"orderInformation,omitempty"`
	CreatedAt        time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Fields returns the sale's auditable fields in declaration order.
func (t *SaleTransaction) Fields() []FieldSnapshot {
	if t == nil {
		return nil
	}
	return []FieldSnapshot{
		{Name: "customerId", Value: t.CustomerID},
		{Name: "items", Value: t.Items},
		{Name: "date", Value: t.Date},
		{Name: "cashPayment", Value: t.CashPaid},
		{Name: "onlinePayment", Value: t.OnlinePaid},
		{Name: "deliveryFee", Value: t.DeliveryFee},
		{Name: "discount", Value: t.Discount},
		{Name: "freebies", Value: t.FreebiesValue},
		{Name: "pending", Value: t.Pending},
		{Name: "orderInformation", Value: t.OrderInformation},
	}
}

// ItemQuantities folds the line items into per-product quantities. A
// repeated product ID keeps the last occurrence's quantity.
func (t *SaleTransaction) ItemQuantities() map[string]int64 {
	quantities := make(map[string]int64, len(t.Items))
	for _, item := range t.Items {
		quantities[item.ProductID] = item.Quantity
	}
	return quantities
}

// StockDeltas computes the net quantity to subtract from each product's
// stock when replacing the old item set with the new one. Positive values
// consume stock, negative values restock. Products whose quantity did not
// change are omitted so they generate no write and no contention.
func StockDeltas(old, updated map[string]int64) map[string]int64 {
	deltas := make(map[string]int64)
	for productID, qty := range updated {
		deltas[productID] = qty - old[productID]
	}
	for productID, qty := range old {
		if _, seen := updated[productID]; !seen {
			deltas[productID] = -qty
		}
	}
	for productID, delta := range deltas {
		if delta == 0 {
			delete(deltas, productID)
		}
	}
	return deltas
}
