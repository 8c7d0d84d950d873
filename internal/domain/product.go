package domain

import "time"

// Product represents a sellable item with a tracked stock level.
// Products are soft-deleted so historical transactions keep resolving.
type Product struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"productName" json:"name"`
	CostPrice   float64   `bson:"stockPrice" json:"costPrice"`
	SellPrice   float64   `bson:"sellPrice" json:"sellPrice"`
	Stock       int64     `bson:"stock" json:"stock"`
	ImageRef    string    `bson:"image,omitempty" json:"imageRef,omitempty"`
	Deleted     bool      `bson:"deleted" json:"deleted"`
	CategoryIDs []string  `bson:"categories,omitempty" json:"categoryIds,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Fields returns the product's auditable fields in declaration order.
func (p *Product) Fields() []FieldSnapshot {
	if p == nil {
		return nil
	}
	return []FieldSnapshot{
		{Name: "productName", Value: p.Name},
		{Name: "stockPrice", Value: p.CostPrice},
		{Name: "sellPrice", Value: p.SellPrice},
		{Name: "stock", Value: p.Stock},
		{Name: "image", Value: p.ImageRef},
		{Name: "categories", Value: p.CategoryIDs},
	}
}
