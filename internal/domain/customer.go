package domain

import "time"

// Customer is a known buyer attached to sales. Walk-in sales use
// UnknownCustomerID instead of a customer document.
type Customer struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"customerName" json:"name"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string    `bson:"address,omitempty" json:"address,omitempty"`
	Deleted   bool      `bson:"deleted" json:"deleted"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Fields returns the customer's auditable fields in declaration order.
func (c *Customer) Fields() []FieldSnapshot {
	if c == nil {
		return nil
	}
	return []FieldSnapshot{
		{Name: "customerName", Value: c.Name},
		{Name: "phone", Value: c.Phone},
		{Name: "address", Value: c.Address},
	}
}
