package application

import (
	"time"

	"github.com/pos-platform/sales-service/internal/domain"
)

// SaleInput is a validated sale body handed in by the transport layer.
// Updates replace the whole body, so the same input type serves create
// and update.
type SaleInput struct {
	CustomerID       string            `json:"customerId"`
	Items            []domain.LineItem `json:"items"`
	Date             time.Time         `json:"date"`
	CashPaid         float64           `json:"cashPaid"`
	OnlinePaid       float64           `json:"onlinePaid"`
	DeliveryFee      float64           `json:"deliveryFee"`
	Discount         float64           `json:"discount"`
	FreebiesValue    float64           `json:"freebiesValue"`
	Pending          bool              `json:"pending"`
	OrderInformation string            `json:"orderInformation"`
}

func (in SaleInput) toTransaction(id string, now time.Time) domain.SaleTransaction {
	customerID := in.CustomerID
	if customerID == "" {
		customerID = domain.UnknownCustomerID
	}
	date := in.Date
	if date.IsZero() {
		date = now
	}
	return domain.SaleTransaction{
		ID:               id,
		CustomerID:       customerID,
		Items:            in.Items,
		Date:             date,
		CashPaid:         in.CashPaid,
		OnlinePaid:       in.OnlinePaid,
		DeliveryFee:      in.DeliveryFee,
		Discount:         in.Discount,
		FreebiesValue:    in.FreebiesValue,
		Pending:          in.Pending,
		OrderInformation: in.OrderInformation,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ProductInput is a validated product body from the transport layer.
type ProductInput struct {
	Name        string   `json:"name"`
	CostPrice   float64  `json:"costPrice"`
	SellPrice   float64  `json:"sellPrice"`
	Stock       int64    `json:"stock"`
	ImageRef    string   `json:"imageRef"`
	CategoryIDs []string `json:"categoryIds"`
}

// CustomerInput is a validated customer body from the transport layer.
type CustomerInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
