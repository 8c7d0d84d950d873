package application

import (
	"context"
	"fmt"

	"github.com/pos-platform/sales-service/internal/domain"
	"github.com/pos-platform/sales-service/pkg/logging"
)

// PendingOrderService exposes the held-order board: listing, custom
// status transitions, and staff acknowledgements. Creation and removal of
// pending orders happen inside the sale coordinator's transactions, never
// here.
type PendingOrderService struct {
	pendingOrders pendingOrderRepository
	logger        *logging.Logger
}

func NewPendingOrderService(pendingOrders pendingOrderRepository, logger *logging.Logger) *PendingOrderService {
	return &PendingOrderService{
		pendingOrders: pendingOrders,
		logger:        logger.WithComponent("pending-orders"),
	}
}

// List returns all open pending orders.
func (s *PendingOrderService) List(ctx context.Context) ([]*domain.PendingOrder, error) {
	orders, err := s.pendingOrders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending orders: %w", err)
	}
	return orders, nil
}

// Get returns one pending order.
func (s *PendingOrderService) Get(ctx context.Context, orderID string) (*domain.PendingOrder, error) {
	order, err := s.pendingOrders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending order: %w", err)
	}
	if order == nil {
		return nil, &domain.PendingOrderNotFoundError{OrderID: orderID}
	}
	return order, nil
}

// SetStatus moves an order to an arbitrary staff-defined status. Only
// the status field is written, so a status change racing a sale update
// cannot resurrect a stale sale snapshot.
func (s *PendingOrderService) SetStatus(ctx context.Context, orderID string, status string) (*domain.PendingOrder, error) {
	found, err := s.pendingOrders.SetStatus(ctx, orderID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update pending order: %w", err)
	}
	if !found {
		return nil, &domain.PendingOrderNotFoundError{OrderID: orderID}
	}

	s.logger.WithContext(ctx).Info("pending order status changed", "orderId", orderID, "status", status)
	return s.Get(ctx, orderID)
}

// Acknowledge records that an actor has viewed the order. The union is a
// single set-add in the store, so concurrent acknowledgements never
// overwrite each other and acknowledging twice writes nothing new.
func (s *PendingOrderService) Acknowledge(ctx context.Context, orderID string, actorID string) (*domain.PendingOrder, error) {
	found, err := s.pendingOrders.AddCheckedBy(ctx, orderID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to update pending order: %w", err)
	}
	if !found {
		return nil, &domain.PendingOrderNotFoundError{OrderID: orderID}
	}

	return s.Get(ctx, orderID)
}
