package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pos-platform/sales-service/internal/domain"
	"github.com/pos-platform/sales-service/pkg/logging"
	"github.com/pos-platform/sales-service/pkg/metrics"
)

// CustomerService manages the customer book. Mutations run inside a
// transaction like product mutations do, so the duplicate-name check and
// the audit entry commit atomically with the write.
type CustomerService struct {
	txn       txnRunner
	customers customerRepository
	audit     *AuditWriter
	logger    *logging.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewCustomerService(
	txn txnRunner,
	customers customerRepository,
	audit *AuditWriter,
	logger *logging.Logger,
	m *metrics.Metrics,
) *CustomerService {
	return &CustomerService{
		txn:       txn,
		customers: customers,
		audit:     audit,
		logger:    logger.WithComponent("customers"),
		metrics:   m,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateCustomer adds a customer. A live customer with the same name is a
// conflict.
func (s *CustomerService) CreateCustomer(ctx context.Context, input CustomerInput, actorID string) (*domain.Customer, error) {
	now := s.now()
	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Phone:     input.Phone,
		Address:   input.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.customers.FindActiveByName(ctx, input.Name)
		if err != nil {
			return fmt.Errorf("failed to check customer name: %w", err)
		}
		if existing != nil {
			return &domain.DuplicateNameError{Entity: "customer", Name: input.Name}
		}

		entry, err := s.audit.PrepareEntry(ctx, domain.ActivityEntityCustomer, customer.ID, domain.ActionCreate, actorID, nil, customer.Fields())
		if err != nil {
			return err
		}

		if err := s.customers.Insert(ctx, &customer); err != nil {
			return fmt.Errorf("failed to insert customer: %w", err)
		}
		return s.audit.Stage(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAuditEntry(string(domain.ActivityEntityCustomer), string(domain.ActionCreate))
	s.logger.WithContext(ctx).Info("customer created", "customerId", customer.ID)
	return &customer, nil
}

// UpdateCustomer replaces a customer's attributes.
func (s *CustomerService) UpdateCustomer(ctx context.Context, customerID string, input CustomerInput, actorID string) (*domain.Customer, error) {
	now := s.now()
	var updated domain.Customer

	err := s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.customers.FindByID(ctx, customerID)
		if err != nil {
			return fmt.Errorf("failed to read customer: %w", err)
		}
		if existing == nil {
			return &domain.CustomerNotFoundError{CustomerID: customerID}
		}

		if input.Name != existing.Name {
			conflict, err := s.customers.FindActiveByName(ctx, input.Name)
			if err != nil {
				return fmt.Errorf("failed to check customer name: %w", err)
			}
			if conflict != nil && conflict.ID != customerID {
				return &domain.DuplicateNameError{Entity: "customer", Name: input.Name}
			}
		}

		updated = *existing
		updated.Name = input.Name
		updated.Phone = input.Phone
		updated.Address = input.Address
		updated.UpdatedAt = now

		entry, err := s.audit.PrepareEntry(ctx, domain.ActivityEntityCustomer, customerID, domain.ActionUpdate, actorID, existing.Fields(), updated.Fields())
		if err != nil {
			return err
		}

		if err := s.customers.Update(ctx, &updated); err != nil {
			return fmt.Errorf("failed to update customer: %w", err)
		}
		return s.audit.Stage(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAuditEntry(string(domain.ActivityEntityCustomer), string(domain.ActionUpdate))
	s.logger.WithContext(ctx).Info("customer updated", "customerId", customerID)
	return &updated, nil
}

// DeleteCustomer soft-deletes a customer. Sales referencing it keep their
// customerId.
func (s *CustomerService) DeleteCustomer(ctx context.Context, customerID string, actorID string) error {
	now := s.now()

	err := s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.customers.FindByID(ctx, customerID)
		if err != nil {
			return fmt.Errorf("failed to read customer: %w", err)
		}
		if existing == nil {
			return &domain.CustomerNotFoundError{CustomerID: customerID}
		}

		entry, err := s.audit.PrepareEntry(ctx, domain.ActivityEntityCustomer, customerID, domain.ActionDelete, actorID, existing.Fields(), nil)
		if err != nil {
			return err
		}

		deleted := *existing
		deleted.Deleted = true
		deleted.UpdatedAt = now
		if err := s.customers.Update(ctx, &deleted); err != nil {
			return fmt.Errorf("failed to soft-delete customer: %w", err)
		}
		return s.audit.Stage(ctx, entry)
	})
	if err != nil {
		return err
	}

	s.metrics.RecordAuditEntry(string(domain.ActivityEntityCustomer), string(domain.ActionDelete))
	s.logger.WithContext(ctx).Info("customer deleted", "customerId", customerID)
	return nil
}

// GetCustomer returns a customer by ID.
func (s *CustomerService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read customer: %w", err)
	}
	if customer == nil {
		return nil, &domain.CustomerNotFoundError{CustomerID: customerID}
	}
	return customer, nil
}

// ListCustomers returns the customer book, optionally including
// soft-deleted entries.
func (s *CustomerService) ListCustomers(ctx context.Context, includeDeleted bool) ([]*domain.Customer, error) {
	customers, err := s.customers.List(ctx, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}
