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

// ProductService manages the product catalog. Stock is only ever written
// through the StockLedger, including direct edits from the product form.
type ProductService struct {
	txn      txnRunner
	products productRepository
	ledger   *StockLedger
	audit    *AuditWriter
	logger   *logging.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewProductService(
	txn txnRunner,
	products productRepository,
	ledger *StockLedger,
	audit *AuditWriter,
	logger *logging.Logger,
	m *metrics.Metrics,
) *ProductService {
	return &ProductService{
		txn:      txn,
		products: products,
		ledger:   ledger,
		audit:    audit,
		logger:   logger.WithComponent("products"),
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateProduct adds a catalog entry. A live product with the same name is
// a conflict; soft-deleted products do not block reuse of their name.
func (s *ProductService) CreateProduct(ctx context.Context, input ProductInput, actorID string) (*domain.Product, error) {
	now := s.now()
	product := domain.Product{
		ID:          uuid.NewString(),
		Name:        input.Name,
		CostPrice:   input.CostPrice,
		SellPrice:   input.SellPrice,
		Stock:       input.Stock,
		ImageRef:    input.ImageRef,
		CategoryIDs: input.CategoryIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.products.FindActiveByName(ctx, input.Name)
		if err != nil {
			return fmt.Errorf("failed to check product name: %w", err)
		}
		if existing != nil {
			return &domain.DuplicateNameError{Entity: "product", Name: input.Name}
		}

		entry, err := s.audit.PrepareEntry(ctx, domain.ActivityEntityProduct, product.ID, domain.ActionCreate, actorID, nil, product.Fields())
		if err != nil {
			return err
		}

		if err := s.products.Insert(ctx, &product); err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}
		return s.audit.Stage(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAuditEntry(string(domain.ActivityEntityProduct), string(domain.ActionCreate))
	s.logger.WithContext(ctx).Info("product created", "productId", product.ID, "name", product.Name)
	return &product, nil
}

// UpdateProduct replaces a product's attributes. A stock change goes
// through the ledger so it is validated and staged like any sale-driven
// adjustment.
func (s *ProductService) UpdateProduct(ctx context.Context, productID string, input ProductInput, actorID string) (*domain.Product, error) {
	now := s.now()
	var updated domain.Product

	err := s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return fmt.Errorf("failed to read product: %w", err)
		}
		if existing == nil {
			return &domain.ProductNotFoundError{ProductID: productID}
		}

		if input.Name != existing.Name {
			conflict, err := s.products.FindActiveByName(ctx, input.Name)
			if err != nil {
				return fmt.Errorf("failed to check product name: %w", err)
			}
			if conflict != nil && conflict.ID != productID {
				return &domain.DuplicateNameError{Entity: "product", Name: input.Name}
			}
		}

		var adjustments []StockAdjustment
		if input.Stock != existing.Stock {
			adjustments, err = s.ledger.PlanAdjustments(ctx, map[string]int64{
				productID: existing.Stock - input.Stock,
			})
			if err != nil {
				return err
			}
		}

		updated = *existing
		updated.Name = input.Name
		updated.CostPrice = input.CostPrice
		updated.SellPrice = input.SellPrice
		updated.Stock = input.Stock
		updated.ImageRef = input.ImageRef
		updated.CategoryIDs = input.CategoryIDs
		updated.UpdatedAt = now

		entry, err := s.audit.PrepareEntry(ctx, domain.ActivityEntityProduct, productID, domain.ActionUpdate, actorID, existing.Fields(), updated.Fields())
		if err != nil {
			return err
		}

		if err := s.ledger.Apply(ctx, adjustments, now); err != nil {
			return err
		}
		if err := s.products.Update(ctx, &updated); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return s.audit.Stage(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAuditEntry(string(domain.ActivityEntityProduct), string(domain.ActionUpdate))
	s.logger.WithContext(ctx).Info("product updated", "productId", productID)
	return &updated, nil
}

// DeleteProduct soft-deletes a product so historical sales keep resolving.
func (s *ProductService) DeleteProduct(ctx context.Context, productID string, actorID string) error {
	now := s.now()

	err := s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return fmt.Errorf("failed to read product: %w", err)
		}
		if existing == nil {
			return &domain.ProductNotFoundError{ProductID: productID}
		}

		entry, err := s.audit.PrepareEntry(ctx, domain.ActivityEntityProduct, productID, domain.ActionDelete, actorID, existing.Fields(), nil)
		if err != nil {
			return err
		}

		deleted := *existing
		deleted.Deleted = true
		deleted.UpdatedAt = now
		if err := s.products.Update(ctx, &deleted); err != nil {
			return fmt.Errorf("failed to soft-delete product: %w", err)
		}
		return s.audit.Stage(ctx, entry)
	})
	if err != nil {
		return err
	}

	s.metrics.RecordAuditEntry(string(domain.ActivityEntityProduct), string(domain.ActionDelete))
	s.logger.WithContext(ctx).Info("product deleted", "productId", productID)
	return nil
}

// GetProduct returns a product by ID.
func (s *ProductService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to read product: %w", err)
	}
	if product == nil {
		return nil, &domain.ProductNotFoundError{ProductID: productID}
	}
	return product, nil
}

// ListProducts returns the catalog, optionally including soft-deleted
// entries.
func (s *ProductService) ListProducts(ctx context.Context, includeDeleted bool) ([]*domain.Product, error) {
	products, err := s.products.List(ctx, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}
