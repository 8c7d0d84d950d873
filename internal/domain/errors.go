package domain

import "fmt"

// ProductNotFoundError indicates a referenced product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InsufficientStockError indicates a sale would drive a product's stock
// negative. It is a business rule violation, not a concurrency artifact,
// and is never retried.
type InsufficientStockError struct {
	ProductID string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// TransactionNotFoundError indicates the referenced sale does not exist.
type TransactionNotFoundError struct {
	TransactionID string
}

func (e *TransactionNotFoundError) Error() string {
	return fmt.Sprintf("transaction %s not found", e.TransactionID)
}

// PendingOrderNotFoundError indicates the referenced pending order does
// not exist.
type PendingOrderNotFoundError struct {
	OrderID string
}

func (e *PendingOrderNotFoundError) Error() string {
	return fmt.Sprintf("pending order %s not found", e.OrderID)
}

// CustomerNotFoundError indicates the referenced customer does not exist.
type CustomerNotFoundError struct {
	CustomerID string
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("customer %s not found", e.CustomerID)
}

// ActorNotFoundError indicates the acting user could not be resolved. An
// audit entry with an unresolved actor is worse than aborting the
// mutation, so this fails the enclosing transaction.
type ActorNotFoundError struct {
	ActorID string
}

func (e *ActorNotFoundError) Error() string {
	return fmt.Sprintf("actor %s not found", e.ActorID)
}

// DuplicateNameError indicates an entity with the same name already exists.
type DuplicateNameError struct {
	Entity string
	Name   string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s with name %q already exists", e.Entity, e.Name)
}

// RetryExhaustedError indicates an operation kept losing optimistic
// transaction conflicts until its retry budget ran out.
type RetryExhaustedError struct {
	Operation string
	Err       error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("%s: transaction retries exhausted: %v", e.Operation, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}

// DataIntegrityError indicates stored data contradicts an invariant, such
// as a committed sale referencing a product that no longer exists.
type DataIntegrityError struct {
	Message string
	Err     error
}

func (e *DataIntegrityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data integrity fault: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("data integrity fault: %s", e.Message)
}

func (e *DataIntegrityError) Unwrap() error {
	return e.Err
}
