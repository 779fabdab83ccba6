package service

import (
	"errors"
	"fmt"
)

// Closed error taxonomy for the stock engine. Handlers branch on these with
// errors.Is / errors.As instead of matching message text. LockTimeoutError
// and StorageError are safe for callers to retry; InsufficientStockError and
// VariantNotFoundError are business-invalid and will recur unchanged.

// ErrEmptyOperation rejects stock operations with no items.
var ErrEmptyOperation = errors.New("no items to process")

// LockTimeoutError means exclusivity on a variant could not be obtained
// within the acquisition timeout. The operation was aborted before any
// transaction opened; no stock state changed.
type LockTimeoutError struct {
	VariantKey string
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("could not acquire lock for variant %s", e.VariantKey)
}

// VariantNotFoundError reports a sale (or lookup) against a variant that has
// no stock record or does not exist.
type VariantNotFoundError struct {
	Key string
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("variant not found: %s", e.Key)
}

// InsufficientStockError carries the available quantity so the caller can
// present an actionable reason.
type InsufficientStockError struct {
	SKU       string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Out of Stock: %s (Available: %d)", e.SKU, e.Available)
}

// StorageError wraps transaction/commit faults from the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// isDomainError reports whether err already belongs to the closed taxonomy,
// so transaction wrappers know not to re-wrap it as a StorageError.
func isDomainError(err error) bool {
	var (
		lockErr    *LockTimeoutError
		notFound   *VariantNotFoundError
		outOfStock *InsufficientStockError
	)
	return errors.Is(err, ErrEmptyOperation) ||
		errors.As(err, &lockErr) ||
		errors.As(err, &notFound) ||
		errors.As(err, &outOfStock)
}
