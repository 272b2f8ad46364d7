package models

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNoItemsProvided = errors.New("no items provided")
)

// VariantNotFoundError aborts the whole placement when any requested
// variant id does not exist.
type VariantNotFoundError struct {
	VariantId int
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("variant %d not found", e.VariantId)
}

// InsufficientStockError carries what the storefront shows the shopper:
// which product/size ran out and how many are left.
type InsufficientStockError struct {
	ProductName string
	VariantSize string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	if e.VariantSize != "" {
		return fmt.Sprintf("insufficient stock for %s (size %s): only %d available", e.ProductName, e.VariantSize, e.Available)
	}
	return fmt.Sprintf("insufficient stock for %s: only %d available", e.ProductName, e.Available)
}

// IsUserFacing reports whether err should surface as a 4xx validation
// failure rather than a storage fault. Placement errors are classified
// here, at the transaction boundary, so handlers emit exactly one
// user-facing message per failed attempt.
func IsUserFacing(err error) bool {
	var vnf *VariantNotFoundError
	var ins *InsufficientStockError
	switch {
	case errors.As(err, &vnf), errors.As(err, &ins):
		return true
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrNoItemsProvided):
		return true
	}
	return false
}
