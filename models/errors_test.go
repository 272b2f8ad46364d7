package models_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/humbertomar/vipo-backend/models"
)

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &models.InsufficientStockError{ProductName: "Linen Shirt", VariantSize: "M", Available: 2}
	want := "insufficient stock for Linen Shirt (size M): only 2 available"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}

	noSize := &models.InsufficientStockError{ProductName: "Tote Bag", Available: 0}
	want = "insufficient stock for Tote Bag: only 0 available"
	if noSize.Error() != want {
		t.Fatalf("got %q, want %q", noSize.Error(), want)
	}
}

func TestVariantNotFoundErrorMessage(t *testing.T) {
	err := &models.VariantNotFoundError{VariantId: 42}
	if err.Error() != "variant 42 not found" {
		t.Fatalf("got %q", err.Error())
	}
}

func TestIsUserFacing(t *testing.T) {
	userFacing := []error{
		models.ErrEmptyCart,
		models.ErrNoItemsProvided,
		&models.VariantNotFoundError{VariantId: 1},
		&models.InsufficientStockError{ProductName: "x", Available: 0},
		fmt.Errorf("checkout: %w", models.ErrEmptyCart),
	}
	for _, err := range userFacing {
		if !models.IsUserFacing(err) {
			t.Fatalf("expected %v to be user facing", err)
		}
	}

	if models.IsUserFacing(errors.New("driver: bad connection")) {
		t.Fatal("storage faults must not be user facing")
	}
	if models.IsUserFacing(nil) {
		t.Fatal("nil is not user facing")
	}
}
