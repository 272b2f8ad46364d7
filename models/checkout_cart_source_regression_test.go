package models_test

import (
	"errors"
	"testing"

	"github.com/humbertomar/vipo-backend/config"
	"github.com/humbertomar/vipo-backend/models"
)

// Regression: only a genuinely missing/empty cart classifies as the
// user-facing empty-cart rejection. A storage fault while reading the cart
// must propagate so the boundary answers 5xx, not "cart is empty".
func TestResolveCheckoutItems_CartSourceErrorClassification(t *testing.T) {
	ctx := setupIntegration(t)

	customer, err := models.CreateCustomer(ctx, &models.NewCustomer{
		Name:  "Bea",
		Phone: "+5511988887777",
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	input := &models.CheckoutInput{
		CustomerId:    &customer.ID,
		PaymentMethod: models.PaymentMethodPix,
	}

	// no cart row at all
	_, _, err = models.ResolveCheckoutItems(ctx, input)
	if !errors.Is(err, models.ErrEmptyCart) {
		t.Fatalf("missing cart: expected ErrEmptyCart, got %v", err)
	}

	// cart row exists but has zero items
	if _, err := models.GetOrCreateCart(ctx, customer.ID); err != nil {
		t.Fatalf("GetOrCreateCart: %v", err)
	}
	_, _, err = models.ResolveCheckoutItems(ctx, input)
	if !errors.Is(err, models.ErrEmptyCart) {
		t.Fatalf("empty cart: expected ErrEmptyCart, got %v", err)
	}

	// storage fault: kill the connection pool and read again
	sqlDB, err := config.GetDB().DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close sql.DB: %v", err)
	}

	_, _, err = models.ResolveCheckoutItems(ctx, input)
	if err == nil {
		t.Fatal("expected a storage error, got nil")
	}
	if errors.Is(err, models.ErrEmptyCart) {
		t.Fatalf("storage fault misclassified as empty cart: %v", err)
	}
	if models.IsUserFacing(err) {
		t.Fatalf("storage fault must not be user facing: %v", err)
	}
}
