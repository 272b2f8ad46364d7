package models_test

import (
	"context"
	"errors"
	"testing"

	"github.com/humbertomar/vipo-backend/models"
)

// Explicit items bypass the cart entirely and are passed through verbatim,
// operator-chosen prices included.
func TestResolveCheckoutItems_ExplicitItemsVerbatim(t *testing.T) {
	ctx := context.Background()
	input := &models.CheckoutInput{
		PaymentMethod: models.PaymentMethodCash,
		Items: []models.OrderLineItem{
			{ProductId: 1, VariantId: 10, Quantity: 2, UnitPriceInCents: 1500},
			{ProductId: 2, VariantId: 20, Quantity: 1, UnitPriceInCents: 9900},
		},
	}

	items, consumedCartId, err := models.ResolveCheckoutItems(ctx, input)
	if err != nil {
		t.Fatalf("ResolveCheckoutItems: %v", err)
	}
	if consumedCartId != 0 {
		t.Fatalf("explicit items must not consume a cart; got cart id %d", consumedCartId)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0] != input.Items[0] || items[1] != input.Items[1] {
		t.Fatalf("items were not passed through verbatim: %+v", items)
	}
}

func TestResolveCheckoutItems_NoItemsNoCustomer(t *testing.T) {
	ctx := context.Background()
	input := &models.CheckoutInput{PaymentMethod: models.PaymentMethodPix}

	_, _, err := models.ResolveCheckoutItems(ctx, input)
	if !errors.Is(err, models.ErrNoItemsProvided) {
		t.Fatalf("expected ErrNoItemsProvided, got %v", err)
	}
}

// Line-item validation rejects bad input before any row is touched.
func TestPlaceOrder_RejectsInvalidLineItems(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		items []models.OrderLineItem
	}{
		{"empty", nil},
		{"missing variant", []models.OrderLineItem{{Quantity: 1}}},
		{"zero quantity", []models.OrderLineItem{{VariantId: 1, Quantity: 0}}},
		{"negative quantity", []models.OrderLineItem{{VariantId: 1, Quantity: -3}}},
		{"negative price", []models.OrderLineItem{{VariantId: 1, Quantity: 1, UnitPriceInCents: -100}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := models.PlaceOrder(ctx, tc.items, models.OrderChannelPos,
				models.PaymentMethodCash, nil, nil, nil, "")
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestPlaceOrder_RejectsInvalidChannel(t *testing.T) {
	ctx := context.Background()
	items := []models.OrderLineItem{{VariantId: 1, Quantity: 1, UnitPriceInCents: 100}}

	_, err := models.PlaceOrder(ctx, items, models.OrderChannel("PHONE"),
		models.PaymentMethodCash, nil, nil, nil, "")
	if err == nil || err.Error() != "invalid order channel" {
		t.Fatalf("expected invalid order channel error, got %v", err)
	}
}
