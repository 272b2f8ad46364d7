package models

import (
	"context"
	"fmt"

	"github.com/humbertomar/vipo-backend/utils"
)

// CheckoutInput is the request body for /api/checkout. Either Items is
// supplied explicitly (POS/direct entry, prices trusted as operator-chosen)
// or the customer's saved cart is consumed.
type CheckoutInput struct {
	CustomerId        *int            `json:"userId"`
	CartCustomerId    *int            `json:"cartUserId"`
	Items             []OrderLineItem `json:"items"`
	Channel           OrderChannel    `json:"channel"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod" binding:"required"`
	ShippingAddressId *int            `json:"shippingAddressId"`
	BillingAddressId  *int            `json:"billingAddressId"`
	Notes             string          `json:"notes"`
}

type CheckoutResult struct {
	Order *Order `json:"order"`
	// ConsumedCartId is non-zero when the order was sourced from a saved
	// cart; the caller hands it to the cleanup worker after commit.
	ConsumedCartId int `json:"-"`
}

func (input *CheckoutInput) cartCustomerId() *int {
	if input.CartCustomerId != nil {
		return input.CartCustomerId
	}
	return input.CustomerId
}

// ResolveCheckoutItems normalizes the two order sources into one line-item
// shape. Explicit items are used verbatim. Cart lines re-resolve the
// CURRENT unit price (product price + variant adjustment) so a stale
// client-side price can never leak into an order.
func ResolveCheckoutItems(ctx context.Context, input *CheckoutInput) ([]OrderLineItem, int, error) {
	if len(input.Items) > 0 {
		items := make([]OrderLineItem, 0, len(input.Items))
		items = append(items, input.Items...)
		return items, 0, nil
	}

	customerId := input.cartCustomerId()
	if customerId == nil {
		return nil, 0, ErrNoItemsProvided
	}

	cart, err := GetCartWithItems(ctx, *customerId)
	if err != nil {
		return nil, 0, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, 0, ErrEmptyCart
	}

	items := make([]OrderLineItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, OrderLineItem{
			ProductId:        line.ProductId,
			VariantId:        line.VariantId,
			Quantity:         line.Quantity,
			UnitPriceInCents: line.Product.PriceInCents + line.Variant.PriceAdjustmentInCents,
		})
	}
	return items, cart.ID, nil
}

// Checkout reconciles the order source and runs the placement transaction.
//
// The redis lock only absorbs double-submits of the same customer's
// checkout; stock correctness is owed entirely to the row locks inside
// PlaceOrder, so checkout proceeds even when redis is unavailable.
//
// Cart clearing is NOT part of the transaction: the caller enqueues it
// after this returns, and its failure never unwinds the placed order.
func Checkout(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error) {
	if customerId := input.cartCustomerId(); customerId != nil {
		lock, err := utils.CheckoutLock(ctx, fmt.Sprintf("checkout:customer:%d", *customerId), "checkout.go", "Checkout")
		if err != nil {
			return nil, err
		}
		if lock != nil {
			defer func() { _ = lock.Release(ctx) }()
		}
	}

	items, consumedCartId, err := ResolveCheckoutItems(ctx, input)
	if err != nil {
		return nil, err
	}

	channel := input.Channel
	if channel == "" {
		channel = OrderChannelOnline
	}

	order, err := PlaceOrder(ctx, items, channel, input.PaymentMethod,
		input.CustomerId, input.ShippingAddressId, input.BillingAddressId, input.Notes)
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{Order: order, ConsumedCartId: consumedCartId}, nil
}
