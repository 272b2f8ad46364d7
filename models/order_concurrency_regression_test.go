package models_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/humbertomar/vipo-backend/config"
	"github.com/humbertomar/vipo-backend/models"
	"github.com/humbertomar/vipo-backend/utils"
)

// Regression: concurrent placements for the same variant serialize on the
// row lock. With 5 units on hand and 10 simultaneous single-unit orders,
// exactly 5 succeed and stock never goes negative.
func TestPlaceOrder_ConcurrentPlacementsNeverOversell(t *testing.T) {
	ctx := setupIntegration(t)

	category, err := models.CreateProductCategory(ctx, &models.NewProductCategory{Name: "Sneakers"})
	if err != nil {
		t.Fatalf("CreateProductCategory: %v", err)
	}
	product, err := models.CreateProduct(ctx, &models.NewProduct{
		CategoryId:   category.ID,
		Name:         "Court Sneaker",
		Slug:         "court-sneaker",
		PriceInCents: 12000,
		IsActive:     utils.NewTrue(),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	variant, err := models.CreateProductVariant(ctx, &models.NewProductVariant{
		ProductId: product.ID,
		Size:      "42",
		Sku:       "CS-42",
		Stock:     5,
	})
	if err != nil {
		t.Fatalf("CreateProductVariant: %v", err)
	}

	const attempts = 10
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := models.PlaceOrder(ctx,
				[]models.OrderLineItem{{VariantId: variant.ID, Quantity: 1, UnitPriceInCents: 12000}},
				models.OrderChannelPos, models.PaymentMethodCash, nil, nil, nil, "")
			results[i] = err
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		default:
			var insufficient *models.InsufficientStockError
			if !errors.As(err, &insufficient) {
				t.Fatalf("unexpected placement error: %v", err)
			}
			rejected++
		}
	}
	if succeeded != 5 || rejected != 5 {
		t.Fatalf("expected 5 successes and 5 rejections, got %d/%d", succeeded, rejected)
	}

	gotVariant, err := models.GetProductVariant(ctx, variant.ID)
	if err != nil {
		t.Fatalf("GetProductVariant: %v", err)
	}
	if gotVariant.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", gotVariant.Stock)
	}
	gotProduct, err := models.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if gotProduct.TotalStock != 0 {
		t.Fatalf("expected total_stock 0, got %d", gotProduct.TotalStock)
	}

	db := config.GetDB()
	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if orderCount != 5 {
		t.Fatalf("expected 5 committed orders, got %d", orderCount)
	}
}
