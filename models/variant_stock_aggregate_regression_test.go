package models_test

import (
	"testing"

	"github.com/humbertomar/vipo-backend/models"
	"github.com/humbertomar/vipo-backend/utils"
)

// Regression: moving a variant to another product must move its stock out
// of the old product's total_stock and into the new one's, so the
// aggregate stays the sum of variant stock on both sides.
func TestUpdateProductVariant_MoveBetweenProductsKeepsAggregates(t *testing.T) {
	ctx := setupIntegration(t)

	category, err := models.CreateProductCategory(ctx, &models.NewProductCategory{Name: "Jackets"})
	if err != nil {
		t.Fatalf("CreateProductCategory: %v", err)
	}
	productA, err := models.CreateProduct(ctx, &models.NewProduct{
		CategoryId:   category.ID,
		Name:         "Denim Jacket",
		Slug:         "denim-jacket",
		PriceInCents: 18000,
		IsActive:     utils.NewTrue(),
	})
	if err != nil {
		t.Fatalf("CreateProduct(A): %v", err)
	}
	productB, err := models.CreateProduct(ctx, &models.NewProduct{
		CategoryId:   category.ID,
		Name:         "Bomber Jacket",
		Slug:         "bomber-jacket",
		PriceInCents: 22000,
		IsActive:     utils.NewTrue(),
	})
	if err != nil {
		t.Fatalf("CreateProduct(B): %v", err)
	}

	variant, err := models.CreateProductVariant(ctx, &models.NewProductVariant{
		ProductId: productA.ID,
		Size:      "M",
		Sku:       "DJ-M",
		Stock:     5,
	})
	if err != nil {
		t.Fatalf("CreateProductVariant: %v", err)
	}

	// move to product B, changing the stock in the same update
	if _, err := models.UpdateProductVariant(ctx, variant.ID, &models.NewProductVariant{
		ProductId: productB.ID,
		Size:      "M",
		Sku:       "DJ-M",
		Stock:     7,
	}); err != nil {
		t.Fatalf("UpdateProductVariant(move): %v", err)
	}

	gotA, err := models.GetProduct(ctx, productA.ID)
	if err != nil {
		t.Fatalf("GetProduct(A): %v", err)
	}
	if gotA.TotalStock != 0 {
		t.Fatalf("expected product A total_stock 0 after move, got %d", gotA.TotalStock)
	}
	gotB, err := models.GetProduct(ctx, productB.ID)
	if err != nil {
		t.Fatalf("GetProduct(B): %v", err)
	}
	if gotB.TotalStock != 7 {
		t.Fatalf("expected product B total_stock 7 after move, got %d", gotB.TotalStock)
	}

	// same-product stock correction still mirrors the delta
	if _, err := models.UpdateProductVariant(ctx, variant.ID, &models.NewProductVariant{
		ProductId: productB.ID,
		Size:      "M",
		Sku:       "DJ-M",
		Stock:     2,
	}); err != nil {
		t.Fatalf("UpdateProductVariant(correction): %v", err)
	}
	gotB, err = models.GetProduct(ctx, productB.ID)
	if err != nil {
		t.Fatalf("GetProduct(B): %v", err)
	}
	if gotB.TotalStock != 2 {
		t.Fatalf("expected product B total_stock 2 after correction, got %d", gotB.TotalStock)
	}
}
