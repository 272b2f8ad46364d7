package models

import (
	"context"
	"errors"
	"time"

	"github.com/humbertomar/vipo-backend/config"
	"github.com/humbertomar/vipo-backend/utils"
)

// ProductVariant is the purchasable SKU (size/color combination). Its
// Stock column is the authoritative available-to-sell count and is only
// decremented by PlaceOrder or corrected through UpdateProductVariant.
type ProductVariant struct {
	ID                     int       `gorm:"primary_key" json:"id"`
	ProductId              int       `gorm:"index;not null" json:"product_id" binding:"required"`
	Size                   string    `gorm:"size:50" json:"size"`
	Color                  string    `gorm:"size:50" json:"color"`
	Sku                    string    `gorm:"size:100;uniqueIndex;not null" json:"sku" binding:"required"`
	Stock                  int       `gorm:"not null;default:0" json:"stock"`
	PriceAdjustmentInCents int64     `gorm:"not null;default:0" json:"price_adjustment_in_cents"`
	IsActive               *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt              time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProductVariant struct {
	ProductId              int    `json:"product_id" binding:"required"`
	Size                   string `json:"size"`
	Color                  string `json:"color"`
	Sku                    string `json:"sku" binding:"required"`
	Stock                  int    `json:"stock" binding:"min=0"`
	PriceAdjustmentInCents int64  `json:"price_adjustment_in_cents"`
	IsActive               *bool  `json:"is_active"`
}

// check if order items reference the variant when deleted
func (v ProductVariant) validateTransactions(ctx context.Context) error {
	count, err := utils.ResourceCountWhere[OrderItem](ctx, "variant_id = ?", v.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("transaction already exists")
	}
	return nil
}

// validate input for both create & update. (id = 0 for create)
func (input *NewProductVariant) validate(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[Product](ctx, input.ProductId); err != nil {
		return errors.New("product not found")
	}
	if err := utils.ValidateUnique[ProductVariant](ctx, "sku", input.Sku, id); err != nil {
		return err
	}
	if input.Stock < 0 {
		return errors.New("stock cannot be negative")
	}
	return nil
}

// CreateProductVariant also folds the opening stock into the product's
// total_stock aggregate in the same transaction.
func CreateProductVariant(ctx context.Context, input *NewProductVariant) (*ProductVariant, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	variant := ProductVariant{
		ProductId:              input.ProductId,
		Size:                   input.Size,
		Color:                  input.Color,
		Sku:                    input.Sku,
		Stock:                  input.Stock,
		PriceAdjustmentInCents: input.PriceAdjustmentInCents,
		IsActive:               input.IsActive,
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()

	if err := tx.Create(&variant).Error; err != nil {
		tx.Rollback()
		if isDuplicateEntry(err) {
			return nil, errors.New("duplicate sku")
		}
		return nil, err
	}
	if err := tx.Exec("UPDATE products SET total_stock = total_stock + ? WHERE id = ?", variant.Stock, variant.ProductId).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// UpdateProductVariant is the direct admin stock correction path. The stock
// delta is mirrored into products.total_stock so the aggregate invariant
// (total_stock == sum of variant stock) holds here as well.
func UpdateProductVariant(ctx context.Context, id int, input *NewProductVariant) (*ProductVariant, error) {
	variant, err := utils.FetchModel[ProductVariant](ctx, id)
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	oldProductId := variant.ProductId
	oldStock := variant.Stock
	stockDelta := input.Stock - oldStock

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()

	err = tx.Model(&variant).Updates(map[string]interface{}{
		"ProductId":              input.ProductId,
		"Size":                   input.Size,
		"Color":                  input.Color,
		"Sku":                    input.Sku,
		"Stock":                  input.Stock,
		"PriceAdjustmentInCents": input.PriceAdjustmentInCents,
		"IsActive":               input.IsActive,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if input.ProductId != oldProductId {
		// the variant moved: its whole stock leaves one aggregate and
		// enters the other
		if err := tx.Exec("UPDATE products SET total_stock = GREATEST(total_stock - ?, 0) WHERE id = ?", oldStock, oldProductId).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.Exec("UPDATE products SET total_stock = total_stock + ? WHERE id = ?", input.Stock, input.ProductId).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	} else if stockDelta != 0 {
		if err := tx.Exec("UPDATE products SET total_stock = GREATEST(total_stock + ?, 0) WHERE id = ?", stockDelta, input.ProductId).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return variant, nil
}

func DeleteProductVariant(ctx context.Context, id int) (*ProductVariant, error) {
	result, err := utils.FetchModel[ProductVariant](ctx, id)
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if err := result.validateTransactions(ctx); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Exec("UPDATE products SET total_stock = GREATEST(total_stock - ?, 0) WHERE id = ?", result.Stock, result.ProductId).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetProductVariant(ctx context.Context, id int) (*ProductVariant, error) {
	return utils.FetchModel[ProductVariant](ctx, id)
}

func ListProductVariants(ctx context.Context, productId int) ([]*ProductVariant, error) {
	db := config.GetDB()
	var results []*ProductVariant
	if err := db.WithContext(ctx).Where("product_id = ?", productId).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
