package models

import (
	"context"
	"errors"
	"time"

	"github.com/humbertomar/vipo-backend/config"
	"github.com/humbertomar/vipo-backend/utils"
	"gorm.io/gorm"
)

// Cart is the saved shopping cart, one per customer. Quantities here are
// wishes, not reservations: stock is only committed by PlaceOrder.
type Cart struct {
	ID         int        `gorm:"primary_key" json:"id"`
	CustomerId int        `gorm:"uniqueIndex;not null" json:"customer_id"`
	Items      []CartItem `gorm:"foreignKey:CartId" json:"items"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type CartItem struct {
	ID        int            `gorm:"primary_key" json:"id"`
	CartId    int            `gorm:"index;not null" json:"cart_id"`
	ProductId int            `gorm:"not null" json:"product_id"`
	VariantId int            `gorm:"index;not null" json:"variant_id"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	Product   Product        `json:"product,omitempty"`
	Variant   ProductVariant `gorm:"foreignKey:VariantId" json:"variant,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCartItem struct {
	VariantId int `json:"variant_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required,min=1"`
}

// GetOrCreateCart returns the customer's cart, creating an empty one on
// first use.
func GetOrCreateCart(ctx context.Context, customerId int) (*Cart, error) {
	if err := utils.ValidateResourceId[Customer](ctx, customerId); err != nil {
		return nil, errors.New("customer not found")
	}

	db := config.GetDB()
	var cart Cart
	err := db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").Preload("Items.Variant").
		Where(Cart{CustomerId: customerId}).
		FirstOrCreate(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCartWithItems returns nil when the customer has no cart row at all.
// Storage faults are returned as-is so they surface as 5xx, never as an
// empty cart.
func GetCartWithItems(ctx context.Context, customerId int) (*Cart, error) {
	db := config.GetDB()
	var cart Cart
	err := db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").Preload("Items.Variant").
		Where("customer_id = ?", customerId).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// AddCartItem merges quantity when the variant is already in the cart.
func AddCartItem(ctx context.Context, customerId int, input *NewCartItem) (*Cart, error) {
	variant, err := utils.FetchModel[ProductVariant](ctx, input.VariantId)
	if err != nil {
		return nil, errors.New("variant not found")
	}

	cart, err := GetOrCreateCart(ctx, customerId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var existing CartItem
	err = db.WithContext(ctx).
		Where("cart_id = ? AND variant_id = ?", cart.ID, input.VariantId).
		First(&existing).Error
	if err == nil {
		err = db.WithContext(ctx).Model(&existing).
			Update("Quantity", existing.Quantity+input.Quantity).Error
		if err != nil {
			return nil, err
		}
	} else {
		item := CartItem{
			CartId:    cart.ID,
			ProductId: variant.ProductId,
			VariantId: variant.ID,
			Quantity:  input.Quantity,
		}
		if err := db.WithContext(ctx).Create(&item).Error; err != nil {
			return nil, err
		}
	}

	return GetOrCreateCart(ctx, customerId)
}

func UpdateCartItem(ctx context.Context, customerId int, itemId int, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, errors.New("quantity must be positive")
	}

	cart, err := GetOrCreateCart(ctx, customerId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	result := db.WithContext(ctx).Model(&CartItem{}).
		Where("id = ? AND cart_id = ?", itemId, cart.ID).
		Update("Quantity", quantity)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, utils.ErrorRecordNotFound
	}

	return GetOrCreateCart(ctx, customerId)
}

func RemoveCartItem(ctx context.Context, customerId int, itemId int) (*Cart, error) {
	cart, err := GetOrCreateCart(ctx, customerId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	result := db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemId, cart.ID).
		Delete(&CartItem{})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, utils.ErrorRecordNotFound
	}

	return GetOrCreateCart(ctx, customerId)
}

// ClearCartItems empties a consumed cart after a successful checkout.
// Called by the cleanup worker outside the order transaction.
func ClearCartItems(ctx context.Context, cartId int) error {
	db := config.GetDB()
	return db.WithContext(ctx).Where("cart_id = ?", cartId).Delete(&CartItem{}).Error
}
