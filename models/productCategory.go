package models

import (
	"context"
	"errors"
	"time"

	"github.com/humbertomar/vipo-backend/config"
	"github.com/humbertomar/vipo-backend/utils"
)

type ProductCategory struct {
	ID          int       `gorm:"primary_key" json:"id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null" json:"name" binding:"required"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProductCategory struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// check if products exist when deleted
func (c ProductCategory) validateTransactions(ctx context.Context) error {
	count, err := utils.ResourceCountWhere[Product](ctx, "category_id = ?", c.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("category still has products")
	}
	return nil
}

// validate input for both create & update. (id = 0 for create)
func (input *NewProductCategory) validate(ctx context.Context, id int) error {
	return utils.ValidateUnique[ProductCategory](ctx, "name", input.Name, id)
}

func CreateProductCategory(ctx context.Context, input *NewProductCategory) (*ProductCategory, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	category := ProductCategory{
		Name:        input.Name,
		Description: input.Description,
		IsActive:    input.IsActive,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func UpdateProductCategory(ctx context.Context, id int, input *NewProductCategory) (*ProductCategory, error) {
	category, err := utils.FetchModel[ProductCategory](ctx, id)
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&category).Updates(map[string]interface{}{
		"Name":        input.Name,
		"Description": input.Description,
		"IsActive":    input.IsActive,
	}).Error
	if err != nil {
		return nil, err
	}
	return category, nil
}

func DeleteProductCategory(ctx context.Context, id int) (*ProductCategory, error) {
	result, err := utils.FetchModel[ProductCategory](ctx, id)
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if err := result.validateTransactions(ctx); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetProductCategory(ctx context.Context, id int) (*ProductCategory, error) {
	return utils.FetchModel[ProductCategory](ctx, id)
}

func ListAllProductCategories(ctx context.Context) ([]*ProductCategory, error) {
	return utils.FetchModels[ProductCategory](ctx)
}
