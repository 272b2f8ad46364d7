package models

import (
	"context"
	"errors"
	"time"

	"github.com/humbertomar/vipo-backend/config"
	"github.com/humbertomar/vipo-backend/utils"
)

type Address struct {
	ID         int         `gorm:"primary_key" json:"id"`
	CustomerId int         `gorm:"index;not null" json:"customer_id" binding:"required"`
	Type       AddressType `gorm:"type:enum('SHIPPING','BILLING');default:SHIPPING" json:"type"`
	Line1      string      `gorm:"size:255;not null" json:"line1" binding:"required"`
	Line2      string      `gorm:"size:255" json:"line2"`
	City       string      `gorm:"size:100;not null" json:"city" binding:"required"`
	State      string      `gorm:"size:100" json:"state"`
	PostalCode string      `gorm:"size:20" json:"postal_code"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAddress struct {
	CustomerId int         `json:"customer_id" binding:"required"`
	Type       AddressType `json:"type"`
	Line1      string      `json:"line1" binding:"required"`
	Line2      string      `json:"line2"`
	City       string      `json:"city" binding:"required"`
	State      string      `json:"state"`
	PostalCode string      `json:"postal_code"`
}

func (input *NewAddress) validate(ctx context.Context, _ int) error {
	if err := utils.ValidateResourceId[Customer](ctx, input.CustomerId); err != nil {
		return errors.New("customer not found")
	}
	return nil
}

func CreateAddress(ctx context.Context, input *NewAddress) (*Address, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	if input.Type == "" {
		input.Type = AddressTypeShipping
	}

	address := Address{
		CustomerId: input.CustomerId,
		Type:       input.Type,
		Line1:      input.Line1,
		Line2:      input.Line2,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func DeleteAddress(ctx context.Context, id int) (*Address, error) {
	result, err := utils.FetchModel[Address](ctx, id)
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetAddress(ctx context.Context, id int) (*Address, error) {
	return utils.FetchModel[Address](ctx, id)
}
