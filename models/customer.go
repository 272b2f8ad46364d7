package models

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/humbertomar/vipo-backend/config"
	"github.com/humbertomar/vipo-backend/utils"
)

type Customer struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Phone     string    `gorm:"size:50;index;not null" json:"phone" binding:"required"`
	Email     string    `gorm:"size:255" json:"email"`
	Addresses []Address `gorm:"foreignKey:CustomerId" json:"addresses,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email"`
}

func defaultPhoneRegion() string {
	region := os.Getenv("PHONE_REGION")
	if region == "" {
		// WhatsApp checkout is Brazilian-first
		region = "BR"
	}
	return region
}

// validate input for both create & update. (id = 0 for create)
func (input *NewCustomer) validate(ctx context.Context, id int) error {
	// phone is the WhatsApp contact used for checkout, so it must parse
	if err := utils.ValidatePhoneNumber(input.Phone, defaultPhoneRegion()); err != nil {
		return errors.New("invalid phone number")
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	return nil
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	customer := Customer{
		Name:  input.Name,
		Phone: input.Phone,
		Email: input.Email,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func UpdateCustomer(ctx context.Context, id int, input *NewCustomer) (*Customer, error) {
	customer, err := utils.FetchModel[Customer](ctx, id)
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&customer).Updates(map[string]interface{}{
		"Name":  input.Name,
		"Phone": input.Phone,
		"Email": input.Email,
	}).Error
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func DeleteCustomer(ctx context.Context, id int) (*Customer, error) {
	result, err := utils.FetchModel[Customer](ctx, id)
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	// orders keep their customer reference for history
	count, err := utils.ResourceCountWhere[Order](ctx, "customer_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("customer has orders")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Select("Addresses").Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetCustomer(ctx context.Context, id int) (*Customer, error) {
	return utils.FetchModel[Customer](ctx, id, "Addresses")
}

func ListAllCustomers(ctx context.Context, name *string) ([]*Customer, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if name != nil && *name != "" {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	var results []*Customer
	if err := dbCtx.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
