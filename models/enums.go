package models

import (
	"encoding/json"
	"errors"
	"strings"
)

type OrderChannel string

const (
	OrderChannelPos    OrderChannel = "POS"
	OrderChannelOnline OrderChannel = "ONLINE"
)

// convert input to enum type
func (t *OrderChannel) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("order channel must be string")
	}
	switch str {
	case "POS":
		*t = OrderChannelPos
	case "ONLINE":
		*t = OrderChannelOnline
	default:
		return errors.New("invalid order channel")
	}
	return nil
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func (t OrderStatus) IsValid() bool {
	switch t {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusCaptured PaymentStatus = "CAPTURED"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// PaymentMethod is free-form by design: the storefront adds methods
// (PIX, bank transfer promos) without schema changes. Known values below.
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "CASH"
	PaymentMethodPix        PaymentMethod = "PIX"
	PaymentMethodPosDebit   PaymentMethod = "POS_DEBIT"
	PaymentMethodPosCredit  PaymentMethod = "POS_CREDIT"
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
)

// methods settled at the counter carry this prefix
const posMethodPrefix = "POS_"

func (m PaymentMethod) IsPosMethod() bool {
	return strings.HasPrefix(string(m), posMethodPrefix)
}

type AddressType string

const (
	AddressTypeShipping AddressType = "SHIPPING"
	AddressTypeBilling  AddressType = "BILLING"
)

func (t *AddressType) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("address type must be string")
	}
	switch str {
	case "SHIPPING":
		*t = AddressTypeShipping
	case "BILLING":
		*t = AddressTypeBilling
	default:
		return errors.New("invalid address type")
	}
	return nil
}
