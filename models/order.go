package models

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/humbertomar/vipo-backend/config"
	"github.com/humbertomar/vipo-backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Order struct {
	ID                int          `gorm:"primary_key" json:"id"`
	OrderNumber       string       `gorm:"size:50;uniqueIndex;not null" json:"order_number"`
	Channel           OrderChannel `gorm:"type:enum('POS','ONLINE');not null" json:"channel"`
	CurrentStatus     OrderStatus  `gorm:"type:enum('PENDING','CONFIRMED','SHIPPED','DELIVERED','CANCELLED');default:PENDING" json:"current_status"`
	CustomerId        *int         `gorm:"index" json:"customer_id"`
	Customer          *Customer    `json:"customer,omitempty"`
	ShippingAddressId *int         `json:"shipping_address_id"`
	BillingAddressId  *int         `json:"billing_address_id"`
	Notes             string       `gorm:"type:text" json:"notes"`
	SubtotalInCents   int64        `gorm:"not null;default:0" json:"subtotal_in_cents"`
	TotalInCents      int64        `gorm:"not null;default:0" json:"total_in_cents"`
	Items             []OrderItem  `gorm:"foreignKey:OrderId" json:"items"`
	Payment           *Payment     `gorm:"foreignKey:OrderId" json:"payment,omitempty"`
	CreatedAt         time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// OrderItem is immutable once created; the snapshotted unit price decouples
// it from later product or variant price changes.
type OrderItem struct {
	ID               int            `gorm:"primary_key" json:"id"`
	OrderId          int            `gorm:"index;not null" json:"order_id"`
	ProductId        int            `gorm:"index;not null" json:"product_id"`
	VariantId        int            `gorm:"index;not null" json:"variant_id"`
	Quantity         int            `gorm:"not null" json:"quantity"`
	UnitPriceInCents int64          `gorm:"not null" json:"unit_price_in_cents"`
	Product          Product        `json:"product,omitempty"`
	Variant          ProductVariant `gorm:"foreignKey:VariantId" json:"variant,omitempty"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

type Payment struct {
	ID            int           `gorm:"primary_key" json:"id"`
	OrderId       int           `gorm:"uniqueIndex;not null" json:"order_id"`
	Method        PaymentMethod `gorm:"size:50;not null" json:"method"`
	CurrentStatus PaymentStatus `gorm:"type:enum('PENDING','CAPTURED','FAILED','REFUNDED');default:PENDING" json:"current_status"`
	AmountInCents int64         `gorm:"not null;default:0" json:"amount_in_cents"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// OrderLineItem is the normalized line shape the transaction engine
// consumes, whether the request carried explicit items (POS) or a cart
// reference (online checkout).
type OrderLineItem struct {
	ProductId        int   `json:"productId"`
	VariantId        int   `json:"variantId" binding:"required"`
	Quantity         int   `json:"quantity" binding:"required,min=1"`
	UnitPriceInCents int64 `json:"unitPriceInCents" binding:"min=0"`
}

type OrdersEdge Edge[Order]
type OrdersConnection struct {
	Edges    []*OrdersEdge `json:"edges"`
	PageInfo *PageInfo     `json:"pageInfo"`
}

func (o Order) GetCursor() string {
	return strconv.Itoa(o.ID)
}

// generateOrderNumber builds the human-readable order token. Time-based and
// unique per call for any realistic clock; collisions are not retried.
func generateOrderNumber(now time.Time) string {
	return fmt.Sprintf("VP-%s-%s",
		now.UTC().Format("20060102"),
		strings.ToUpper(strconv.FormatInt(now.UnixNano()%1e12, 36)))
}

func validateLineItems(items []OrderLineItem) error {
	if len(items) == 0 {
		return ErrNoItemsProvided
	}
	for _, item := range items {
		if item.VariantId <= 0 {
			return errors.New("variant id is required")
		}
		if item.Quantity <= 0 {
			return errors.New("quantity must be positive")
		}
		if item.UnitPriceInCents < 0 {
			return errors.New("unit price cannot be negative")
		}
	}
	return nil
}

// PlaceOrder turns normalized line items into a persisted order while
// decrementing variant stock, as one all-or-nothing DB transaction.
//
// Each variant row is read under FOR UPDATE before the stock check, so two
// concurrent placements for the same variant serialize on the row lock and
// the check-then-decrement cannot oversell. The GREATEST(x - ?, 0) clamp
// stays as a last-resort floor; with the row lock the pre-check makes it
// unreachable.
//
// On any failure the transaction rolls back: no partial stock decrement, no
// orphaned order or payment. Callers may retry the whole request.
func PlaceOrder(ctx context.Context, items []OrderLineItem, channel OrderChannel,
	method PaymentMethod, customerId *int, shippingAddressId *int,
	billingAddressId *int, notes string) (*Order, error) {

	if err := validateLineItems(items); err != nil {
		return nil, err
	}
	if channel != OrderChannelPos && channel != OrderChannelOnline {
		return nil, errors.New("invalid order channel")
	}
	if customerId != nil {
		if err := utils.ValidateResourceId[Customer](ctx, *customerId); err != nil {
			return nil, errors.New("customer not found")
		}
	}
	if shippingAddressId != nil {
		if err := utils.ValidateResourceId[Address](ctx, *shippingAddressId); err != nil {
			return nil, errors.New("shipping address not found")
		}
	}
	if billingAddressId != nil {
		if err := utils.ValidateResourceId[Address](ctx, *billingAddressId); err != nil {
			return nil, errors.New("billing address not found")
		}
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var orderItems []OrderItem
	var subtotalInCents int64

	for _, item := range items {
		// lock the variant row for the duration of the check-and-decrement
		var variant ProductVariant
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&variant, item.VariantId).Error
		if err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &VariantNotFoundError{VariantId: item.VariantId}
			}
			return nil, err
		}

		if variant.Stock < item.Quantity {
			var product Product
			productName := fmt.Sprintf("product %d", variant.ProductId)
			if perr := tx.Select("name").First(&product, variant.ProductId).Error; perr == nil {
				productName = product.Name
			}
			tx.Rollback()
			return nil, &InsufficientStockError{
				ProductName: productName,
				VariantSize: variant.Size,
				Available:   variant.Stock,
			}
		}

		if err := tx.Exec("UPDATE product_variants SET stock = GREATEST(stock - ?, 0) WHERE id = ?",
			item.Quantity, variant.ID).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.Exec("UPDATE products SET total_stock = GREATEST(total_stock - ?, 0) WHERE id = ?",
			item.Quantity, variant.ProductId).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		orderItems = append(orderItems, OrderItem{
			ProductId:        variant.ProductId,
			VariantId:        variant.ID,
			Quantity:         item.Quantity,
			UnitPriceInCents: item.UnitPriceInCents,
		})
		subtotalInCents += item.UnitPriceInCents * int64(item.Quantity)
	}

	orderStatus, paymentStatus := DeriveOrderStatus(channel, method)

	order := Order{
		OrderNumber:       generateOrderNumber(time.Now()),
		Channel:           channel,
		CurrentStatus:     orderStatus,
		CustomerId:        customerId,
		ShippingAddressId: shippingAddressId,
		BillingAddressId:  billingAddressId,
		Notes:             notes,
		SubtotalInCents:   subtotalInCents,
		TotalInCents:      subtotalInCents,
		Items:             orderItems,
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if method != "" {
		payment := Payment{
			OrderId:       order.ID,
			Method:        method,
			CurrentStatus: paymentStatus,
			AmountInCents: order.TotalInCents,
		}
		if err := tx.Create(&payment).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return GetOrder(ctx, order.ID)
}

func GetOrder(ctx context.Context, id int) (*Order, error) {
	return utils.FetchModel[Order](ctx, id,
		"Items", "Items.Product", "Items.Variant", "Payment", "Customer")
}

func GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	db := config.GetDB()
	var order Order
	err := db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").Preload("Items.Variant").
		Preload("Payment").Preload("Customer").
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &order, nil
}

// UpdateOrderStatus is the admin correction path; it never touches stock.
func UpdateOrderStatus(ctx context.Context, id int, status OrderStatus) (*Order, error) {
	if !status.IsValid() {
		return nil, errors.New("invalid order status")
	}

	order, err := utils.FetchModel[Order](ctx, id)
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&order).Update("CurrentStatus", status).Error; err != nil {
		return nil, err
	}
	return GetOrder(ctx, id)
}

func PaginateOrders(ctx context.Context, limit *int, after *string,
	channel *OrderChannel, status *OrderStatus) (*OrdersConnection, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).
		Preload("Items").Preload("Payment").Preload("Customer")
	if channel != nil && *channel != "" {
		dbCtx = dbCtx.Where("channel = ?", *channel)
	}
	if status != nil && *status != "" {
		dbCtx = dbCtx.Where("current_status = ?", *status)
	}

	pageLimit := config.SearchLimit
	if limit != nil && *limit > 0 {
		pageLimit = *limit
	}

	edges, pageInfo, err := FetchPagePureCursor[Order](dbCtx, pageLimit, after, "id", "<")
	if err != nil {
		return nil, err
	}

	var connection OrdersConnection
	connection.PageInfo = pageInfo
	for _, edge := range edges {
		ordersEdge := OrdersEdge(edge)
		connection.Edges = append(connection.Edges, &ordersEdge)
	}
	return &connection, nil
}
