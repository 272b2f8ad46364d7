package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/humbertomar/vipo-backend/config"
	"github.com/humbertomar/vipo-backend/models"
	"github.com/humbertomar/vipo-backend/utils"
)

// NewOrderRequest is the explicit-items entry point (POS counter sales and
// direct API orders). Prices are trusted as operator-chosen.
type NewOrderRequest struct {
	Items         []models.OrderLineItem `json:"items" binding:"required,dive"`
	PaymentMethod models.PaymentMethod   `json:"paymentMethod" binding:"required"`
	Type          models.OrderChannel    `json:"type" binding:"required"`
	CustomerId    *int                   `json:"userId"`
	Notes         string                 `json:"notes"`
}

// orderErrorResponse maps placement failures to exactly one user-facing
// message. A missing variant is 404, running out of stock is 409, the rest
// of the validation surface is 400.
func orderErrorResponse(c *gin.Context, moduleName string, functionName string, err error) {
	var vnf *models.VariantNotFoundError
	var ins *models.InsufficientStockError
	switch {
	case errors.As(err, &vnf):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &ins):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case models.IsUserFacing(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		modelErrorResponse(c, moduleName, functionName, err)
	}
}

func placeOrderHandler(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "placeOrder")
	defer span.End()

	var req NewOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	order, err := models.PlaceOrder(ctx, req.Items, req.Type, req.PaymentMethod,
		req.CustomerId, nil, nil, req.Notes)
	if err != nil {
		orderErrorResponse(c, "orders.go", "placeOrderHandler", err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// getOrderByNumberHandler serves the public order-tracking lookup by the
// human-readable order token.
func getOrderByNumberHandler(c *gin.Context) {
	order, err := models.GetOrderByNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		modelErrorResponse(c, "orders.go", "getOrderByNumberHandler", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func checkoutHandler(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "checkout")
	defer span.End()

	var input models.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	result, err := models.Checkout(ctx, &input)
	if err != nil {
		orderErrorResponse(c, "orders.go", "checkoutHandler", err)
		return
	}

	// Best-effort follow-up: the order is placed regardless of whether the
	// consumed cart gets cleared.
	if result.ConsumedCartId > 0 && cartCleaner != nil {
		cartCleaner.Enqueue(result.ConsumedCartId)
	}

	c.JSON(http.StatusCreated, result.Order)
}

// paymentWebhookHandler is a log-and-acknowledge stub. External payment
// confirmations are recorded for later reconciliation; nothing in the order
// lifecycle depends on them yet.
func paymentWebhookHandler(c *gin.Context) {
	logger := config.GetLogger()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		// Malformed request body: ack/drop to avoid infinite retries.
		c.Status(http.StatusNoContent)
		return
	}

	cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
	logger.WithField("correlation_id", cid).
		WithField("payload", string(body)).
		Info("payment webhook received")

	c.Status(http.StatusNoContent)
}
