package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/humbertomar/vipo-backend/config"
	"github.com/humbertomar/vipo-backend/models"
	"github.com/humbertomar/vipo-backend/utils"
)

func paramId(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// modelErrorResponse is the shared mapping for CRUD handlers: missing
// records are 404, validation failures are 400.
func modelErrorResponse(c *gin.Context, moduleName string, functionName string, err error) {
	if errors.Is(err, utils.ErrorRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	config.LogError(config.GetLogger(), moduleName, functionName, "request failed", nil, err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func listProductsHandler(c *gin.Context) {
	var categoryId *int
	if v := c.Query("category_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
			return
		}
		categoryId = &id
	}

	products, err := models.ListActiveProducts(c.Request.Context(), categoryId)
	if err != nil {
		modelErrorResponse(c, "catalog.go", "listProductsHandler", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func getProductHandler(c *gin.Context) {
	product, err := models.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		modelErrorResponse(c, "catalog.go", "getProductHandler", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func listCategoriesHandler(c *gin.Context) {
	categories, err := models.ListAllProductCategories(c.Request.Context())
	if err != nil {
		modelErrorResponse(c, "catalog.go", "listCategoriesHandler", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func getCartHandler(c *gin.Context) {
	customerId, ok := paramId(c, "customerId")
	if !ok {
		return
	}
	cart, err := models.GetOrCreateCart(c.Request.Context(), customerId)
	if err != nil {
		modelErrorResponse(c, "catalog.go", "getCartHandler", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func addCartItemHandler(c *gin.Context) {
	customerId, ok := paramId(c, "customerId")
	if !ok {
		return
	}

	var input models.NewCartItem
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	cart, err := models.AddCartItem(c.Request.Context(), customerId, &input)
	if err != nil {
		modelErrorResponse(c, "catalog.go", "addCartItemHandler", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func updateCartItemHandler(c *gin.Context) {
	customerId, ok := paramId(c, "customerId")
	if !ok {
		return
	}
	itemId, ok := paramId(c, "itemId")
	if !ok {
		return
	}

	var input struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	cart, err := models.UpdateCartItem(c.Request.Context(), customerId, itemId, input.Quantity)
	if err != nil {
		modelErrorResponse(c, "catalog.go", "updateCartItemHandler", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func removeCartItemHandler(c *gin.Context) {
	customerId, ok := paramId(c, "customerId")
	if !ok {
		return
	}
	itemId, ok := paramId(c, "itemId")
	if !ok {
		return
	}

	cart, err := models.RemoveCartItem(c.Request.Context(), customerId, itemId)
	if err != nil {
		modelErrorResponse(c, "catalog.go", "removeCartItemHandler", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}
