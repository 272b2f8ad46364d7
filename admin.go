package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/humbertomar/vipo-backend/models"
	"github.com/humbertomar/vipo-backend/utils"
)

func queryIntPtr(c *gin.Context, name string) *int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return &n
		}
	}
	return nil
}

func queryStrPtr(c *gin.Context, name string) *string {
	if v := c.Query(name); v != "" {
		return &v
	}
	return nil
}

func loginHandler(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	token, err := models.Login(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func createUserHandler(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	user, err := models.CreateUser(c.Request.Context(), &input)
	if err != nil {
		modelErrorResponse(c, "admin.go", "createUserHandler", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func createProductHandler(c *gin.Context) {
	var input models.NewProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	product, err := models.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		modelErrorResponse(c, "admin.go", "createProductHandler", err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func updateProductHandler(c *gin.Context) {
	id, ok := paramId(c, "id")
	if !ok {
		return
	}

	var input models.NewProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	product, err := models.UpdateProduct(c.Request.Context(), id, &input)
	if err != nil {
		modelErrorResponse(c, "admin.go", "updateProductHandler", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func deleteProductHandler(c *gin.Context) {
	id, ok := paramId(c, "id")
	if !ok {
		return
	}

	product, err := models.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		modelErrorResponse(c, "admin.go", "deleteProductHandler", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func paginateProductsHandler(c *gin.Context) {
	connection, err := models.PaginateProducts(c.Request.Context(),
		queryIntPtr(c, "limit"), queryStrPtr(c, "after"), queryStrPtr(c, "name"))
	if err != nil {
		modelErrorResponse(c, "admin.go", "paginateProductsHandler", err)
		return
	}
	c.JSON(http.StatusOK, connection)
}

func createVariantHandler(c *gin.Context) {
	var input models.NewProductVariant
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	variant, err := models.CreateProductVariant(c.Request.Context(), &input)
	if err != nil {
		modelErrorResponse(c, "admin.go", "createVariantHandler", err)
		return
	}
	c.JSON(http.StatusCreated, variant)
}

func updateVariantHandler(c *gin.Context) {
	id, ok := paramId(c, "id")
	if !ok {
		return
	}

	var input models.NewProductVariant
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	variant, err := models.UpdateProductVariant(c.Request.Context(), id, &input)
	if err != nil {
		modelErrorResponse(c, "admin.go", "updateVariantHandler", err)
		return
	}
	c.JSON(http.StatusOK, variant)
}

func deleteVariantHandler(c *gin.Context) {
	id, ok := paramId(c, "id")
	if !ok {
		return
	}

	variant, err := models.DeleteProductVariant(c.Request.Context(), id)
	if err != nil {
		modelErrorResponse(c, "admin.go", "deleteVariantHandler", err)
		return
	}
	c.JSON(http.StatusOK, variant)
}

func createCategoryHandler(c *gin.Context) {
	var input models.NewProductCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	category, err := models.CreateProductCategory(c.Request.Context(), &input)
	if err != nil {
		modelErrorResponse(c, "admin.go", "createCategoryHandler", err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func updateCategoryHandler(c *gin.Context) {
	id, ok := paramId(c, "id")
	if !ok {
		return
	}

	var input models.NewProductCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	category, err := models.UpdateProductCategory(c.Request.Context(), id, &input)
	if err != nil {
		modelErrorResponse(c, "admin.go", "updateCategoryHandler", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func deleteCategoryHandler(c *gin.Context) {
	id, ok := paramId(c, "id")
	if !ok {
		return
	}

	category, err := models.DeleteProductCategory(c.Request.Context(), id)
	if err != nil {
		modelErrorResponse(c, "admin.go", "deleteCategoryHandler", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func createCustomerHandler(c *gin.Context) {
	var input models.NewCustomer
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	customer, err := models.CreateCustomer(c.Request.Context(), &input)
	if err != nil {
		modelErrorResponse(c, "admin.go", "createCustomerHandler", err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func updateCustomerHandler(c *gin.Context) {
	id, ok := paramId(c, "id")
	if !ok {
		return
	}

	var input models.NewCustomer
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	customer, err := models.UpdateCustomer(c.Request.Context(), id, &input)
	if err != nil {
		modelErrorResponse(c, "admin.go", "updateCustomerHandler", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func deleteCustomerHandler(c *gin.Context) {
	id, ok := paramId(c, "id")
	if !ok {
		return
	}

	customer, err := models.DeleteCustomer(c.Request.Context(), id)
	if err != nil {
		modelErrorResponse(c, "admin.go", "deleteCustomerHandler", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func listCustomersHandler(c *gin.Context) {
	customers, err := models.ListAllCustomers(c.Request.Context(), queryStrPtr(c, "name"))
	if err != nil {
		modelErrorResponse(c, "admin.go", "listCustomersHandler", err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func createAddressHandler(c *gin.Context) {
	var input models.NewAddress
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	address, err := models.CreateAddress(c.Request.Context(), &input)
	if err != nil {
		modelErrorResponse(c, "admin.go", "createAddressHandler", err)
		return
	}
	c.JSON(http.StatusCreated, address)
}

func deleteAddressHandler(c *gin.Context) {
	id, ok := paramId(c, "id")
	if !ok {
		return
	}

	address, err := models.DeleteAddress(c.Request.Context(), id)
	if err != nil {
		modelErrorResponse(c, "admin.go", "deleteAddressHandler", err)
		return
	}
	c.JSON(http.StatusOK, address)
}

func paginateOrdersHandler(c *gin.Context) {
	var channel *models.OrderChannel
	if v := c.Query("channel"); v != "" {
		ch := models.OrderChannel(v)
		channel = &ch
	}
	var status *models.OrderStatus
	if v := c.Query("status"); v != "" {
		st := models.OrderStatus(v)
		status = &st
	}

	connection, err := models.PaginateOrders(c.Request.Context(),
		queryIntPtr(c, "limit"), queryStrPtr(c, "after"), channel, status)
	if err != nil {
		modelErrorResponse(c, "admin.go", "paginateOrdersHandler", err)
		return
	}
	c.JSON(http.StatusOK, connection)
}

func getOrderHandler(c *gin.Context) {
	id, ok := paramId(c, "id")
	if !ok {
		return
	}

	order, err := models.GetOrder(c.Request.Context(), id)
	if err != nil {
		modelErrorResponse(c, "admin.go", "getOrderHandler", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func updateOrderStatusHandler(c *gin.Context) {
	id, ok := paramId(c, "id")
	if !ok {
		return
	}

	var input struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	order, err := models.UpdateOrderStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		modelErrorResponse(c, "admin.go", "updateOrderStatusHandler", err)
		return
	}
	c.JSON(http.StatusOK, order)
}
