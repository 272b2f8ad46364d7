package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/humbertomar/vipo-backend/config"
	"github.com/humbertomar/vipo-backend/models"
	"github.com/humbertomar/vipo-backend/utils"
	"github.com/humbertomar/vipo-backend/workflow"
)

// Regression: the full cart checkout path. Cart lines are re-priced from
// the catalog, stock is decremented per variant, the product aggregate
// stays consistent, and the consumed cart is cleared after commit.
func TestCheckout_CartOrderDecrementsStock(t *testing.T) {
	ctx := setupIntegration(t)

	category, err := models.CreateProductCategory(ctx, &models.NewProductCategory{Name: "Shirts"})
	if err != nil {
		t.Fatalf("CreateProductCategory: %v", err)
	}
	product, err := models.CreateProduct(ctx, &models.NewProduct{
		CategoryId:   category.ID,
		Name:         "Linen Shirt",
		Slug:         "linen-shirt",
		PriceInCents: 2000,
		IsActive:     utils.NewTrue(),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	variantM, err := models.CreateProductVariant(ctx, &models.NewProductVariant{
		ProductId: product.ID,
		Size:      "M",
		Sku:       "LS-M",
		Stock:     5,
	})
	if err != nil {
		t.Fatalf("CreateProductVariant(M): %v", err)
	}
	variantL, err := models.CreateProductVariant(ctx, &models.NewProductVariant{
		ProductId:              product.ID,
		Size:                   "L",
		Sku:                    "LS-L",
		Stock:                  3,
		PriceAdjustmentInCents: 1000,
	})
	if err != nil {
		t.Fatalf("CreateProductVariant(L): %v", err)
	}

	customer, err := models.CreateCustomer(ctx, &models.NewCustomer{
		Name:  "Ana",
		Phone: "+5511999998888",
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	if _, err := models.AddCartItem(ctx, customer.ID, &models.NewCartItem{VariantId: variantM.ID, Quantity: 2}); err != nil {
		t.Fatalf("AddCartItem(M): %v", err)
	}
	if _, err := models.AddCartItem(ctx, customer.ID, &models.NewCartItem{VariantId: variantL.ID, Quantity: 1}); err != nil {
		t.Fatalf("AddCartItem(L): %v", err)
	}

	result, err := models.Checkout(ctx, &models.CheckoutInput{
		CustomerId:    &customer.ID,
		Channel:       models.OrderChannelOnline,
		PaymentMethod: models.PaymentMethodPix,
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	order := result.Order

	// 2 x 2000 + 1 x (2000 + 1000)
	if order.TotalInCents != 7000 {
		t.Fatalf("expected total 7000, got %d", order.TotalInCents)
	}
	if order.CurrentStatus != models.OrderStatusPending {
		t.Fatalf("expected PENDING order, got %s", order.CurrentStatus)
	}
	if order.Payment == nil || order.Payment.CurrentStatus != models.PaymentStatusPending {
		t.Fatalf("expected PENDING payment, got %+v", order.Payment)
	}
	if order.Payment.AmountInCents != 7000 {
		t.Fatalf("expected payment amount 7000, got %d", order.Payment.AmountInCents)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(order.Items))
	}

	gotM, err := models.GetProductVariant(ctx, variantM.ID)
	if err != nil {
		t.Fatalf("GetProductVariant(M): %v", err)
	}
	if gotM.Stock != 3 {
		t.Fatalf("expected variant M stock 3, got %d", gotM.Stock)
	}
	gotL, err := models.GetProductVariant(ctx, variantL.ID)
	if err != nil {
		t.Fatalf("GetProductVariant(L): %v", err)
	}
	if gotL.Stock != 2 {
		t.Fatalf("expected variant L stock 2, got %d", gotL.Stock)
	}
	gotProduct, err := models.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if gotProduct.TotalStock != 5 {
		t.Fatalf("expected product total_stock 5, got %d", gotProduct.TotalStock)
	}

	// Cart cleanup runs outside the placement transaction.
	if result.ConsumedCartId == 0 {
		t.Fatal("expected checkout to report the consumed cart id")
	}
	cleaner := workflow.NewCartCleaner(models.ClearCartItems, 8)
	cleaner.Start()
	cleaner.Enqueue(result.ConsumedCartId)
	cleaner.Stop()

	cart, err := models.GetCartWithItems(ctx, customer.ID)
	if err != nil {
		t.Fatalf("GetCartWithItems: %v", err)
	}
	if cart == nil {
		t.Fatal("cart row should survive cleanup")
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected cleared cart, got %d items", len(cart.Items))
	}
}

// Regression: a rejected placement leaves no trace. No order or payment
// rows, and stock is untouched.
func TestPlaceOrder_InsufficientStockRollsBack(t *testing.T) {
	ctx := setupIntegration(t)

	category, err := models.CreateProductCategory(ctx, &models.NewProductCategory{Name: "Bags"})
	if err != nil {
		t.Fatalf("CreateProductCategory: %v", err)
	}
	product, err := models.CreateProduct(ctx, &models.NewProduct{
		CategoryId:   category.ID,
		Name:         "Tote Bag",
		Slug:         "tote-bag",
		PriceInCents: 4500,
		IsActive:     utils.NewTrue(),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	inStock, err := models.CreateProductVariant(ctx, &models.NewProductVariant{
		ProductId: product.ID,
		Sku:       "TB-BLK",
		Color:     "black",
		Stock:     4,
	})
	if err != nil {
		t.Fatalf("CreateProductVariant(black): %v", err)
	}
	soldOut, err := models.CreateProductVariant(ctx, &models.NewProductVariant{
		ProductId: product.ID,
		Sku:       "TB-RED",
		Color:     "red",
		Stock:     0,
	})
	if err != nil {
		t.Fatalf("CreateProductVariant(red): %v", err)
	}

	items := []models.OrderLineItem{
		{VariantId: inStock.ID, Quantity: 2, UnitPriceInCents: 4500},
		{VariantId: soldOut.ID, Quantity: 1, UnitPriceInCents: 4500},
	}
	_, err = models.PlaceOrder(ctx, items, models.OrderChannelPos,
		models.PaymentMethodCash, nil, nil, nil, "")
	var insufficient *models.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.ProductName != "Tote Bag" || insufficient.Available != 0 {
		t.Fatalf("unexpected error detail: %+v", insufficient)
	}

	db := config.GetDB()
	var orderCount, paymentCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if err := db.Model(&models.Payment{}).Count(&paymentCount).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if orderCount != 0 || paymentCount != 0 {
		t.Fatalf("expected no order/payment rows, got %d/%d", orderCount, paymentCount)
	}

	// the first line's decrement must have rolled back too
	gotInStock, err := models.GetProductVariant(ctx, inStock.ID)
	if err != nil {
		t.Fatalf("GetProductVariant: %v", err)
	}
	if gotInStock.Stock != 4 {
		t.Fatalf("expected black variant stock 4, got %d", gotInStock.Stock)
	}
	gotProduct, err := models.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if gotProduct.TotalStock != 4 {
		t.Fatalf("expected product total_stock 4, got %d", gotProduct.TotalStock)
	}
}

// POS placement derives CONFIRMED/CAPTURED and an unknown variant id aborts
// the whole order.
func TestPlaceOrder_PosStatusAndUnknownVariant(t *testing.T) {
	ctx := setupIntegration(t)

	category, err := models.CreateProductCategory(ctx, &models.NewProductCategory{Name: "Caps"})
	if err != nil {
		t.Fatalf("CreateProductCategory: %v", err)
	}
	product, err := models.CreateProduct(ctx, &models.NewProduct{
		CategoryId:   category.ID,
		Name:         "Wool Cap",
		Slug:         "wool-cap",
		PriceInCents: 1500,
		IsActive:     utils.NewTrue(),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	variant, err := models.CreateProductVariant(ctx, &models.NewProductVariant{
		ProductId: product.ID,
		Sku:       "WC-OS",
		Stock:     10,
	})
	if err != nil {
		t.Fatalf("CreateProductVariant: %v", err)
	}

	order, err := models.PlaceOrder(ctx,
		[]models.OrderLineItem{{VariantId: variant.ID, Quantity: 1, UnitPriceInCents: 1500}},
		models.OrderChannelPos, models.PaymentMethodPosDebit, nil, nil, nil, "counter sale")
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if order.CurrentStatus != models.OrderStatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", order.CurrentStatus)
	}
	if order.Payment == nil || order.Payment.CurrentStatus != models.PaymentStatusCaptured {
		t.Fatalf("expected CAPTURED payment, got %+v", order.Payment)
	}
	if !strings.HasPrefix(order.OrderNumber, "VP-") {
		t.Fatalf("unexpected order number %q", order.OrderNumber)
	}

	_, err = models.PlaceOrder(ctx,
		[]models.OrderLineItem{
			{VariantId: variant.ID, Quantity: 1, UnitPriceInCents: 1500},
			{VariantId: 999999, Quantity: 1, UnitPriceInCents: 1500},
		},
		models.OrderChannelPos, models.PaymentMethodCash, nil, nil, nil, "")
	var notFound *models.VariantNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected VariantNotFoundError, got %v", err)
	}
	if notFound.VariantId != 999999 {
		t.Fatalf("unexpected variant id in error: %d", notFound.VariantId)
	}

	// the first line rolled back with the failed order
	gotVariant, err := models.GetProductVariant(ctx, variant.ID)
	if err != nil {
		t.Fatalf("GetProductVariant: %v", err)
	}
	if gotVariant.Stock != 9 {
		t.Fatalf("expected stock 9 (only the first order counted), got %d", gotVariant.Stock)
	}
}

func setupIntegration(t *testing.T) context.Context {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "vipo_test")
	t.Setenv("PHONE_REGION", "BR")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	return context.Background()
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("vipo-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("vipo-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=vipo_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
