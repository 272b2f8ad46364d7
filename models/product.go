package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/humbertomar/vipo-backend/config"
	"github.com/humbertomar/vipo-backend/utils"
)

type Product struct {
	ID           int              `gorm:"primary_key" json:"id"`
	CategoryId   int              `gorm:"index;not null" json:"category_id" binding:"required"`
	Name         string           `gorm:"size:255;not null" json:"name" binding:"required"`
	Slug         string           `gorm:"size:255;uniqueIndex;not null" json:"slug" binding:"required"`
	Sku          string           `gorm:"size:100" json:"sku"`
	Description  string           `gorm:"type:text" json:"description"`
	PriceInCents int64            `gorm:"not null;default:0" json:"price_in_cents"`
	TotalStock   int              `gorm:"not null;default:0" json:"total_stock"`
	IsActive     *bool            `gorm:"not null;default:true" json:"is_active"`
	Variants     []ProductVariant `gorm:"foreignKey:ProductId" json:"variants,omitempty"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	CategoryId   int    `json:"category_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Slug         string `json:"slug" binding:"required"`
	Sku          string `json:"sku"`
	Description  string `json:"description"`
	PriceInCents int64  `json:"price_in_cents" binding:"min=0"`
	IsActive     *bool  `json:"is_active"`
}

type ProductsEdge Edge[Product]
type ProductsConnection struct {
	Edges    []*ProductsEdge `json:"edges"`
	PageInfo *PageInfo       `json:"pageInfo"`
}

// node
// returns decoded cursor string
func (p Product) GetCursor() string {
	return p.Name
}

const productCacheSeconds = 300

func productCacheKey(slug string) string {
	return fmt.Sprintf("product:slug:%s", slug)
}

// isDuplicateEntry unwraps the MySQL driver error for unique-index
// violations (slug, sku) so callers can answer with a friendly message
// instead of a raw driver string.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// check if order items reference the product when deleted
func (p Product) validateTransactions(ctx context.Context) error {
	count, err := utils.ResourceCountWhere[OrderItem](ctx, "product_id = ?", p.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("transaction already exists")
	}
	return nil
}

// validate input for both create & update. (id = 0 for create)
func (input *NewProduct) validate(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[ProductCategory](ctx, input.CategoryId); err != nil {
		return errors.New("category not found")
	}
	if err := utils.ValidateUnique[Product](ctx, "slug", input.Slug, id); err != nil {
		return err
	}
	if input.PriceInCents < 0 {
		return errors.New("price cannot be negative")
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	product := Product{
		CategoryId:   input.CategoryId,
		Name:         input.Name,
		Slug:         input.Slug,
		Sku:          input.Sku,
		Description:  input.Description,
		PriceInCents: input.PriceInCents,
		IsActive:     input.IsActive,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		if isDuplicateEntry(err) {
			return nil, errors.New("duplicate slug")
		}
		return nil, err
	}
	return &product, nil
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {
	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&product).Updates(map[string]interface{}{
		"CategoryId":   input.CategoryId,
		"Name":         input.Name,
		"Slug":         input.Slug,
		"Sku":          input.Sku,
		"Description":  input.Description,
		"PriceInCents": input.PriceInCents,
		"IsActive":     input.IsActive,
	}).Error
	if err != nil {
		return nil, err
	}

	// drop stale catalog cache for this slug
	if err := config.RemoveRedisKey(productCacheKey(product.Slug)); err != nil {
		config.LogError(config.GetLogger(), "product.go", "UpdateProduct", "RemoveRedisKey", product.Slug, err)
	}
	return product, nil
}

func DeleteProduct(ctx context.Context, id int) (*Product, error) {
	result, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if err := result.validateTransactions(ctx); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Select("Variants").Delete(&result).Error; err != nil {
		return nil, err
	}

	if err := config.RemoveRedisKey(productCacheKey(result.Slug)); err != nil {
		config.LogError(config.GetLogger(), "product.go", "DeleteProduct", "RemoveRedisKey", result.Slug, err)
	}
	return result, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return utils.FetchModel[Product](ctx, id, "Variants")
}

// GetProductBySlug serves the public catalog page; cached briefly in redis
// because it is the hottest read in the system. Stock counts shown here are
// informational only; the placement transaction re-reads them under lock.
func GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	var cached Product
	found, err := config.GetRedisObject(productCacheKey(slug), &cached)
	if err != nil {
		config.LogError(config.GetLogger(), "product.go", "GetProductBySlug", "GetRedisObject", slug, err)
	}
	if found {
		return &cached, nil
	}

	db := config.GetDB()
	var product Product
	if err := db.WithContext(ctx).Preload("Variants").Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if err := config.SetRedisObject(productCacheKey(slug), product, productCacheSeconds*time.Second); err != nil {
		config.LogError(config.GetLogger(), "product.go", "GetProductBySlug", "SetRedisObject", slug, err)
	}
	return &product, nil
}

func ListActiveProducts(ctx context.Context, categoryId *int) ([]*Product, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Variants").Where("is_active = ?", true)
	if categoryId != nil && *categoryId > 0 {
		dbCtx = dbCtx.Where("category_id = ?", *categoryId)
	}
	var results []*Product
	if err := dbCtx.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func PaginateProducts(ctx context.Context, limit *int, after *string, name *string) (*ProductsConnection, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Variants")
	if name != nil && *name != "" {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}

	pageLimit := config.SearchLimit
	if limit != nil && *limit > 0 {
		pageLimit = *limit
	}

	edges, pageInfo, err := FetchPagePureCursor[Product](dbCtx, pageLimit, after, "name", ">")
	if err != nil {
		return nil, err
	}

	var connection ProductsConnection
	connection.PageInfo = pageInfo
	for _, edge := range edges {
		productsEdge := ProductsEdge(edge)
		connection.Edges = append(connection.Edges, &productsEdge)
	}
	return &connection, nil
}
