package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products. CurrentStock es el stock de apertura.
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Description  string          `json:"description" validate:"max=1000"`
	SKU          string          `json:"sku" validate:"required,max=64"`
	Barcode      string          `json:"barcode" validate:"omitempty,max=64"`
	CategoryID   string          `json:"categoryId"`
	Unit         string          `json:"unit" validate:"omitempty,max=16"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	CurrentStock decimal.Decimal `json:"currentStock"`
	ReorderLevel decimal.Decimal `json:"reorderLevel"`
	IsActive     *bool           `json:"isActive"`
}

// UpdateProductRequest body para PUT /api/products/:id. El stock no se puede editar aquí.
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description" validate:"omitempty,max=1000"`
	SKU          *string          `json:"sku" validate:"omitempty,min=1,max=64"`
	Barcode      *string          `json:"barcode" validate:"omitempty,max=64"`
	CategoryID   *string          `json:"categoryId"`
	Unit         *string          `json:"unit" validate:"omitempty,max=16"`
	CostPrice    *decimal.Decimal `json:"costPrice"`
	SellingPrice *decimal.Decimal `json:"sellingPrice"`
	ReorderLevel *decimal.Decimal `json:"reorderLevel"`
	IsActive     *bool            `json:"isActive"`
}

// ProductListQuery filtros de GET /api/products.
type ProductListQuery struct {
	Query      string `query:"q"`
	CategoryID string `query:"categoryId"`
	Stock      string `query:"stock" validate:"omitempty,oneof=low out"`
	Active     string `query:"active" validate:"omitempty,oneof=true false"`
	PageRequest
}

// ProductResponse producto en respuestas. Warnings lleva validaciones blandas (precio bajo costo).
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode,omitempty"`
	CategoryID   string          `json:"categoryId,omitempty"`
	CategoryName string          `json:"categoryName,omitempty"`
	Unit         string          `json:"unit"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	CurrentStock decimal.Decimal `json:"currentStock"`
	ReorderLevel decimal.Decimal `json:"reorderLevel"`
	IsActive     bool            `json:"isActive"`
	IsLowStock   bool            `json:"isLowStock"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// ProductListResponse listado paginado.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// StockResponse stock actual de un producto.
type StockResponse struct {
	ProductID    string          `json:"productId"`
	CurrentStock decimal.Decimal `json:"currentStock"`
	Cached       bool            `json:"cached"`
}

// ProfitMarginResponse margen de un producto a sus precios vigentes.
type ProfitMarginResponse struct {
	ProductID    string          `json:"productId"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	Profit       decimal.Decimal `json:"profit"`
	MarginPct    decimal.Decimal `json:"margin"`
	MarkupPct    decimal.Decimal `json:"markup"`
}

// CreateCategoryRequest body para POST /api/categories.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateCategoryRequest body para PUT /api/categories/:id.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// CategoryResponse categoría con su cantidad de productos.
type CategoryResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ProductCount int       `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
