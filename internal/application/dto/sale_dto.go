package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de POST /api/sales. Sin unitPrice se usa el precio de venta vigente.
type SaleItemRequest struct {
	ProductID string           `json:"productId" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerName  string            `json:"customerName" validate:"max=200"`
	PaymentMethod string            `json:"paymentMethod" validate:"required,oneof=CASH CARD MOBILE_MONEY"`
	Discount      decimal.Decimal   `json:"discount"`
	AmountPaid    *decimal.Decimal  `json:"amountPaid"`
	Notes         string            `json:"notes" validate:"max=1000"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleListQuery filtros de GET /api/sales. Fechas YYYY-MM-DD (días UTC completos).
type SaleListQuery struct {
	Query         string `query:"q"`
	PaymentMethod string `query:"paymentMethod" validate:"omitempty,oneof=CASH CARD MOBILE_MONEY"`
	StartDate     string `query:"startDate"`
	EndDate       string `query:"endDate"`
	Take          int    `query:"take" validate:"min=0,max=1000"`
	Skip          int    `query:"skip" validate:"min=0"`
}

// SaleItemResponse línea de venta.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	SKU         string          `json:"sku"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// StockLevelResponse stock resultante de un producto tras la venta.
type StockLevelResponse struct {
	ProductID    string          `json:"productId"`
	CurrentStock decimal.Decimal `json:"currentStock"`
}

// SaleResponse venta con items y totales.
type SaleResponse struct {
	ID            string               `json:"id"`
	SaleNumber    string               `json:"saleNumber"`
	UserID        string               `json:"userId"`
	UserName      string               `json:"userName,omitempty"`
	CustomerName  string               `json:"customerName,omitempty"`
	PaymentMethod string               `json:"paymentMethod"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	Tax           decimal.Decimal      `json:"tax"`
	Discount      decimal.Decimal      `json:"discount"`
	Total         decimal.Decimal      `json:"total"`
	AmountPaid    decimal.Decimal      `json:"amountPaid"`
	Change        decimal.Decimal      `json:"change"`
	Notes         string               `json:"notes,omitempty"`
	Items         []SaleItemResponse   `json:"items"`
	StockLevels   []StockLevelResponse `json:"stockLevels,omitempty"`
	Replayed      bool                 `json:"replayed,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// SaleListResponse listado {data, meta}.
type SaleListResponse struct {
	Data []SaleResponse `json:"data"`
	Meta ListMeta       `json:"meta"`
}
