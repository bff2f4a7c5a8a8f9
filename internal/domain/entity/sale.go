package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago de una venta.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "CASH"
	PaymentCard        PaymentMethod = "CARD"
	PaymentMobileMoney PaymentMethod = "MOBILE_MONEY"
)

// Valid indica si el medio de pago es conocido.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobileMoney:
		return true
	}
	return false
}

// Sale cabecera de una venta. Total = Σ items.Subtotal + Tax - Discount.
type Sale struct {
	ID             string
	SaleNumber     string // SALE-YYMMDD-NNNNNN
	UserID         string
	UserName       string // solo lectura (join)
	CustomerName   string
	PaymentMethod  PaymentMethod
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Discount       decimal.Decimal
	Total          decimal.Decimal
	AmountPaid     decimal.Decimal
	Change         decimal.Decimal
	Notes          string
	IdempotencyKey string // opcional
	Items          []SaleItem
	CreatedAt      time.Time
}

// SaleItem línea de venta; cantidad y precio quedan fijos al momento de la venta.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string
	SKU         string
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal // Quantity * UnitPrice
}

// SalesSummary agregados de ventas para reportes.
type SalesSummary struct {
	TotalSales decimal.Decimal
	SalesCount int
	ByMethod   map[PaymentMethod]decimal.Decimal
}

// ProductSales unidades vendidas de un producto en un período.
type ProductSales struct {
	ProductID string
	Units     decimal.Decimal
	Revenue   decimal.Decimal
}
