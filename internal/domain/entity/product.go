package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo del punto de venta.
// CurrentStock es el valor autoritativo; solo lo modifican ventas, ajustes y conteos.
type Product struct {
	ID           string
	Name         string
	Description  string
	SKU          string // único
	Barcode      string // opcional, único si existe
	CategoryID   string
	CategoryName string // solo lectura (join)
	Unit         string // unidad de medida: Kg, L, pcs...
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	CurrentStock decimal.Decimal
	ReorderLevel decimal.Decimal
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock indica si el stock llegó al punto de reorden.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock.LessThanOrEqual(p.ReorderLevel)
}

// IsOutOfStock indica si no queda stock disponible.
func (p *Product) IsOutOfStock() bool {
	return p.CurrentStock.LessThanOrEqual(decimal.Zero)
}

// SellsBelowCost es la validación blanda precio >= costo: se advierte, no se bloquea.
func (p *Product) SellsBelowCost() bool {
	return p.SellingPrice.LessThan(p.CostPrice)
}

// StockLevel fila bloqueada de un producto tal como la ve el libro de stock.
type StockLevel struct {
	ProductID    string
	Name         string
	SKU          string
	Unit         string
	SellingPrice decimal.Decimal
	CurrentStock decimal.Decimal
}
