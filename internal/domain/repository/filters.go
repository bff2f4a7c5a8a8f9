package repository

import (
	"time"

	"github.com/nandwere/stock-pos/internal/domain/entity"
)

// StockFilter filtro de nivel de stock para listados de productos.
type StockFilter string

const (
	StockAny StockFilter = ""
	StockLow StockFilter = "low" // current_stock <= reorder_level
	StockOut StockFilter = "out" // current_stock <= 0
)

// ProductFilter criterios de búsqueda de productos.
type ProductFilter struct {
	Query      string // nombre, SKU o código de barras (sin distinguir mayúsculas)
	CategoryID string
	Stock      StockFilter
	Active     *bool
	Limit      int
	Offset     int
}

// UserFilter criterios de búsqueda de usuarios.
type UserFilter struct {
	Query    string // nombre o email
	Role     entity.Role
	IsActive *bool
	Limit    int
	Offset   int
}

// SaleFilter criterios de búsqueda de ventas. Start/End son inclusivos.
type SaleFilter struct {
	Query         string // número de venta o cliente
	PaymentMethod entity.PaymentMethod
	Start         *time.Time
	End           *time.Time
	Limit         int
	Offset        int
}

// AdjustmentFilter criterios para el historial de ajustes.
type AdjustmentFilter struct {
	ProductID string
	Type      entity.AdjustmentType
	Start     *time.Time
	End       *time.Time
	Limit     int
	Offset    int
}

// CountFilter criterios para el historial de conteos. End es exclusivo.
type CountFilter struct {
	ProductID string
	Start     *time.Time
	End       *time.Time
	Limit     int
}
