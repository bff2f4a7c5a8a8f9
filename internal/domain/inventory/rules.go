// Package inventory reúne las reglas puras del libro de stock y los cálculos del punto de venta.
// No hace I/O: la capa de aplicación lee y bloquea filas y luego delega aquí las decisiones.
package inventory

import (
	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Escalas de las columnas NUMERIC: cantidades con 3 decimales, importes con 2.
const (
	QuantityScale int32 = 3
	MoneyScale    int32 = 2
)

// FitsScale indica si value se guarda sin redondeo con scale decimales.
func FitsScale(value decimal.Decimal, scale int32) bool {
	return value.Round(scale).Equal(value)
}

// Policy política del libro de stock.
type Policy struct {
	AllowNegativeStock bool
}

// CheckRemoval verifica que se puedan retirar requested unidades del stock actual.
func (p Policy) CheckRemoval(level entity.StockLevel, requested decimal.Decimal) error {
	if p.AllowNegativeStock {
		return nil
	}
	if level.CurrentStock.LessThan(requested) {
		return &domain.InsufficientStockError{
			ProductID:   level.ProductID,
			ProductName: level.Name,
			Available:   level.CurrentStock,
			Requested:   requested,
		}
	}
	return nil
}

// AdjustmentDelta devuelve el cambio con signo que produce un ajuste.
func AdjustmentDelta(typ entity.AdjustmentType, quantity decimal.Decimal) decimal.Decimal {
	if typ.IsRemoval() {
		return quantity.Neg()
	}
	return quantity
}

// Variance diferencia entre lo contado y lo esperado; negativa implica pérdida no registrada.
func Variance(expected, actual decimal.Decimal) decimal.Decimal {
	return actual.Sub(expected)
}

// Availability resultado de ValidateStockAvailability.
type Availability struct {
	IsAvailable bool
	Message     string
}

// ValidateStockAvailability chequeo previo al carrito (sin bloqueo); el libro vuelve a validar al confirmar.
func ValidateStockAvailability(requested, available decimal.Decimal) Availability {
	if !requested.IsPositive() {
		return Availability{Message: "Quantity must be greater than zero"}
	}
	if requested.GreaterThan(available) {
		return Availability{Message: "Only " + available.String() + " units available in stock"}
	}
	return Availability{IsAvailable: true}
}
