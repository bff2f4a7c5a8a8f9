package inventory

import (
	"fmt"
	"time"

	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineAmount cantidad y precio de una línea para el cálculo de totales.
type LineAmount struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// SaleTotals totales de una venta redondeados a 2 decimales.
type SaleTotals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// LineSubtotal cantidad × precio unitario, a 2 decimales.
func LineSubtotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(2)
}

// CalculateSaleTotals Total = Σ subtotales + subtotal×taxRate - discount.
func CalculateSaleTotals(lines []LineAmount, taxRate, discount decimal.Decimal) SaleTotals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(LineSubtotal(l.Quantity, l.UnitPrice))
	}
	tax := subtotal.Mul(taxRate).Round(2)
	discount = discount.Round(2)
	return SaleTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal.Add(tax).Sub(discount),
	}
}

// CalculateChange vuelto a entregar; nunca negativo.
func CalculateChange(total, amountPaid decimal.Decimal) decimal.Decimal {
	change := amountPaid.Sub(total)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change.Round(2)
}

// GenerateSaleNumber SALE-YYMMDD-<últimos 6 dígitos de los milisegundos unix>, fecha UTC.
// El sufijo se repite cada 1000 s: quien inserta debe reintentar ante un duplicado.
func GenerateSaleNumber(now time.Time) string {
	now = now.UTC()
	ms := fmt.Sprintf("%06d", now.UnixMilli()%1_000_000)
	return fmt.Sprintf("SALE-%s-%s", now.Format("060102"), ms)
}

// StockVariance comparación entre stock esperado y contado.
type StockVariance struct {
	ProductID        string
	ProductName      string
	ExpectedStock    decimal.Decimal
	ActualStock      decimal.Decimal
	Variance         decimal.Decimal
	UnrecordedUnits  decimal.Decimal
	EstimatedRevenue decimal.Decimal
}

// VarianceFromExpected calcula la varianza y estima el ingreso de las unidades faltantes.
func VarianceFromExpected(expected, actual, sellingPrice decimal.Decimal) StockVariance {
	variance := Variance(expected, actual)
	unrecorded := decimal.Zero
	if variance.IsNegative() {
		unrecorded = variance.Abs()
	}
	return StockVariance{
		ExpectedStock:    expected,
		ActualStock:      actual,
		Variance:         variance,
		UnrecordedUnits:  unrecorded,
		EstimatedRevenue: unrecorded.Mul(sellingPrice).Round(2),
	}
}

// CalculateStockVariance esperado = apertura - ventas registradas.
func CalculateStockVariance(openingStock, recordedSales, actualStock, sellingPrice decimal.Decimal) StockVariance {
	return VarianceFromExpected(openingStock.Sub(recordedSales), actualStock, sellingPrice)
}

// DailySummary resumen del día combinando ventas registradas y faltantes del conteo.
type DailySummary struct {
	RecordedSales                 decimal.Decimal
	RecordedSalesCount            int
	UnrecordedRevenue             decimal.Decimal
	EstimatedUnrecordedSalesCount int
	TotalEstimatedRevenue         decimal.Decimal
}

// CalculateDailySummary suma el ingreso estimado de las varianzas negativas.
func CalculateDailySummary(variances []StockVariance, recordedSalesTotal decimal.Decimal, recordedSalesCount int) DailySummary {
	unrecorded := decimal.Zero
	missing := 0
	for _, v := range variances {
		if v.Variance.IsNegative() {
			unrecorded = unrecorded.Add(v.EstimatedRevenue)
			missing++
		}
	}
	recorded := recordedSalesTotal.Round(2)
	return DailySummary{
		RecordedSales:                 recorded,
		RecordedSalesCount:            recordedSalesCount,
		UnrecordedRevenue:             unrecorded.Round(2),
		EstimatedUnrecordedSalesCount: missing,
		TotalEstimatedRevenue:         recorded.Add(unrecorded).Round(2),
	}
}

// ProfitMargin ganancia unitaria, margen sobre venta y markup sobre costo (porcentajes).
type ProfitMargin struct {
	Profit    decimal.Decimal
	MarginPct decimal.Decimal
	MarkupPct decimal.Decimal
}

// CalculateProfitMargin devuelve 0% cuando el denominador es cero.
func CalculateProfitMargin(costPrice, sellingPrice decimal.Decimal) ProfitMargin {
	profit := sellingPrice.Sub(costPrice)
	out := ProfitMargin{Profit: profit.Round(2), MarginPct: decimal.Zero, MarkupPct: decimal.Zero}
	if !sellingPrice.IsZero() {
		out.MarginPct = profit.Div(sellingPrice).Mul(hundred).Round(2)
	}
	if !costPrice.IsZero() {
		out.MarkupPct = profit.Div(costPrice).Mul(hundred).Round(2)
	}
	return out
}

// InventoryValue valorización del stock a costo y a precio de venta.
type InventoryValue struct {
	CostValue       decimal.Decimal
	RetailValue     decimal.Decimal
	PotentialProfit decimal.Decimal
}

// CalculateInventoryValue ignora productos con stock negativo o cero.
func CalculateInventoryValue(products []*entity.Product) InventoryValue {
	cost, retail := decimal.Zero, decimal.Zero
	for _, p := range products {
		if !p.CurrentStock.IsPositive() {
			continue
		}
		cost = cost.Add(p.CurrentStock.Mul(p.CostPrice))
		retail = retail.Add(p.CurrentStock.Mul(p.SellingPrice))
	}
	cost, retail = cost.Round(2), retail.Round(2)
	return InventoryValue{CostValue: cost, RetailValue: retail, PotentialProfit: retail.Sub(cost)}
}

// NeedsReorder stock actual en o bajo el punto de reorden.
func NeedsReorder(currentStock, reorderLevel decimal.Decimal) bool {
	return currentStock.LessThanOrEqual(reorderLevel)
}

// CalculateReorderQuantity ceil(venta diaria × (días de entrega + días de seguridad)).
func CalculateReorderQuantity(averageDailySales decimal.Decimal, leadTimeDays, safetyStockDays int) decimal.Decimal {
	days := decimal.NewFromInt(int64(leadTimeDays + safetyStockDays))
	return averageDailySales.Mul(days).Ceil()
}

// PercentageChange variación entre dos períodos.
type PercentageChange struct {
	Change           decimal.Decimal
	PercentageChange decimal.Decimal
	IsIncrease       bool
}

// CalculatePercentageChange con período previo en cero reporta 100% si hubo actividad.
func CalculatePercentageChange(current, previous decimal.Decimal) PercentageChange {
	if previous.IsZero() {
		pct := decimal.Zero
		if current.IsPositive() {
			pct = hundred
		}
		return PercentageChange{Change: current, PercentageChange: pct, IsIncrease: current.IsPositive()}
	}
	change := current.Sub(previous)
	return PercentageChange{
		Change:           change.Round(2),
		PercentageChange: change.Div(previous).Mul(hundred).Round(2),
		IsIncrease:       !change.IsNegative(),
	}
}
