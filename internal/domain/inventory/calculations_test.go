package inventory

import (
	"errors"
	"testing"
	"time"

	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestCalculateSaleTotals(t *testing.T) {
	lines := []LineAmount{
		{Quantity: d("2"), UnitPrice: d("200")},
		{Quantity: d("1.5"), UnitPrice: d("99.99")},
	}
	totals := CalculateSaleTotals(lines, d("0.16"), d("10"))

	assertDec(t, "549.99", totals.Subtotal) // 400 + 149.985 → 149.99
	assertDec(t, "88", totals.Tax)          // 87.9984 → 88.00
	assertDec(t, "10", totals.Discount)
	assertDec(t, "627.99", totals.Total)
	assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.Tax).Sub(totals.Discount)))
}

func TestCalculateChange(t *testing.T) {
	assertDec(t, "50", CalculateChange(d("450"), d("500")))
	assertDec(t, "0", CalculateChange(d("450"), d("400")))
}

func TestGenerateSaleNumber(t *testing.T) {
	ts := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC).Add(123456789 * time.Millisecond)
	n := GenerateSaleNumber(ts)

	assert.Regexp(t, `^SALE-\d{6}-\d{6}$`, n)
	assert.Equal(t, "SALE-"+ts.Format("060102"), n[:11])
	assert.Equal(t, "SALE-250308-", n[:12])

	// La fecha sale en UTC aunque el reloj local esté en otro día.
	local := time.FixedZone("UTC-5", -5*60*60)
	late := time.Date(2025, 3, 7, 22, 0, 0, 0, local)
	assert.Equal(t, "SALE-250308-", GenerateSaleNumber(late)[:12])
	assert.Equal(t, GenerateSaleNumber(late.UTC()), GenerateSaleNumber(late))
}

func TestFitsScale(t *testing.T) {
	assert.True(t, FitsScale(d("1.125"), QuantityScale))
	assert.True(t, FitsScale(d("12"), MoneyScale))
	assert.False(t, FitsScale(d("0.0005"), QuantityScale))
	assert.False(t, FitsScale(d("1.005"), MoneyScale))
}

func TestVariance(t *testing.T) {
	// conteo: esperado 18, contado 15
	v := VarianceFromExpected(d("18"), d("15"), d("200"))
	assertDec(t, "-3", v.Variance)
	assertDec(t, "3", v.UnrecordedUnits)
	assertDec(t, "600", v.EstimatedRevenue)

	// sobrante no genera ingreso estimado
	v = CalculateStockVariance(d("20"), d("5"), d("16"), d("200"))
	assertDec(t, "15", v.ExpectedStock)
	assertDec(t, "1", v.Variance)
	assertDec(t, "0", v.UnrecordedUnits)
	assertDec(t, "0", v.EstimatedRevenue)
}

func TestCalculateDailySummary(t *testing.T) {
	variances := []StockVariance{
		VarianceFromExpected(d("10"), d("8"), d("50")),  // -2 → 100
		VarianceFromExpected(d("5"), d("5"), d("30")),   // 0
		VarianceFromExpected(d("4"), d("3.5"), d("20")), // -0.5 → 10
		VarianceFromExpected(d("1"), d("2"), d("20")),   // +1
	}
	s := CalculateDailySummary(variances, d("1234.567"), 7)

	assertDec(t, "1234.57", s.RecordedSales)
	assert.Equal(t, 7, s.RecordedSalesCount)
	assertDec(t, "110", s.UnrecordedRevenue)
	assert.Equal(t, 2, s.EstimatedUnrecordedSalesCount)
	assertDec(t, "1344.57", s.TotalEstimatedRevenue)
}

func TestCalculateProfitMargin(t *testing.T) {
	m := CalculateProfitMargin(d("170"), d("200"))
	assertDec(t, "30", m.Profit)
	assertDec(t, "15", m.MarginPct)
	assertDec(t, "17.65", m.MarkupPct)

	zero := CalculateProfitMargin(d("0"), d("0"))
	assertDec(t, "0", zero.MarginPct)
	assertDec(t, "0", zero.MarkupPct)
}

func TestCalculateInventoryValue(t *testing.T) {
	products := []*entity.Product{
		{CurrentStock: d("60"), CostPrice: d("170"), SellingPrice: d("200")},
		{CurrentStock: d("2.5"), CostPrice: d("10"), SellingPrice: d("12")},
		{CurrentStock: d("-3"), CostPrice: d("10"), SellingPrice: d("12")},
	}
	v := CalculateInventoryValue(products)
	assertDec(t, "10225", v.CostValue)
	assertDec(t, "12030", v.RetailValue)
	assertDec(t, "1805", v.PotentialProfit)
}

func TestReorder(t *testing.T) {
	assert.True(t, NeedsReorder(d("2"), d("2")))
	assert.False(t, NeedsReorder(d("3"), d("2")))

	assertDec(t, "14", CalculateReorderQuantity(d("1.4"), 3, 7))
	assertDec(t, "11", CalculateReorderQuantity(d("1.01"), 3, 7))
	assertDec(t, "0", CalculateReorderQuantity(d("0"), 3, 7))
}

func TestCalculatePercentageChange(t *testing.T) {
	c := CalculatePercentageChange(d("150"), d("100"))
	assertDec(t, "50", c.Change)
	assertDec(t, "50", c.PercentageChange)
	assert.True(t, c.IsIncrease)

	c = CalculatePercentageChange(d("80"), d("100"))
	assertDec(t, "-20", c.PercentageChange)
	assert.False(t, c.IsIncrease)

	c = CalculatePercentageChange(d("10"), d("0"))
	assertDec(t, "100", c.PercentageChange)
	c = CalculatePercentageChange(d("0"), d("0"))
	assertDec(t, "0", c.PercentageChange)
	assert.False(t, c.IsIncrease)
}

func TestPolicy_CheckRemoval(t *testing.T) {
	level := entity.StockLevel{ProductID: "p-1", Name: "Kamande", CurrentStock: d("5")}

	require.NoError(t, Policy{}.CheckRemoval(level, d("5")))

	err := Policy{}.CheckRemoval(level, d("5.5"))
	require.Error(t, err)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assertDec(t, "5", ise.Available)
	assertDec(t, "5.5", ise.Requested)

	assert.NoError(t, Policy{AllowNegativeStock: true}.CheckRemoval(level, d("50")))
}

func TestAdjustmentDelta(t *testing.T) {
	assertDec(t, "-4", AdjustmentDelta(entity.AdjustmentDamage, d("4")))
	assertDec(t, "4", AdjustmentDelta(entity.AdjustmentReturn, d("4")))
	assertDec(t, "4", AdjustmentDelta(entity.AdjustmentSample, d("4")))
	assertDec(t, "4", AdjustmentDelta(entity.AdjustmentCorrection, d("4")))
}

func TestValidateStockAvailability(t *testing.T) {
	assert.True(t, ValidateStockAvailability(d("2"), d("5")).IsAvailable)

	a := ValidateStockAvailability(d("0"), d("5"))
	assert.False(t, a.IsAvailable)
	assert.Equal(t, "Quantity must be greater than zero", a.Message)

	a = ValidateStockAvailability(d("6"), d("5"))
	assert.Equal(t, "Only 5 units available in stock", a.Message)
}
