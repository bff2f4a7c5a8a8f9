package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/nandwere/stock-pos/internal/application/ports"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/inventory"
	"github.com/nandwere/stock-pos/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator() *MarotoPDFGenerator {
	return NewMarotoPDFGenerator("Duka La Mama", money.MustFormatter("KES", "en-KE"))
}

func TestGenerateReceiptPDF(t *testing.T) {
	sale := &entity.Sale{
		SaleNumber:    "SALE-250307-123456",
		PaymentMethod: entity.PaymentCash,
		Subtotal:      decimal.NewFromInt(400),
		Total:         decimal.NewFromInt(400),
		AmountPaid:    decimal.NewFromInt(500),
		Change:        decimal.NewFromInt(100),
		CreatedAt:     time.Date(2025, 3, 7, 10, 30, 0, 0, time.UTC),
		Items: []entity.SaleItem{{
			ProductName: "Kamande", Unit: "Kg", Quantity: decimal.NewFromInt(2),
			UnitPrice: decimal.NewFromInt(200), Subtotal: decimal.NewFromInt(400),
		}},
	}

	out, err := newGenerator().GenerateReceiptPDF(context.Background(), sale)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateDailyReportPDF(t *testing.T) {
	variances := []inventory.StockVariance{
		inventory.VarianceFromExpected(decimal.NewFromInt(18), decimal.NewFromInt(15), decimal.NewFromInt(200)),
	}
	report := &ports.DailyReport{
		Date:      time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
		Summary:   inventory.CalculateDailySummary(variances, decimal.NewFromInt(1200), 4),
		ByMethod:  map[entity.PaymentMethod]decimal.Decimal{entity.PaymentCash: decimal.NewFromInt(1200)},
		Variances: variances,
	}

	out, err := newGenerator().GenerateDailyReportPDF(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
