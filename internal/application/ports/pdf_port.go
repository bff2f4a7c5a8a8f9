package ports

import (
	"context"
	"time"

	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// DailyReport datos del cierre diario que se imprimen en PDF.
type DailyReport struct {
	Date      time.Time
	Summary   inventory.DailySummary
	ByMethod  map[entity.PaymentMethod]decimal.Decimal
	Variances []inventory.StockVariance
}

// ReceiptPDFGenerator puerto de salida para el ticket de una venta.
// La aplicación solo conoce este contrato; el adaptador decide el layout.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale) ([]byte, error)
}

// DailyReportPDFGenerator puerto de salida para el resumen diario.
type DailyReportPDFGenerator interface {
	GenerateDailyReportPDF(ctx context.Context, report *DailyReport) ([]byte, error)
}
