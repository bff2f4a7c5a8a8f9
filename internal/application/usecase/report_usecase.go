package usecase

import (
	"context"
	"time"

	"github.com/nandwere/stock-pos/internal/application/dto"
	appinventory "github.com/nandwere/stock-pos/internal/application/inventory"
	"github.com/nandwere/stock-pos/internal/application/ports"
	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	stockrules "github.com/nandwere/stock-pos/internal/domain/inventory"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"golang.org/x/sync/errgroup"
)

// ReportUseCase reportes de ventas, inventario, reposición y el cierre diario en PDF.
type ReportUseCase struct {
	productRepo   repository.ProductRepository
	saleRepo      repository.SaleRepository
	countRepo     repository.StockCountRepository
	replenishment *appinventory.ReplenishmentUseCase
	dailyPDF      ports.DailyReportPDFGenerator
}

// NewReportUseCase construye el caso de uso. dailyPDF puede ser nil.
func NewReportUseCase(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	countRepo repository.StockCountRepository,
	replenishment *appinventory.ReplenishmentUseCase,
	dailyPDF ports.DailyReportPDFGenerator,
) *ReportUseCase {
	return &ReportUseCase{
		productRepo:   productRepo,
		saleRepo:      saleRepo,
		countRepo:     countRepo,
		replenishment: replenishment,
		dailyPDF:      dailyPDF,
	}
}

// Sales agregados en [start, end]. Con ambos límites compara contra el período previo
// de igual duración; ambas consultas corren en paralelo.
func (uc *ReportUseCase) Sales(ctx context.Context, start, end *time.Time) (*dto.SalesReportResponse, error) {
	var current, previous *entity.SalesSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = uc.saleRepo.Summary(gctx, start, end)
		return err
	})
	if start != nil && end != nil {
		span := end.Sub(*start)
		prevEnd := start.Add(-time.Nanosecond)
		prevStart := prevEnd.Add(-span)
		g.Go(func() error {
			var err error
			previous, err = uc.saleRepo.Summary(gctx, &prevStart, &prevEnd)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.SalesReportResponse{
		TotalSales:       current.TotalSales,
		SalesCount:       current.SalesCount,
		CashSales:        current.ByMethod[entity.PaymentCash],
		CardSales:        current.ByMethod[entity.PaymentCard],
		MobileMoneySales: current.ByMethod[entity.PaymentMobileMoney],
	}
	if previous != nil {
		change := stockrules.CalculatePercentageChange(current.TotalSales, previous.TotalSales)
		out.PreviousTotal = previous.TotalSales
		out.ChangePct = change.PercentageChange
		out.IsIncrease = change.IsIncrease
	}
	return out, nil
}

// Inventory valorización del stock activo y conteo de productos bajos o agotados.
func (uc *ReportUseCase) Inventory(ctx context.Context) (*dto.InventoryReportResponse, error) {
	active := true
	products, total, err := uc.productRepo.List(ctx, repository.ProductFilter{Active: &active})
	if err != nil {
		return nil, err
	}
	value := stockrules.CalculateInventoryValue(products)
	out := &dto.InventoryReportResponse{
		ProductCount:    total,
		CostValue:       value.CostValue,
		RetailValue:     value.RetailValue,
		PotentialProfit: value.PotentialProfit,
	}
	for _, p := range products {
		if p.IsOutOfStock() {
			out.OutOfStockCount++
		}
		if stockrules.NeedsReorder(p.CurrentStock, p.ReorderLevel) {
			out.LowStockCount++
		}
	}
	return out, nil
}

// Reorder lista de reposición priorizada.
func (uc *ReportUseCase) Reorder(ctx context.Context) (*dto.ReorderReportResponse, error) {
	items, err := uc.replenishment.GenerateReplenishmentList(ctx)
	if err != nil {
		return nil, err
	}
	cfg := uc.replenishment.Config()
	return &dto.ReorderReportResponse{
		LeadTimeDays:    cfg.LeadTimeDays,
		SafetyStockDays: cfg.SafetyStockDays,
		LookbackDays:    cfg.LookbackDays,
		Items:           items,
	}, nil
}

// DailyPDF cierre diario en PDF: ventas por medio de pago y varianzas del conteo.
func (uc *ReportUseCase) DailyPDF(ctx context.Context, day time.Time) ([]byte, error) {
	if uc.dailyPDF == nil {
		return nil, domain.ErrNotFound
	}
	figures, err := loadDailyFigures(ctx, uc.saleRepo, uc.countRepo, day)
	if err != nil {
		return nil, err
	}
	start, _ := DayBounds(day)
	return uc.dailyPDF.GenerateDailyReportPDF(ctx, &ports.DailyReport{
		Date:      start,
		Summary:   figures.dailySummary(),
		ByMethod:  figures.summary.ByMethod,
		Variances: figures.variances,
	})
}
