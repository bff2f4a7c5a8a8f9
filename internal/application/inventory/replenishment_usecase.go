package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/nandwere/stock-pos/internal/application/dto"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	stockrules "github.com/nandwere/stock-pos/internal/domain/inventory"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ReplenishmentConfig parámetros de la sugerencia de pedido.
type ReplenishmentConfig struct {
	LeadTimeDays    int
	SafetyStockDays int
	LookbackDays    int // ventana para el promedio diario de ventas
}

// ReplenishmentUseCase genera la lista de reposición: productos en o bajo su nivel de reorden
// con la cantidad sugerida según el ritmo de ventas reciente.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	cfg         ReplenishmentConfig
	now         func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	cfg ReplenishmentConfig,
) *ReplenishmentUseCase {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 30
	}
	return &ReplenishmentUseCase{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Config devuelve los parámetros efectivos.
func (uc *ReplenishmentUseCase) Config() ReplenishmentConfig { return uc.cfg }

// GenerateReplenishmentList devuelve los productos activos con stock bajo, ordenados por
// margen, luego unidades vendidas en la ventana y por último déficit bajo el nivel de reorden.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	end := uc.now().UTC()
	start := end.AddDate(0, 0, -uc.cfg.LookbackDays)
	active := true

	var (
		low  []*entity.Product
		sold []entity.ProductSales
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		low, _, err = uc.productRepo.List(gctx, repository.ProductFilter{Stock: repository.StockLow, Active: &active})
		return err
	})
	g.Go(func() error {
		var err error
		sold, err = uc.saleRepo.ProductSales(gctx, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(low) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	unitsByID := make(map[string]decimal.Decimal, len(sold))
	for _, s := range sold {
		unitsByID[s.ProductID] = s.Units
	}

	days := decimal.NewFromInt(int64(uc.cfg.LookbackDays))
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(low))
	for _, p := range low {
		units := unitsByID[p.ID]
		avg := units.Div(days).Round(4)
		qty := stockrules.CalculateReorderQuantity(avg, uc.cfg.LeadTimeDays, uc.cfg.SafetyStockDays)
		// Sin ventas recientes: al menos reponer hasta el nivel de reorden.
		if qty.IsZero() && p.ReorderLevel.GreaterThan(p.CurrentStock) {
			qty = p.ReorderLevel.Sub(p.CurrentStock).Ceil()
		}
		margin := stockrules.CalculateProfitMargin(p.CostPrice, p.SellingPrice)

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			CurrentStock:       p.CurrentStock,
			ReorderLevel:       p.ReorderLevel,
			AvgDailySales:      avg,
			SuggestedOrderQty:  qty,
			UnitCost:           p.CostPrice,
			EstimatedOrderCost: qty.Mul(p.CostPrice).Round(2),
			GrossMarginPct:     margin.MarginPct,
			UnitsSold:          units,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		if !a.UnitsSold.Equal(b.UnitsSold) {
			return a.UnitsSold.GreaterThan(b.UnitsSold)
		}
		defA := a.ReorderLevel.Sub(a.CurrentStock)
		defB := b.ReorderLevel.Sub(b.CurrentStock)
		return defA.GreaterThan(defB)
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
