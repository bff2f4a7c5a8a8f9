package usecase

import (
	"context"
	"time"

	appinventory "github.com/nandwere/stock-pos/internal/application/inventory"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	stockrules "github.com/nandwere/stock-pos/internal/domain/inventory"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"golang.org/x/sync/errgroup"
)

// StockLedger operaciones que mueven stock. Lo implementa appinventory.LedgerUseCase.
type StockLedger interface {
	ApplySale(ctx context.Context, cmd appinventory.SaleCommand) (*appinventory.SaleResult, error)
	ApplyAdjustment(ctx context.Context, cmd appinventory.AdjustmentCommand) (*entity.StockAdjustment, error)
	ApplyCount(ctx context.Context, cmd appinventory.CountCommand) ([]*entity.StockCount, error)
}

var _ StockLedger = (*appinventory.LedgerUseCase)(nil)

// DayBounds devuelve [inicio, fin) del día UTC que contiene t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

// dailyFigures ventas registradas y varianzas de los conteos de un día.
type dailyFigures struct {
	summary   *entity.SalesSummary
	variances []stockrules.StockVariance
}

func loadDailyFigures(ctx context.Context, saleRepo repository.SaleRepository, countRepo repository.StockCountRepository, day time.Time) (*dailyFigures, error) {
	start, end := DayBounds(day)
	last := end.Add(-time.Nanosecond)

	var (
		summary *entity.SalesSummary
		counts  []*entity.StockCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = saleRepo.Summary(gctx, &start, &last)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = countRepo.List(gctx, repository.CountFilter{Start: &start, End: &end})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	variances := make([]stockrules.StockVariance, 0, len(counts))
	for _, c := range counts {
		v := stockrules.VarianceFromExpected(c.ExpectedQty, c.ActualQty, c.SellingPrice)
		v.ProductID = c.ProductID
		v.ProductName = c.ProductName
		variances = append(variances, v)
	}
	return &dailyFigures{summary: summary, variances: variances}, nil
}

func (f *dailyFigures) dailySummary() stockrules.DailySummary {
	return stockrules.CalculateDailySummary(f.variances, f.summary.TotalSales, f.summary.SalesCount)
}
