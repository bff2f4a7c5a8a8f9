package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/nandwere/stock-pos/internal/application/dto"
	appinventory "github.com/nandwere/stock-pos/internal/application/inventory"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	defaultAdjustmentLimit = 50
	maxCountRows           = 1000
)

// StockUseCase ajustes, conteos físicos y el análisis de ventas no registradas.
type StockUseCase struct {
	ledger         StockLedger
	productRepo    repository.ProductRepository
	saleRepo       repository.SaleRepository
	adjustmentRepo repository.StockAdjustmentRepository
	countRepo      repository.StockCountRepository
}

func NewStockUseCase(
	ledger StockLedger,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	adjustmentRepo repository.StockAdjustmentRepository,
	countRepo repository.StockCountRepository,
) *StockUseCase {
	return &StockUseCase{
		ledger:         ledger,
		productRepo:    productRepo,
		saleRepo:       saleRepo,
		adjustmentRepo: adjustmentRepo,
		countRepo:      countRepo,
	}
}

// CreateAdjustment aplica un ajuste manual de userID.
func (uc *StockUseCase) CreateAdjustment(ctx context.Context, userID string, in dto.CreateAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	adj, err := uc.ledger.ApplyAdjustment(ctx, appinventory.AdjustmentCommand{
		ProductID: in.ProductID,
		UserID:    userID,
		Type:      entity.AdjustmentType(in.Type),
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		Notes:     in.Notes,
	})
	if err != nil {
		return nil, err
	}
	out := toAdjustmentResponse(adj)
	return &out, nil
}

// ListAdjustments historial paginado por número de página (desde 1).
func (uc *StockUseCase) ListAdjustments(ctx context.Context, filter repository.AdjustmentFilter, page, limit int) (*dto.AdjustmentListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultAdjustmentLimit
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit
	items, total, err := uc.adjustmentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.AdjustmentResponse, 0, len(items))
	for _, a := range items {
		data = append(data, toAdjustmentResponse(a))
	}
	return &dto.AdjustmentListResponse{Data: data, Pagination: dto.NewPagination(page, limit, total)}, nil
}

// SubmitCount aplica un lote de conteo: todo o nada.
func (uc *StockUseCase) SubmitCount(ctx context.Context, userID string, in dto.StockCountRequest) ([]dto.StockCountResponse, error) {
	cmd := appinventory.CountCommand{UserID: userID}
	if in.CountDate != nil {
		cmd.CountDate = *in.CountDate
	}
	for _, c := range in.Counts {
		cmd.Entries = append(cmd.Entries, appinventory.CountEntry{
			ProductID:   c.ProductID,
			ExpectedQty: c.ExpectedStock,
			ActualQty:   c.ActualStock,
			Notes:       c.Notes,
		})
	}
	counts, err := uc.ledger.ApplyCount(ctx, cmd)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockCountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, toCountResponse(c))
	}
	return out, nil
}

// ListCounts conteos en [start, end), más recientes primero, como máximo 1000.
func (uc *StockUseCase) ListCounts(ctx context.Context, productID string, start, end *time.Time) ([]dto.StockCountResponse, error) {
	counts, err := uc.countRepo.List(ctx, repository.CountFilter{
		ProductID: productID,
		Start:     start,
		End:       end,
		Limit:     maxCountRows,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockCountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, toCountResponse(c))
	}
	return out, nil
}

// CountSheet hoja de conteo del día: apertura = stock actual + vendido en el día,
// esperado = apertura - vendido.
func (uc *StockUseCase) CountSheet(ctx context.Context, day time.Time) ([]dto.CountSheetEntry, error) {
	start, end := DayBounds(day)
	active := true

	var (
		products []*entity.Product
		sold     []entity.ProductSales
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, _, err = uc.productRepo.List(gctx, repository.ProductFilter{Active: &active})
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

	units := make(map[string]decimal.Decimal, len(sold))
	for _, s := range sold {
		units[s.ProductID] = s.Units
	}
	out := make([]dto.CountSheetEntry, 0, len(products))
	for _, p := range products {
		recorded := units[p.ID]
		opening := p.CurrentStock.Add(recorded)
		out = append(out, dto.CountSheetEntry{
			ProductID:     p.ID,
			ProductName:   p.Name,
			SKU:           p.SKU,
			Unit:          p.Unit,
			SellingPrice:  p.SellingPrice,
			OpeningStock:  opening,
			RecordedSales: recorded,
			ExpectedStock: opening.Sub(recorded),
		})
	}
	return out, nil
}

// Variances varianza de cada producto contado en el día, faltantes primero.
func (uc *StockUseCase) Variances(ctx context.Context, day time.Time) ([]dto.VarianceResponse, error) {
	figures, err := loadDailyFigures(ctx, uc.saleRepo, uc.countRepo, day)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VarianceResponse, 0, len(figures.variances))
	for _, v := range figures.variances {
		out = append(out, dto.VarianceResponse{
			ProductID:        v.ProductID,
			ProductName:      v.ProductName,
			ExpectedStock:    v.ExpectedStock,
			ActualStock:      v.ActualStock,
			Variance:         v.Variance,
			UnrecordedUnits:  v.UnrecordedUnits,
			EstimatedRevenue: v.EstimatedRevenue,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Variance.LessThan(out[j].Variance) })
	return out, nil
}

// UnrecordedSales resumen del día: ventas registradas frente a faltantes de conteo valorizados.
func (uc *StockUseCase) UnrecordedSales(ctx context.Context, day time.Time) (*dto.DailySummaryResponse, error) {
	figures, err := loadDailyFigures(ctx, uc.saleRepo, uc.countRepo, day)
	if err != nil {
		return nil, err
	}
	s := figures.dailySummary()
	start, _ := DayBounds(day)
	return &dto.DailySummaryResponse{
		Date:                          start.Format(time.DateOnly),
		RecordedSales:                 s.RecordedSales,
		RecordedSalesCount:            s.RecordedSalesCount,
		UnrecordedRevenue:             s.UnrecordedRevenue,
		EstimatedUnrecordedSalesCount: s.EstimatedUnrecordedSalesCount,
		TotalEstimatedRevenue:         s.TotalEstimatedRevenue,
	}, nil
}

func toAdjustmentResponse(a *entity.StockAdjustment) dto.AdjustmentResponse {
	return dto.AdjustmentResponse{
		ID:            a.ID,
		ProductID:     a.ProductID,
		ProductName:   a.ProductName,
		UserID:        a.UserID,
		UserName:      a.UserName,
		Type:          string(a.Type),
		Quantity:      a.Quantity,
		Reason:        a.Reason,
		Notes:         a.Notes,
		PreviousStock: a.PreviousStock,
		NewStock:      a.NewStock,
		CreatedAt:     a.CreatedAt,
	}
}

func toCountResponse(c *entity.StockCount) dto.StockCountResponse {
	return dto.StockCountResponse{
		ID:            c.ID,
		ProductID:     c.ProductID,
		ProductName:   c.ProductName,
		UserID:        c.UserID,
		CountDate:     c.CountDate,
		ExpectedStock: c.ExpectedQty,
		ActualStock:   c.ActualQty,
		Variance:      c.Variance,
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
	}
}
