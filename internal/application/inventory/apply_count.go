package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	stockrules "github.com/nandwere/stock-pos/internal/domain/inventory"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// CountEntry conteo de un producto. ExpectedQty lo calcula quien cuenta (apertura - ventas).
type CountEntry struct {
	ProductID   string
	ExpectedQty decimal.Decimal
	ActualQty   decimal.Decimal
	Notes       string
}

// CountCommand lote de conteo físico. CountDate cero = ahora.
type CountCommand struct {
	UserID    string
	CountDate time.Time
	Entries   []CountEntry
}

func (c CountCommand) validate() error {
	v := domain.NewValidationError()
	if c.UserID == "" {
		v.Add("userId", "es obligatorio")
	}
	if len(c.Entries) == 0 {
		v.Add("counts", "el conteo debe tener al menos un producto")
	}
	seen := make(map[string]int, len(c.Entries))
	for i, e := range c.Entries {
		field := fmt.Sprintf("counts[%d]", i)
		if strings.TrimSpace(e.ProductID) == "" {
			v.Add(field+".productId", "es obligatorio")
		} else if first, dup := seen[e.ProductID]; dup {
			v.Add(field+".productId", fmt.Sprintf("producto repetido (ver counts[%d])", first))
		} else {
			seen[e.ProductID] = i
		}
		checkStockLevel(v, field+".expectedStock", e.ExpectedQty)
		checkStockLevel(v, field+".actualStock", e.ActualQty)
	}
	return v.Err()
}

// ApplyCount aplica un conteo físico en una sola transacción: por cada producto guarda
// el registro con su varianza y fija current_stock = ActualQty. Si algo falla no se aplica nada.
func (uc *LedgerUseCase) ApplyCount(ctx context.Context, cmd CountCommand) ([]*entity.StockCount, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	countDate := cmd.CountDate
	if countDate.IsZero() {
		countDate = uc.now()
	}

	entries := append([]CountEntry(nil), cmd.Entries...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ProductID < entries[j].ProductID })

	var records []*entity.StockCount
	err := uc.run(ctx, "apply count", func(ctx context.Context) error {
		return uc.txRunner.Run(ctx, func(
			productRepo repository.ProductRepository,
			_ repository.SaleRepository,
			_ repository.StockAdjustmentRepository,
			countRepo repository.StockCountRepository,
		) error {
			records = make([]*entity.StockCount, 0, len(entries))
			for _, e := range entries {
				level, err := productRepo.GetForUpdate(ctx, e.ProductID)
				if err != nil {
					return err
				}
				if level == nil {
					return fmt.Errorf("%w: %s", domain.ErrProductNotFound, e.ProductID)
				}

				rec := &entity.StockCount{
					ID:           uuid.New().String(),
					ProductID:    e.ProductID,
					ProductName:  level.Name,
					SellingPrice: level.SellingPrice,
					UserID:       cmd.UserID,
					CountDate:    countDate,
					ExpectedQty:  e.ExpectedQty,
					ActualQty:    e.ActualQty,
					Variance:     stockrules.Variance(e.ExpectedQty, e.ActualQty),
					Notes:        e.Notes,
					CreatedAt:    uc.now(),
				}
				if err := countRepo.Create(ctx, rec); err != nil {
					return err
				}
				if err := productRepo.UpdateStock(ctx, e.ProductID, e.ActualQty); err != nil {
					return err
				}
				records = append(records, rec)
			}
			return nil
		})
	})
	if err != nil {
		uc.logRejection(err, "conteo rechazado")
		return nil, err
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ProductID)
	}
	uc.log.Info().Int("products", len(records)).Msg("conteo de stock aplicado")
	uc.notify(ctx, ids)
	return records, nil
}
