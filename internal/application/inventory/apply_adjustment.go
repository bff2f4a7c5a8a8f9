package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	stockrules "github.com/nandwere/stock-pos/internal/domain/inventory"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// AdjustmentCommand entrada de ApplyAdjustment.
type AdjustmentCommand struct {
	ProductID string
	UserID    string
	Type      entity.AdjustmentType
	Quantity  decimal.Decimal
	Reason    string
	Notes     string
}

func (c AdjustmentCommand) validate() error {
	v := domain.NewValidationError()
	if strings.TrimSpace(c.ProductID) == "" {
		v.Add("productId", "es obligatorio")
	}
	if c.UserID == "" {
		v.Add("userId", "es obligatorio")
	}
	if !c.Type.Valid() {
		v.Add("type", "tipo de ajuste desconocido")
	}
	checkQuantity(v, "quantity", c.Quantity)
	if strings.TrimSpace(c.Reason) == "" {
		v.Add("reason", "es obligatorio")
	}
	return v.Err()
}

// ApplyAdjustment registra un ajuste manual. Los tipos de baja validan contra el stock
// bloqueado; el registro y el nuevo stock se confirman juntos.
func (uc *LedgerUseCase) ApplyAdjustment(ctx context.Context, cmd AdjustmentCommand) (*entity.StockAdjustment, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	var adj *entity.StockAdjustment
	err := uc.run(ctx, "apply adjustment", func(ctx context.Context) error {
		return uc.txRunner.Run(ctx, func(
			productRepo repository.ProductRepository,
			_ repository.SaleRepository,
			adjustmentRepo repository.StockAdjustmentRepository,
			_ repository.StockCountRepository,
		) error {
			level, err := productRepo.GetForUpdate(ctx, cmd.ProductID)
			if err != nil {
				return err
			}
			if level == nil {
				return fmt.Errorf("%w: %s", domain.ErrProductNotFound, cmd.ProductID)
			}
			if cmd.Type.IsRemoval() {
				if err := uc.policy.CheckRemoval(*level, cmd.Quantity); err != nil {
					return err
				}
			}

			newStock := level.CurrentStock.Add(stockrules.AdjustmentDelta(cmd.Type, cmd.Quantity))
			adj = &entity.StockAdjustment{
				ID:            uuid.New().String(),
				ProductID:     cmd.ProductID,
				ProductName:   level.Name,
				UserID:        cmd.UserID,
				Type:          cmd.Type,
				Quantity:      cmd.Quantity,
				Reason:        strings.TrimSpace(cmd.Reason),
				Notes:         cmd.Notes,
				PreviousStock: level.CurrentStock,
				NewStock:      newStock,
				CreatedAt:     uc.now(),
			}
			if err := adjustmentRepo.Create(ctx, adj); err != nil {
				return err
			}
			return productRepo.UpdateStock(ctx, cmd.ProductID, newStock)
		})
	})
	if err != nil {
		uc.logRejection(err, "ajuste rechazado")
		return nil, err
	}

	uc.log.Info().
		Str("product_id", adj.ProductID).
		Str("type", string(adj.Type)).
		Str("quantity", adj.Quantity.String()).
		Str("new_stock", adj.NewStock.String()).
		Msg("ajuste de stock registrado")
	uc.notify(ctx, []string{adj.ProductID})
	return adj, nil
}
