package repository

import (
	"context"

	"github.com/nandwere/stock-pos/internal/domain/entity"
)

// StockAdjustmentRepository historial append-only de ajustes manuales.
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adj *entity.StockAdjustment) error
	List(ctx context.Context, filter AdjustmentFilter) ([]*entity.StockAdjustment, int, error)
}
