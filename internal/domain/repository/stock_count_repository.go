package repository

import (
	"context"

	"github.com/nandwere/stock-pos/internal/domain/entity"
)

// StockCountRepository historial append-only de conteos físicos.
type StockCountRepository interface {
	Create(ctx context.Context, count *entity.StockCount) error
	List(ctx context.Context, filter CountFilter) ([]*entity.StockCount, error)
}
