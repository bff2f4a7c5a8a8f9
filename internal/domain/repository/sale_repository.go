package repository

import (
	"context"
	"time"

	"github.com/nandwere/stock-pos/internal/domain/entity"
)

// SaleRepository persistencia de ventas. Create inserta cabecera e items en la misma tx.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, int, error)
	Delete(ctx context.Context, id string) error
	// Summary agrega ventas en [start, end]; nil significa sin límite.
	Summary(ctx context.Context, start, end *time.Time) (*entity.SalesSummary, error)
	// ProductSales unidades vendidas por producto en [start, end).
	ProductSales(ctx context.Context, start, end time.Time) ([]entity.ProductSales, error)
	// CountByProduct ventas que referencian al producto (integridad referencial).
	CountByProduct(ctx context.Context, productID string) (int, error)
}
