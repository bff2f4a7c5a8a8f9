package repository

import (
	"context"

	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetForUpdate y UpdateStock solo deben usarse dentro de TxRunner.Run.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// Update modifica datos de catálogo; nunca current_stock.
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
	// GetForUpdate bloquea la fila del producto (SELECT ... FOR UPDATE). nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.StockLevel, error)
	UpdateStock(ctx context.Context, id string, quantity decimal.Decimal) error
}
