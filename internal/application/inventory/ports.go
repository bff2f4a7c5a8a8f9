package inventory

import (
	"context"

	"github.com/nandwere/stock-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error todo se revierte: registros de auditoría y stock quedan como estaban.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		adjustmentRepo repository.StockAdjustmentRepository,
		countRepo repository.StockCountRepository,
	) error) error
}

// StockNotifier recibe los productos cuyo stock cambió, después del commit.
type StockNotifier interface {
	StockChanged(ctx context.Context, productIDs ...string) error
}

type noopNotifier struct{}

func (noopNotifier) StockChanged(context.Context, ...string) error { return nil }
