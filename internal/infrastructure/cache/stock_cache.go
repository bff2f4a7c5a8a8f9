package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	appinventory "github.com/nandwere/stock-pos/internal/application/inventory"
	"github.com/nandwere/stock-pos/pkg/logger"
	"github.com/shopspring/decimal"
)

var _ appinventory.StockNotifier = (*StockCache)(nil)

const (
	stockKeyPrefix = "stock:product:"

	// invalidatedMarker ocupa la clave después de un cambio de stock. Mientras exista,
	// Get responde miss y Set no puede escribir un valor leído antes del commit.
	invalidatedMarker = "-"
	invalidationHold  = 10 * time.Second
)

// StockCache guarda el stock actual por producto. El libro de stock la invalida
// después de cada commit a través de StockChanged.
type StockCache struct {
	client Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewStockCache construye la caché. ttl <= 0 usa 5 minutos.
func NewStockCache(client Client, ttl time.Duration, log *logger.Logger) *StockCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StockCache{client: client, ttl: ttl, log: log.Component("stock_cache")}
}

func stockKey(productID string) string {
	return stockKeyPrefix + productID
}

// Get devuelve el stock cacheado. Un error de Redis se trata como miss.
func (c *StockCache) Get(ctx context.Context, productID string) (decimal.Decimal, bool) {
	raw, err := c.client.Get(ctx, stockKey(productID))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.log.Warn().Err(err).Str("product_id", productID).Msg("lectura de caché fallida")
		}
		return decimal.Zero, false
	}
	if raw == invalidatedMarker {
		return decimal.Zero, false
	}
	qty, err := decimal.NewFromString(raw)
	if err != nil {
		c.log.Warn().Err(err).Str("product_id", productID).Msg("valor de caché corrupto")
		return decimal.Zero, false
	}
	return qty, true
}

// Set guarda el stock leído de la base solo si la clave está libre: no pisa un valor
// vigente ni la marca de invalidación de un commit posterior a la lectura.
func (c *StockCache) Set(ctx context.Context, productID string, qty decimal.Decimal) {
	if _, err := c.client.SetNX(ctx, stockKey(productID), qty.String(), c.ttl); err != nil {
		c.log.Warn().Err(err).Str("product_id", productID).Msg("escritura de caché fallida")
	}
}

// StockChanged marca como invalidadas las entradas de los productos modificados.
func (c *StockCache) StockChanged(ctx context.Context, productIDs ...string) error {
	var errs []error
	for _, id := range productIDs {
		if err := c.client.Set(ctx, stockKey(id), invalidatedMarker, invalidationHold); err != nil {
			errs = append(errs, fmt.Errorf("invalidate %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Invalidate igual que StockChanged para cambios fuera del libro (borrado de producto);
// los fallos solo se registran.
func (c *StockCache) Invalidate(ctx context.Context, productIDs ...string) {
	if err := c.StockChanged(ctx, productIDs...); err != nil {
		c.log.Warn().Err(err).Strs("product_ids", productIDs).Msg("invalidación de caché fallida")
	}
}
