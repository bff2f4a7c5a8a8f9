package inventory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nandwere/stock-pos/internal/domain"
	stockrules "github.com/nandwere/stock-pos/internal/domain/inventory"
	"github.com/nandwere/stock-pos/pkg/logger"
	"github.com/shopspring/decimal"
)

// LedgerConfig política y límites del libro de stock.
type LedgerConfig struct {
	AllowNegativeStock bool
	TaxRate            decimal.Decimal // fracción aplicada al subtotal de cada venta
	TxTimeout          time.Duration
}

// LedgerUseCase es el único punto que modifica current_stock: ventas, ajustes y conteos.
// Cada operación corre en una transacción con la fila del producto bloqueada (SELECT FOR UPDATE).
type LedgerUseCase struct {
	txRunner TxRunner
	notifier StockNotifier
	policy   stockrules.Policy
	cfg      LedgerConfig
	log      *logger.Logger
	now      func() time.Time

	seqMu  sync.Mutex
	lastMs int64
}

// NewLedgerUseCase construye el caso de uso. notifier y log pueden ser nil.
func NewLedgerUseCase(txRunner TxRunner, notifier StockNotifier, cfg LedgerConfig, log *logger.Logger) *LedgerUseCase {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.TxTimeout <= 0 {
		cfg.TxTimeout = 30 * time.Second
	}
	return &LedgerUseCase{
		txRunner: txRunner,
		notifier: notifier,
		policy:   stockrules.Policy{AllowNegativeStock: cfg.AllowNegativeStock},
		cfg:      cfg,
		log:      log.Component("ledger"),
		now:      time.Now,
	}
}

// run aplica el timeout de la transacción y normaliza el error resultante.
func (uc *LedgerUseCase) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.TxTimeout)
	defer cancel()

	err := fn(ctx)
	if err == nil {
		return nil
	}
	if domain.Classified(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		uc.log.Error().Err(err).Str("op", op).Dur("timeout", uc.cfg.TxTimeout).Msg("transacción excedió el tiempo límite")
	} else {
		uc.log.Error().Err(err).Str("op", op).Msg("transacción revertida")
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

// notify avisa los cambios de stock; un fallo aquí no afecta lo ya confirmado.
func (uc *LedgerUseCase) notify(ctx context.Context, productIDs []string) {
	if len(productIDs) == 0 {
		return
	}
	if err := uc.notifier.StockChanged(context.WithoutCancel(ctx), productIDs...); err != nil {
		uc.log.Warn().Err(err).Strs("product_ids", productIDs).Msg("no se pudo notificar cambio de stock")
	}
}

// saleTime devuelve un instante con milisegundo estrictamente creciente en este proceso,
// así dos ventas simultáneas no comparten número.
func (uc *LedgerUseCase) saleTime() time.Time {
	uc.seqMu.Lock()
	defer uc.seqMu.Unlock()
	now := uc.now()
	ms := now.UnixMilli()
	if ms <= uc.lastMs {
		ms = uc.lastMs + 1
		now = time.UnixMilli(ms).In(now.Location())
	}
	uc.lastMs = ms
	return now
}

func isPersistence(err error) bool {
	return errors.Is(err, domain.ErrPersistence)
}
