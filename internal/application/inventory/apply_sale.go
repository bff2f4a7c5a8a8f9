package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	stockrules "github.com/nandwere/stock-pos/internal/domain/inventory"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// SaleLineCommand línea solicitada. Sin UnitPrice se usa el precio de venta vigente.
type SaleLineCommand struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal
}

// SaleCommand entrada de ApplySale.
type SaleCommand struct {
	UserID         string
	CustomerName   string
	PaymentMethod  entity.PaymentMethod
	Discount       decimal.Decimal
	AmountPaid     *decimal.Decimal // nil = paga el total exacto
	Notes          string
	IdempotencyKey string
	Lines          []SaleLineCommand
}

// SaleResult venta confirmada y stock resultante de cada producto.
type SaleResult struct {
	Sale        *entity.Sale
	StockLevels []entity.StockLevel
	Replayed    bool // la clave de idempotencia ya existía; no se movió stock
}

func (c SaleCommand) validate() error {
	v := domain.NewValidationError()
	if c.UserID == "" {
		v.Add("userId", "es obligatorio")
	}
	if !c.PaymentMethod.Valid() {
		v.Add("paymentMethod", "debe ser CASH, CARD o MOBILE_MONEY")
	}
	checkMoney(v, "discount", c.Discount)
	if c.AmountPaid != nil {
		checkMoney(v, "amountPaid", *c.AmountPaid)
	}
	if len(c.Lines) == 0 {
		v.Add("items", "la venta debe tener al menos una línea")
	}
	for i, l := range c.Lines {
		field := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(l.ProductID) == "" {
			v.Add(field+".productId", "es obligatorio")
		}
		checkQuantity(v, field+".quantity", l.Quantity)
		if l.UnitPrice != nil {
			checkMoney(v, field+".unitPrice", *l.UnitPrice)
		}
	}
	return v.Err()
}

// checkQuantity exige una cantidad positiva representable con QuantityScale decimales.
func checkQuantity(v *domain.ValidationError, field string, q decimal.Decimal) {
	switch {
	case !q.IsPositive():
		v.Add(field, "debe ser mayor que cero")
	case !stockrules.FitsScale(q, stockrules.QuantityScale):
		v.Add(field, fmt.Sprintf("admite como máximo %d decimales", stockrules.QuantityScale))
	}
}

func checkMoney(v *domain.ValidationError, field string, amount decimal.Decimal) {
	switch {
	case amount.IsNegative():
		v.Add(field, "no puede ser negativo")
	case !stockrules.FitsScale(amount, stockrules.MoneyScale):
		v.Add(field, fmt.Sprintf("admite como máximo %d decimales", stockrules.MoneyScale))
	}
}

func checkStockLevel(v *domain.ValidationError, field string, q decimal.Decimal) {
	switch {
	case q.IsNegative():
		v.Add(field, "no puede ser negativo")
	case !stockrules.FitsScale(q, stockrules.QuantityScale):
		v.Add(field, fmt.Sprintf("admite como máximo %d decimales", stockrules.QuantityScale))
	}
}

// requiredByProduct suma las cantidades por producto y devuelve los ids ordenados
// (orden fijo de bloqueo para evitar deadlocks entre ventas concurrentes).
func requiredByProduct(lines []SaleLineCommand) (map[string]decimal.Decimal, []string) {
	required := make(map[string]decimal.Decimal, len(lines))
	for _, l := range lines {
		required[l.ProductID] = required[l.ProductID].Add(l.Quantity)
	}
	ids := make([]string, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return required, ids
}

// saleAttempts intentos ante un número de venta repetido por otra instancia.
const saleAttempts = 3

// ApplySale registra una venta completa: bloquea cada producto, valida TODAS las líneas
// y solo entonces crea la venta y descuenta stock. Todo o nada para la venta entera.
func (uc *LedgerUseCase) ApplySale(ctx context.Context, cmd SaleCommand) (*SaleResult, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	required, ids := requiredByProduct(cmd.Lines)

	var (
		result *SaleResult
		err    error
	)
	for attempt := 1; ; attempt++ {
		result, err = uc.applySaleOnce(ctx, cmd, required, ids)
		if err == nil || !errors.Is(err, domain.ErrDuplicate) {
			break
		}
		// Una venta concurrente con la misma clave confirmó entre la búsqueda y el insert.
		if cmd.IdempotencyKey != "" {
			existing, lookupErr := uc.saleByIdempotencyKey(ctx, cmd.IdempotencyKey)
			if lookupErr != nil {
				err = lookupErr
				break
			}
			if existing != nil {
				result, err = &SaleResult{Sale: existing, Replayed: true}, nil
				break
			}
		}
		if attempt == saleAttempts {
			break
		}
		uc.log.Warn().Int("attempt", attempt).Msg("número de venta repetido, se reintenta")
	}
	if err != nil {
		uc.logRejection(err, "venta rechazada")
		return nil, err
	}

	if result.Replayed {
		uc.log.Info().Str("sale_number", result.Sale.SaleNumber).Str("idempotency_key", cmd.IdempotencyKey).
			Msg("venta repetida, se devuelve la original")
		return result, nil
	}
	uc.log.Info().
		Str("sale_number", result.Sale.SaleNumber).
		Int("lines", len(result.Sale.Items)).
		Str("total", result.Sale.Total.StringFixed(2)).
		Msg("venta registrada")
	uc.notify(ctx, ids)
	return result, nil
}

func (uc *LedgerUseCase) applySaleOnce(ctx context.Context, cmd SaleCommand, required map[string]decimal.Decimal, ids []string) (*SaleResult, error) {
	var result *SaleResult
	err := uc.run(ctx, "apply sale", func(ctx context.Context) error {
		return uc.txRunner.Run(ctx, func(
			productRepo repository.ProductRepository,
			saleRepo repository.SaleRepository,
			_ repository.StockAdjustmentRepository,
			_ repository.StockCountRepository,
		) error {
			if cmd.IdempotencyKey != "" {
				existing, err := saleRepo.GetByIdempotencyKey(ctx, cmd.IdempotencyKey)
				if err != nil {
					return err
				}
				if existing != nil {
					result = &SaleResult{Sale: existing, Replayed: true}
					return nil
				}
			}

			levels := make(map[string]*entity.StockLevel, len(ids))
			for _, id := range ids {
				level, err := productRepo.GetForUpdate(ctx, id)
				if err != nil {
					return err
				}
				if level == nil {
					return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
				}
				levels[id] = level
			}

			// Validar todas las líneas antes de tocar cualquier stock.
			for _, id := range ids {
				if err := uc.policy.CheckRemoval(*levels[id], required[id]); err != nil {
					return err
				}
			}

			sale := uc.buildSale(cmd, levels)
			if sale.Total.IsNegative() {
				return domain.Invalid("discount", "no puede superar el subtotal más impuestos")
			}
			if sale.AmountPaid.LessThan(sale.Total) {
				return domain.Invalid("amountPaid", "no cubre el total de la venta")
			}
			if err := saleRepo.Create(ctx, sale); err != nil {
				return err
			}

			newLevels := make([]entity.StockLevel, 0, len(ids))
			for _, id := range ids {
				level := *levels[id]
				level.CurrentStock = level.CurrentStock.Sub(required[id])
				if err := productRepo.UpdateStock(ctx, id, level.CurrentStock); err != nil {
					return err
				}
				newLevels = append(newLevels, level)
			}
			result = &SaleResult{Sale: sale, StockLevels: newLevels}
			return nil
		})
	})
	return result, err
}

// saleByIdempotencyKey busca en una transacción nueva: la anterior quedó abortada.
func (uc *LedgerUseCase) saleByIdempotencyKey(ctx context.Context, key string) (*entity.Sale, error) {
	var existing *entity.Sale
	err := uc.run(ctx, "apply sale", func(ctx context.Context) error {
		return uc.txRunner.Run(ctx, func(
			_ repository.ProductRepository,
			saleRepo repository.SaleRepository,
			_ repository.StockAdjustmentRepository,
			_ repository.StockCountRepository,
		) error {
			var err error
			existing, err = saleRepo.GetByIdempotencyKey(ctx, key)
			return err
		})
	})
	return existing, err
}

func (uc *LedgerUseCase) buildSale(cmd SaleCommand, levels map[string]*entity.StockLevel) *entity.Sale {
	now := uc.saleTime()
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		SaleNumber:     stockrules.GenerateSaleNumber(now),
		UserID:         cmd.UserID,
		CustomerName:   strings.TrimSpace(cmd.CustomerName),
		PaymentMethod:  cmd.PaymentMethod,
		Notes:          cmd.Notes,
		IdempotencyKey: cmd.IdempotencyKey,
		CreatedAt:      now,
	}

	amounts := make([]stockrules.LineAmount, 0, len(cmd.Lines))
	for _, l := range cmd.Lines {
		level := levels[l.ProductID]
		price := level.SellingPrice
		if l.UnitPrice != nil {
			price = *l.UnitPrice
		}
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			ProductID:   l.ProductID,
			ProductName: level.Name,
			SKU:         level.SKU,
			Unit:        level.Unit,
			Quantity:    l.Quantity,
			UnitPrice:   price,
			Subtotal:    stockrules.LineSubtotal(l.Quantity, price),
		})
		amounts = append(amounts, stockrules.LineAmount{Quantity: l.Quantity, UnitPrice: price})
	}

	totals := stockrules.CalculateSaleTotals(amounts, uc.cfg.TaxRate, cmd.Discount)
	sale.Subtotal = totals.Subtotal
	sale.Tax = totals.Tax
	sale.Discount = totals.Discount
	sale.Total = totals.Total
	sale.AmountPaid = totals.Total
	if cmd.AmountPaid != nil {
		sale.AmountPaid = cmd.AmountPaid.Round(2)
	}
	sale.Change = stockrules.CalculateChange(sale.Total, sale.AmountPaid)
	return sale
}

func (uc *LedgerUseCase) logRejection(err error, msg string) {
	if domain.Classified(err) && !isPersistence(err) {
		uc.log.Warn().Err(err).Msg(msg)
	}
}
