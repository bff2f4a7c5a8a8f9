package usecase

import (
	"context"
	"strings"

	"github.com/nandwere/stock-pos/internal/application/dto"
	appinventory "github.com/nandwere/stock-pos/internal/application/inventory"
	"github.com/nandwere/stock-pos/internal/application/ports"
	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"github.com/nandwere/stock-pos/pkg/logger"
)

const defaultSaleTake = 50

// SaleUseCase registro y consulta de ventas. El registro pasa siempre por el libro de stock.
type SaleUseCase struct {
	ledger   StockLedger
	saleRepo repository.SaleRepository
	receipts ports.ReceiptPDFGenerator
	log      *logger.Logger
}

// NewSaleUseCase construye el caso de uso. receipts puede ser nil (sin PDF).
func NewSaleUseCase(ledger StockLedger, saleRepo repository.SaleRepository, receipts ports.ReceiptPDFGenerator, log *logger.Logger) *SaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SaleUseCase{ledger: ledger, saleRepo: saleRepo, receipts: receipts, log: log.Component("sales")}
}

// Create registra la venta de userID. idempotencyKey vacío desactiva la deduplicación.
func (uc *SaleUseCase) Create(ctx context.Context, userID, idempotencyKey string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	cmd := appinventory.SaleCommand{
		UserID:         userID,
		CustomerName:   in.CustomerName,
		PaymentMethod:  entity.PaymentMethod(in.PaymentMethod),
		Discount:       in.Discount,
		AmountPaid:     in.AmountPaid,
		Notes:          in.Notes,
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	}
	for _, item := range in.Items {
		cmd.Lines = append(cmd.Lines, appinventory.SaleLineCommand{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	result, err := uc.ledger.ApplySale(ctx, cmd)
	if err != nil {
		return nil, err
	}
	out := toSaleResponse(result.Sale)
	out.Replayed = result.Replayed
	for _, level := range result.StockLevels {
		out.StockLevels = append(out.StockLevels, dto.StockLevelResponse{
			ProductID:    level.ProductID,
			CurrentStock: level.CurrentStock,
		})
	}
	return out, nil
}

// GetByID venta con sus items.
func (uc *SaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// List ventas más recientes primero. Take cero usa el valor por defecto.
func (uc *SaleUseCase) List(ctx context.Context, filter repository.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultSaleTake
	}
	filter.Query = strings.TrimSpace(filter.Query)
	sales, total, err := uc.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		data = append(data, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{Data: data, Meta: dto.ListMeta{Total: total}}, nil
}

// Delete elimina el registro de la venta. El stock vendido no se repone.
func (uc *SaleUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.saleRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("sale_id", id).Msg("venta eliminada")
	return nil
}

// Receipt genera el ticket PDF. Devuelve también el número de venta para nombrar el archivo.
func (uc *SaleUseCase) Receipt(ctx context.Context, id string) ([]byte, string, error) {
	if uc.receipts == nil {
		return nil, "", domain.ErrNotFound
	}
	sale, err := uc.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.receipts.GenerateReceiptPDF(ctx, sale)
	if err != nil {
		return nil, "", err
	}
	return pdf, sale.SaleNumber, nil
}

func (uc *SaleUseCase) get(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrSaleNotFound
	}
	return sale, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:            s.ID,
		SaleNumber:    s.SaleNumber,
		UserID:        s.UserID,
		UserName:      s.UserName,
		CustomerName:  s.CustomerName,
		PaymentMethod: string(s.PaymentMethod),
		Subtotal:      s.Subtotal,
		Tax:           s.Tax,
		Discount:      s.Discount,
		Total:         s.Total,
		AmountPaid:    s.AmountPaid,
		Change:        s.Change,
		Notes:         s.Notes,
		Items:         make([]dto.SaleItemResponse, 0, len(s.Items)),
		CreatedAt:     s.CreatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}
