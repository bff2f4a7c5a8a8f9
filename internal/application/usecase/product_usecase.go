package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nandwere/stock-pos/internal/application/dto"
	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	stockrules "github.com/nandwere/stock-pos/internal/domain/inventory"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const defaultUnit = "pcs"

// StockCache lectura cacheada del stock. El libro de stock invalida tras cada commit;
// Invalidate cubre los cambios que no pasan por el libro.
type StockCache interface {
	Get(ctx context.Context, productID string) (decimal.Decimal, bool)
	Set(ctx context.Context, productID string, qty decimal.Decimal)
	Invalidate(ctx context.Context, productIDs ...string)
}

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia por ventas, ajustes y conteos.
type ProductUseCase struct {
	repo     repository.ProductRepository
	saleRepo repository.SaleRepository
	cache    StockCache
}

// NewProductUseCase construye el caso de uso. cache puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, saleRepo repository.SaleRepository, cache StockCache) *ProductUseCase {
	return &ProductUseCase{repo: repo, saleRepo: saleRepo, cache: cache}
}

// Create crea un producto con su stock de apertura.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	v := domain.NewValidationError()
	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "es obligatorio")
	}
	if strings.TrimSpace(in.SKU) == "" {
		v.Add("sku", "es obligatorio")
	}
	nonNegative(v, "costPrice", stockrules.MoneyScale, in.CostPrice)
	nonNegative(v, "sellingPrice", stockrules.MoneyScale, in.SellingPrice)
	nonNegative(v, "currentStock", stockrules.QuantityScale, in.CurrentStock)
	nonNegative(v, "reorderLevel", stockrules.QuantityScale, in.ReorderLevel)
	if err := v.Err(); err != nil {
		return nil, err
	}

	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = defaultUnit
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		SKU:          strings.TrimSpace(in.SKU),
		Barcode:      strings.TrimSpace(in.Barcode),
		CategoryID:   in.CategoryID,
		Unit:         unit,
		CostPrice:    in.CostPrice,
		SellingPrice: in.SellingPrice,
		CurrentStock: in.CurrentStock,
		ReorderLevel: in.ReorderLevel,
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, product.ID)
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(product), nil
}

// Update modifica datos de catálogo. current_stock no se toca.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	v := domain.NewValidationError()
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
		if product.Name == "" {
			v.Add("name", "no puede estar vacío")
		}
	}
	if in.SKU != nil {
		product.SKU = strings.TrimSpace(*in.SKU)
		if product.SKU == "" {
			v.Add("sku", "no puede estar vacío")
		}
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Barcode != nil {
		product.Barcode = strings.TrimSpace(*in.Barcode)
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.Unit != nil {
		product.Unit = strings.TrimSpace(*in.Unit)
		if product.Unit == "" {
			product.Unit = defaultUnit
		}
	}
	if in.CostPrice != nil {
		nonNegative(v, "costPrice", stockrules.MoneyScale, *in.CostPrice)
		product.CostPrice = *in.CostPrice
	}
	if in.SellingPrice != nil {
		nonNegative(v, "sellingPrice", stockrules.MoneyScale, *in.SellingPrice)
		product.SellingPrice = *in.SellingPrice
	}
	if in.ReorderLevel != nil {
		nonNegative(v, "reorderLevel", stockrules.QuantityScale, *in.ReorderLevel)
		product.ReorderLevel = *in.ReorderLevel
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// List lista productos con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	q.DefaultPage()
	filter := repository.ProductFilter{
		Query:      strings.TrimSpace(q.Query),
		CategoryID: q.CategoryID,
		Stock:      repository.StockFilter(q.Stock),
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	if q.Active != "" {
		active := q.Active == "true"
		filter.Active = &active
	}
	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Delete elimina un producto sin ventas. Con historial devuelve ErrConflict.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	sold, err := uc.saleRepo.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if sold > 0 {
		return fmt.Errorf("%w: el producto tiene %d ventas registradas", domain.ErrConflict, sold)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, id)
	}
	return nil
}

// GetStock stock actual, leído de la caché si está disponible.
func (uc *ProductUseCase) GetStock(ctx context.Context, id string) (*dto.StockResponse, error) {
	if uc.cache != nil {
		if qty, ok := uc.cache.Get(ctx, id); ok {
			return &dto.StockResponse{ProductID: id, CurrentStock: qty, Cached: true}, nil
		}
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if uc.cache != nil {
		uc.cache.Set(ctx, id, product.CurrentStock)
	}
	return &dto.StockResponse{ProductID: id, CurrentStock: product.CurrentStock}, nil
}

// ProfitMargin margen del producto a sus precios vigentes.
func (uc *ProductUseCase) ProfitMargin(ctx context.Context, id string) (*dto.ProfitMarginResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	m := stockrules.CalculateProfitMargin(product.CostPrice, product.SellingPrice)
	return &dto.ProfitMarginResponse{
		ProductID:    product.ID,
		CostPrice:    product.CostPrice,
		SellingPrice: product.SellingPrice,
		Profit:       m.Profit,
		MarginPct:    m.MarginPct,
		MarkupPct:    m.MarkupPct,
	}, nil
}

func nonNegative(v *domain.ValidationError, field string, scale int32, value decimal.Decimal) {
	switch {
	case value.IsNegative():
		v.Add(field, "no puede ser negativo")
	case !stockrules.FitsScale(value, scale):
		v.Add(field, fmt.Sprintf("admite como máximo %d decimales", scale))
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	out := &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		SKU:          p.SKU,
		Barcode:      p.Barcode,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		Unit:         p.Unit,
		CostPrice:    p.CostPrice,
		SellingPrice: p.SellingPrice,
		CurrentStock: p.CurrentStock,
		ReorderLevel: p.ReorderLevel,
		IsActive:     p.IsActive,
		IsLowStock:   p.IsLowStock(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.SellsBelowCost() {
		out.Warnings = append(out.Warnings, "el precio de venta es menor que el costo")
	}
	return out
}
