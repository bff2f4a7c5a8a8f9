package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	b binding
}

func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.b.write(ctx, func(s *state) error {
		for _, p := range s.products {
			if strings.EqualFold(p.SKU, product.SKU) {
				return domain.ErrDuplicate
			}
			if product.Barcode != "" && p.Barcode == product.Barcode {
				return domain.ErrDuplicate
			}
		}
		if product.CategoryID != "" {
			if _, ok := s.categories[product.CategoryID]; !ok {
				return domain.ErrCategoryNotFound
			}
		}
		s.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.b.read(ctx, func(s *state) error {
		if p, ok := s.products[id]; ok {
			out = withCategory(s, p)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.b.read(ctx, func(s *state) error {
		for _, p := range s.products {
			if strings.EqualFold(p.SKU, sku) {
				out = withCategory(s, p)
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Update conserva current_stock: solo el libro de stock lo modifica.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	return r.b.write(ctx, func(s *state) error {
		current, ok := s.products[product.ID]
		if !ok {
			return domain.ErrProductNotFound
		}
		for id, p := range s.products {
			if id == product.ID {
				continue
			}
			if strings.EqualFold(p.SKU, product.SKU) || (product.Barcode != "" && p.Barcode == product.Barcode) {
				return domain.ErrDuplicate
			}
		}
		if product.CategoryID != "" {
			if _, ok := s.categories[product.CategoryID]; !ok {
				return domain.ErrCategoryNotFound
			}
		}
		next := *product
		next.CurrentStock = current.CurrentStock
		next.CreatedAt = current.CreatedAt
		s.products[product.ID] = next
		return nil
	})
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.b.write(ctx, func(s *state) error {
		if _, ok := s.products[id]; !ok {
			return domain.ErrProductNotFound
		}
		if productReferenced(s, id) {
			return domain.ErrConflict
		}
		delete(s.products, id)
		return nil
	})
}

func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var (
		out   []*entity.Product
		total int
	)
	err := r.b.read(ctx, func(s *state) error {
		matched := make([]*entity.Product, 0, len(s.products))
		for _, p := range s.products {
			if !matchProduct(p, f) {
				continue
			}
			matched = append(matched, withCategory(s, p))
		}
		sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
		total = len(matched)
		out = page(matched, f.Limit, f.Offset)
		return nil
	})
	return out, total, err
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockLevel, error) {
	var out *entity.StockLevel
	err := r.b.read(ctx, func(s *state) error {
		if p, ok := s.products[id]; ok {
			out = &entity.StockLevel{
				ProductID:    p.ID,
				Name:         p.Name,
				SKU:          p.SKU,
				Unit:         p.Unit,
				SellingPrice: p.SellingPrice,
				CurrentStock: p.CurrentStock,
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) UpdateStock(ctx context.Context, id string, quantity decimal.Decimal) error {
	return r.b.write(ctx, func(s *state) error {
		p, ok := s.products[id]
		if !ok {
			return domain.ErrProductNotFound
		}
		p.CurrentStock = quantity
		s.products[id] = p
		return nil
	})
}

func matchProduct(p entity.Product, f repository.ProductFilter) bool {
	if q := strings.TrimSpace(f.Query); q != "" {
		if !containsFold(p.Name, q) && !containsFold(p.SKU, q) && !containsFold(p.Barcode, q) {
			return false
		}
	}
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	if f.Active != nil && p.IsActive != *f.Active {
		return false
	}
	switch f.Stock {
	case repository.StockLow:
		return p.IsLowStock()
	case repository.StockOut:
		return p.IsOutOfStock()
	}
	return true
}

func withCategory(s *state, p entity.Product) *entity.Product {
	if c, ok := s.categories[p.CategoryID]; ok {
		p.CategoryName = c.Name
	}
	return &p
}

func productReferenced(s *state, id string) bool {
	for _, sale := range s.sales {
		for _, it := range sale.Items {
			if it.ProductID == id {
				return true
			}
		}
	}
	for _, a := range s.adjustments {
		if a.ProductID == id {
			return true
		}
	}
	for _, c := range s.counts {
		if c.ProductID == id {
			return true
		}
	}
	return false
}
