package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación en memoria de SaleRepository.
type SaleRepo struct {
	b binding
}

func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	return r.b.write(ctx, func(s *state) error {
		for _, existing := range s.sales {
			if existing.SaleNumber == sale.SaleNumber {
				return domain.ErrDuplicate
			}
			if sale.IdempotencyKey != "" && existing.IdempotencyKey == sale.IdempotencyKey {
				return domain.ErrDuplicate
			}
		}
		for _, it := range sale.Items {
			if _, ok := s.products[it.ProductID]; !ok {
				return domain.ErrProductNotFound
			}
		}
		stored := *sale
		stored.Items = append([]entity.SaleItem(nil), sale.Items...)
		s.sales[sale.ID] = stored
		return nil
	})
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.b.read(ctx, func(s *state) error {
		if sale, ok := s.sales[id]; ok {
			out = withUser(s, sale)
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.b.read(ctx, func(s *state) error {
		for _, sale := range s.sales {
			if sale.IdempotencyKey == key {
				out = withUser(s, sale)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	var (
		out   []*entity.Sale
		total int
	)
	err := r.b.read(ctx, func(s *state) error {
		matched := make([]*entity.Sale, 0, len(s.sales))
		for _, sale := range s.sales {
			if !matchSale(sale, f) {
				continue
			}
			matched = append(matched, withUser(s, sale))
		}
		sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
		total = len(matched)
		out = page(matched, f.Limit, f.Offset)
		return nil
	})
	return out, total, err
}

// Delete elimina el registro de la venta; el stock descontado no se repone.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	return r.b.write(ctx, func(s *state) error {
		if _, ok := s.sales[id]; !ok {
			return domain.ErrSaleNotFound
		}
		delete(s.sales, id)
		return nil
	})
}

func (r *SaleRepo) Summary(ctx context.Context, start, end *time.Time) (*entity.SalesSummary, error) {
	out := &entity.SalesSummary{ByMethod: map[entity.PaymentMethod]decimal.Decimal{}}
	err := r.b.read(ctx, func(s *state) error {
		for _, sale := range s.sales {
			if !inRange(sale.CreatedAt, start, end) {
				continue
			}
			out.TotalSales = out.TotalSales.Add(sale.Total)
			out.SalesCount++
			out.ByMethod[sale.PaymentMethod] = out.ByMethod[sale.PaymentMethod].Add(sale.Total)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SaleRepo) ProductSales(ctx context.Context, start, end time.Time) ([]entity.ProductSales, error) {
	var out []entity.ProductSales
	err := r.b.read(ctx, func(s *state) error {
		agg := map[string]*entity.ProductSales{}
		for _, sale := range s.sales {
			if sale.CreatedAt.Before(start) || !sale.CreatedAt.Before(end) {
				continue
			}
			for _, it := range sale.Items {
				ps, ok := agg[it.ProductID]
				if !ok {
					ps = &entity.ProductSales{ProductID: it.ProductID}
					agg[it.ProductID] = ps
				}
				ps.Units = ps.Units.Add(it.Quantity)
				ps.Revenue = ps.Revenue.Add(it.Subtotal)
			}
		}
		out = make([]entity.ProductSales, 0, len(agg))
		for _, ps := range agg {
			out = append(out, *ps)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
		return nil
	})
	return out, err
}

func (r *SaleRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	n := 0
	err := r.b.read(ctx, func(s *state) error {
		for _, sale := range s.sales {
			for _, it := range sale.Items {
				if it.ProductID == productID {
					n++
					break
				}
			}
		}
		return nil
	})
	return n, err
}

func matchSale(sale entity.Sale, f repository.SaleFilter) bool {
	if q := strings.TrimSpace(f.Query); q != "" && !containsFold(sale.SaleNumber, q) && !containsFold(sale.CustomerName, q) {
		return false
	}
	if f.PaymentMethod != "" && sale.PaymentMethod != f.PaymentMethod {
		return false
	}
	return inRange(sale.CreatedAt, f.Start, f.End)
}

// inRange límites inclusivos; nil = sin límite.
func inRange(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

func withUser(s *state, sale entity.Sale) *entity.Sale {
	if u, ok := s.users[sale.UserID]; ok {
		sale.UserName = u.Name
	}
	sale.Items = append([]entity.SaleItem(nil), sale.Items...)
	return &sale
}
