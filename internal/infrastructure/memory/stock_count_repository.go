package memory

import (
	"context"
	"sort"

	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
)

var _ repository.StockCountRepository = (*StockCountRepo)(nil)

// StockCountRepo historial de conteos físicos en memoria.
type StockCountRepo struct {
	b binding
}

func (r *StockCountRepo) Create(ctx context.Context, c *entity.StockCount) error {
	return r.b.write(ctx, func(s *state) error {
		if _, ok := s.products[c.ProductID]; !ok {
			return domain.ErrProductNotFound
		}
		s.counts = append(s.counts, *c)
		return nil
	})
}

func (r *StockCountRepo) List(ctx context.Context, f repository.CountFilter) ([]*entity.StockCount, error) {
	var out []*entity.StockCount
	err := r.b.read(ctx, func(s *state) error {
		for _, c := range s.counts {
			if f.ProductID != "" && c.ProductID != f.ProductID {
				continue
			}
			if f.Start != nil && c.CountDate.Before(*f.Start) {
				continue
			}
			if f.End != nil && !c.CountDate.Before(*f.End) {
				continue
			}
			if p, ok := s.products[c.ProductID]; ok {
				c.ProductName = p.Name
				c.SellingPrice = p.SellingPrice
			}
			c := c
			out = append(out, &c)
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].CountDate.After(out[j].CountDate) })
		if f.Limit > 0 && len(out) > f.Limit {
			out = out[:f.Limit]
		}
		return nil
	})
	return out, err
}
