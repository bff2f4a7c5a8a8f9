package memory

import (
	"context"
	"sort"

	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
)

var _ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)

// StockAdjustmentRepo historial de ajustes en memoria.
type StockAdjustmentRepo struct {
	b binding
}

func (r *StockAdjustmentRepo) Create(ctx context.Context, adj *entity.StockAdjustment) error {
	return r.b.write(ctx, func(s *state) error {
		if _, ok := s.products[adj.ProductID]; !ok {
			return domain.ErrProductNotFound
		}
		s.adjustments = append(s.adjustments, *adj)
		return nil
	})
}

func (r *StockAdjustmentRepo) List(ctx context.Context, f repository.AdjustmentFilter) ([]*entity.StockAdjustment, int, error) {
	var (
		out   []*entity.StockAdjustment
		total int
	)
	err := r.b.read(ctx, func(s *state) error {
		matched := make([]*entity.StockAdjustment, 0, len(s.adjustments))
		for _, a := range s.adjustments {
			if f.ProductID != "" && a.ProductID != f.ProductID {
				continue
			}
			if f.Type != "" && a.Type != f.Type {
				continue
			}
			if !inRange(a.CreatedAt, f.Start, f.End) {
				continue
			}
			if p, ok := s.products[a.ProductID]; ok {
				a.ProductName = p.Name
			}
			if u, ok := s.users[a.UserID]; ok {
				a.UserName = u.Name
			}
			a := a
			matched = append(matched, &a)
		}
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
		total = len(matched)
		out = page(matched, f.Limit, f.Offset)
		return nil
	})
	return out, total, err
}
