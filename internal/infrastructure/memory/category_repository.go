package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación en memoria de CategoryRepository.
type CategoryRepo struct {
	b binding
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	return r.b.write(ctx, func(s *state) error {
		for _, existing := range s.categories {
			if strings.EqualFold(existing.Name, c.Name) {
				return domain.ErrDuplicate
			}
		}
		s.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.b.read(ctx, func(s *state) error {
		if c, ok := s.categories[id]; ok {
			out = withProductCount(s, c)
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	var out *entity.Category
	err := r.b.read(ctx, func(s *state) error {
		for _, c := range s.categories {
			if strings.EqualFold(c.Name, name) {
				out = withProductCount(s, c)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	return r.b.write(ctx, func(s *state) error {
		current, ok := s.categories[c.ID]
		if !ok {
			return domain.ErrCategoryNotFound
		}
		for id, existing := range s.categories {
			if id != c.ID && strings.EqualFold(existing.Name, c.Name) {
				return domain.ErrDuplicate
			}
		}
		next := *c
		next.CreatedAt = current.CreatedAt
		s.categories[c.ID] = next
		return nil
	})
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.b.read(ctx, func(s *state) error {
		out = make([]*entity.Category, 0, len(s.categories))
		for _, c := range s.categories {
			out = append(out, withProductCount(s, c))
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	return r.b.write(ctx, func(s *state) error {
		if _, ok := s.categories[id]; !ok {
			return domain.ErrCategoryNotFound
		}
		for _, p := range s.products {
			if p.CategoryID == id {
				return domain.ErrConflict
			}
		}
		delete(s.categories, id)
		return nil
	})
}

func withProductCount(s *state, c entity.Category) *entity.Category {
	c.ProductCount = 0
	for _, p := range s.products {
		if p.CategoryID == c.ID {
			c.ProductCount++
		}
	}
	return &c
}
