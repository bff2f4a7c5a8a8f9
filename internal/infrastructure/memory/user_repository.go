package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	b binding
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	return r.b.write(ctx, func(s *state) error {
		for _, existing := range s.users {
			if strings.EqualFold(existing.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		s.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.b.read(ctx, func(s *state) error {
		if u, ok := s.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.b.read(ctx, func(s *state) error {
		for _, u := range s.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	return r.b.write(ctx, func(s *state) error {
		current, ok := s.users[u.ID]
		if !ok {
			return domain.ErrUserNotFound
		}
		for id, existing := range s.users {
			if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		next := *u
		next.CreatedAt = current.CreatedAt
		s.users[u.ID] = next
		return nil
	})
}

func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, int, error) {
	var (
		out   []*entity.User
		total int
	)
	err := r.b.read(ctx, func(s *state) error {
		matched := make([]*entity.User, 0, len(s.users))
		for _, u := range s.users {
			if q := strings.TrimSpace(f.Query); q != "" && !containsFold(u.Name, q) && !containsFold(u.Email, q) {
				continue
			}
			if f.Role != "" && u.Role != f.Role {
				continue
			}
			if f.IsActive != nil && u.IsActive != *f.IsActive {
				continue
			}
			u := u
			matched = append(matched, &u)
		}
		sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
		total = len(matched)
		out = page(matched, f.Limit, f.Offset)
		return nil
	})
	return out, total, err
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.b.write(ctx, func(s *state) error {
		if _, ok := s.users[id]; !ok {
			return domain.ErrUserNotFound
		}
		if userReferenced(s, id) {
			return domain.ErrConflict
		}
		delete(s.users, id)
		return nil
	})
}

func userReferenced(s *state, id string) bool {
	for _, sale := range s.sales {
		if sale.UserID == id {
			return true
		}
	}
	for _, a := range s.adjustments {
		if a.UserID == id {
			return true
		}
	}
	for _, c := range s.counts {
		if c.UserID == id {
			return true
		}
	}
	return false
}
