// Package memory implementa los repositorios sobre mapas en memoria.
// Se usa con STORE_DRIVER=memory (desarrollo sin PostgreSQL) y en los tests.
// Run serializa las transacciones y trabaja sobre una copia: commit reemplaza el estado,
// cualquier error lo descarta.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	appinventory "github.com/nandwere/stock-pos/internal/application/inventory"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
)

var _ appinventory.TxRunner = (*Store)(nil)

type state struct {
	products    map[string]entity.Product
	categories  map[string]entity.Category
	users       map[string]entity.User
	sales       map[string]entity.Sale
	adjustments []entity.StockAdjustment
	counts      []entity.StockCount
}

func newState() *state {
	return &state{
		products:   map[string]entity.Product{},
		categories: map[string]entity.Category{},
		users:      map[string]entity.User{},
		sales:      map[string]entity.Sale{},
	}
}

func (s *state) clone() *state {
	c := &state{
		products:    make(map[string]entity.Product, len(s.products)),
		categories:  make(map[string]entity.Category, len(s.categories)),
		users:       make(map[string]entity.User, len(s.users)),
		sales:       make(map[string]entity.Sale, len(s.sales)),
		adjustments: append([]entity.StockAdjustment(nil), s.adjustments...),
		counts:      append([]entity.StockCount(nil), s.counts...),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.sales {
		v.Items = append([]entity.SaleItem(nil), v.Items...)
		c.sales[k] = v
	}
	return c
}

// Store almacén en memoria seguro para uso concurrente.
type Store struct {
	mu   sync.RWMutex
	data *state
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{data: newState()}
}

// Run ejecuta fn con repositorios atados a una copia del estado. Las transacciones se
// serializan entre sí, lo que equivale a bloquear todas las filas que tocan.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	adjustmentRepo repository.StockAdjustmentRepository,
	countRepo repository.StockCountRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	tx := s.data.clone()
	b := binding{store: s, tx: tx}
	if err := fn(&ProductRepo{b}, &SaleRepo{b}, &StockAdjustmentRepo{b}, &StockCountRepo{b}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	s.data = tx
	return nil
}

// Repositorios fuera de transacción (equivalentes a usar el pool).

func (s *Store) Products() *ProductRepo { return &ProductRepo{binding{store: s}} }
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{binding{store: s}} }
func (s *Store) Users() *UserRepo { return &UserRepo{binding{store: s}} }
func (s *Store) Sales() *SaleRepo { return &SaleRepo{binding{store: s}} }
func (s *Store) Adjustments() *StockAdjustmentRepo { return &StockAdjustmentRepo{binding{store: s}} }
func (s *Store) Counts() *StockCountRepo { return &StockCountRepo{binding{store: s}} }

// binding decide si una operación corre sobre la copia de una tx (ya bloqueada)
// o sobre el estado compartido con su propio lock.
type binding struct {
	store *Store
	tx    *state
}

func (b binding) read(ctx context.Context, fn func(*state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	return fn(b.store.data)
}

func (b binding) write(ctx context.Context, fn func(*state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	// Escritura suelta: también atómica, sobre copia.
	next := b.store.data.clone()
	if err := fn(next); err != nil {
		return err
	}
	b.store.data = next
	return nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
