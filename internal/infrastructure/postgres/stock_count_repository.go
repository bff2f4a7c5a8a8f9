package postgres

import (
	"context"
	"fmt"

	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
)

var _ repository.StockCountRepository = (*StockCountRepo)(nil)

// StockCountRepo historial de conteos físicos sobre PostgreSQL (usable con pool o tx).
type StockCountRepo struct {
	q Querier
}

// NewStockCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockCountRepository(q Querier) *StockCountRepo {
	return &StockCountRepo{q: q}
}

// Create registra un conteo (append-only).
func (r *StockCountRepo) Create(ctx context.Context, c *entity.StockCount) error {
	query := `
		INSERT INTO stock_counts (id, product_id, user_id, count_date, expected_qty, actual_qty, variance, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ProductID, c.UserID, c.CountDate, c.ExpectedQty, c.ActualQty, c.Variance, c.Notes, c.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert stock count: %w", err)
	}
	return nil
}

// List conteos filtrados por producto y fecha [Start, End), más recientes primero.
func (r *StockCountRepo) List(ctx context.Context, f repository.CountFilter) ([]*entity.StockCount, error) {
	w := &where{}
	if f.ProductID != "" {
		w.add(`sc.product_id = ?`, f.ProductID)
	}
	if f.Start != nil {
		w.add(`sc.count_date >= ?`, *f.Start)
	}
	if f.End != nil {
		w.add(`sc.count_date < ?`, *f.End)
	}
	query := `
		SELECT sc.id, sc.product_id, COALESCE(p.name, ''), COALESCE(p.selling_price, 0), sc.user_id, sc.count_date,
			sc.expected_qty, sc.actual_qty, sc.variance, sc.notes, sc.created_at
		FROM stock_counts sc LEFT JOIN products p ON p.id = sc.product_id` + w.String() + `
		ORDER BY sc.count_date DESC`
	if f.Limit > 0 {
		query += ` LIMIT ` + w.arg(f.Limit)
	}
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock counts: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockCount, 0)
	for rows.Next() {
		var c entity.StockCount
		if err := rows.Scan(&c.ID, &c.ProductID, &c.ProductName, &c.SellingPrice, &c.UserID, &c.CountDate,
			&c.ExpectedQty, &c.ActualQty, &c.Variance, &c.Notes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock count: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
