package postgres

import (
	"context"
	"fmt"

	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
)

var _ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)

// StockAdjustmentRepo historial de ajustes sobre PostgreSQL (usable con pool o tx).
type StockAdjustmentRepo struct {
	q Querier
}

// NewStockAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAdjustmentRepository(q Querier) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{q: q}
}

// Create registra un ajuste (append-only).
func (r *StockAdjustmentRepo) Create(ctx context.Context, a *entity.StockAdjustment) error {
	query := `
		INSERT INTO stock_adjustments (id, product_id, user_id, type, quantity, reason, notes, previous_stock, new_stock, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.ProductID, a.UserID, a.Type, a.Quantity, a.Reason, a.Notes, a.PreviousStock, a.NewStock, a.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert stock adjustment: %w", err)
	}
	return nil
}

// List historial filtrado, más reciente primero, con nombres de producto y usuario.
func (r *StockAdjustmentRepo) List(ctx context.Context, f repository.AdjustmentFilter) ([]*entity.StockAdjustment, int, error) {
	w := &where{}
	if f.ProductID != "" {
		w.add(`a.product_id = ?`, f.ProductID)
	}
	if f.Type != "" {
		w.add(`a.type = ?`, string(f.Type))
	}
	if f.Start != nil {
		w.add(`a.created_at >= ?`, *f.Start)
	}
	if f.End != nil {
		w.add(`a.created_at <= ?`, *f.End)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_adjustments a`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock adjustments: %w", err)
	}

	query := `
		SELECT a.id, a.product_id, COALESCE(p.name, ''), a.user_id, COALESCE(u.name, ''), a.type, a.quantity,
			a.reason, a.notes, a.previous_stock, a.new_stock, a.created_at
		FROM stock_adjustments a
		LEFT JOIN products p ON p.id = a.product_id
		LEFT JOIN users u ON u.id = a.user_id` + w.String() + ` ORDER BY a.created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ` + w.arg(f.Limit)
	}
	if f.Offset > 0 {
		query += ` OFFSET ` + w.arg(f.Offset)
	}
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock adjustments: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockAdjustment, 0)
	for rows.Next() {
		var a entity.StockAdjustment
		if err := rows.Scan(&a.ID, &a.ProductID, &a.ProductName, &a.UserID, &a.UserName, &a.Type, &a.Quantity,
			&a.Reason, &a.Notes, &a.PreviousStock, &a.NewStock, &a.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan stock adjustment: %w", err)
		}
		list = append(list, &a)
	}
	return list, total, rows.Err()
}
