package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleSelect = `
	SELECT s.id, s.sale_number, s.user_id, COALESCE(u.name, ''), s.customer_name, s.payment_method,
		s.subtotal, s.tax, s.discount, s.total, s.amount_paid, s.change_due, s.notes,
		COALESCE(s.idempotency_key, ''), s.created_at
	FROM sales s LEFT JOIN users u ON u.id = s.user_id`

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.SaleNumber, &s.UserID, &s.UserName, &s.CustomerName, &s.PaymentMethod,
		&s.Subtotal, &s.Tax, &s.Discount, &s.Total, &s.AmountPaid, &s.Change, &s.Notes,
		&s.IdempotencyKey, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta la cabecera y sus items. Debe llamarse dentro de la tx del libro de stock.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, sale_number, user_id, customer_name, payment_method, subtotal, tax, discount,
			total, amount_paid, change_due, notes, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), $14)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.SaleNumber, sale.UserID, sale.CustomerName, sale.PaymentMethod, sale.Subtotal,
		sale.Tax, sale.Discount, sale.Total, sale.AmountPaid, sale.Change, sale.Notes, sale.IdempotencyKey,
		sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	itemQuery := `
		INSERT INTO sale_items (id, sale_id, product_id, product_name, sku, unit, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, it := range sale.Items {
		if _, err := r.q.Exec(ctx, itemQuery,
			it.ID, sale.ID, it.ProductID, it.ProductName, it.SKU, it.Unit, it.Quantity, it.UnitPrice, it.Subtotal,
		); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrProductNotFound
			}
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus items. Devuelve nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `s.id = $1`, id)
}

// GetByIdempotencyKey busca la venta registrada con esa clave.
func (r *SaleRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Sale, error) {
	return r.getOne(ctx, `s.idempotency_key = $1`, key)
}

func (r *SaleRepo) getOne(ctx context.Context, cond string, arg any) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, saleSelect+` WHERE `+cond, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) loadItems(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Sale, len(sales))
	ids := make([]string, 0, len(sales))
	for _, s := range sales {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, product_name, sku, unit, quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = ANY($1) ORDER BY product_name`, ids)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.SKU, &it.Unit,
			&it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		if s, ok := byID[it.SaleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	return rows.Err()
}

// List ventas con filtros, más recientes primero, con sus items.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	w := &where{}
	if f.Query != "" {
		w.add(`(s.sale_number ILIKE ? OR s.customer_name ILIKE ?)`, likePattern(f.Query), likePattern(f.Query))
	}
	if f.PaymentMethod != "" {
		w.add(`s.payment_method = ?`, string(f.PaymentMethod))
	}
	if f.Start != nil {
		w.add(`s.created_at >= ?`, *f.Start)
	}
	if f.End != nil {
		w.add(`s.created_at <= ?`, *f.End)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales s`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	query := saleSelect + w.String() + ` ORDER BY s.created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ` + w.arg(f.Limit)
	}
	if f.Offset > 0 {
		query += ` OFFSET ` + w.arg(f.Offset)
	}
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	list := make([]*entity.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Delete borra la venta y sus items (cascade). El stock descontado no se repone.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

// Summary total y cantidad de ventas por medio de pago.
func (r *SaleRepo) Summary(ctx context.Context, start, end *time.Time) (*entity.SalesSummary, error) {
	w := &where{}
	if start != nil {
		w.add(`created_at >= ?`, *start)
	}
	if end != nil {
		w.add(`created_at <= ?`, *end)
	}
	rows, err := r.q.Query(ctx,
		`SELECT payment_method, COALESCE(SUM(total), 0), COUNT(*) FROM sales`+w.String()+` GROUP BY payment_method`,
		w.args...)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	defer rows.Close()

	out := &entity.SalesSummary{ByMethod: map[entity.PaymentMethod]decimal.Decimal{}}
	for rows.Next() {
		var (
			method entity.PaymentMethod
			sum    decimal.Decimal
			n      int
		)
		if err := rows.Scan(&method, &sum, &n); err != nil {
			return nil, fmt.Errorf("scan sales summary: %w", err)
		}
		out.ByMethod[method] = sum
		out.TotalSales = out.TotalSales.Add(sum)
		out.SalesCount += n
	}
	return out, rows.Err()
}

// ProductSales unidades e ingresos por producto en [start, end).
func (r *SaleRepo) ProductSales(ctx context.Context, start, end time.Time) ([]entity.ProductSales, error) {
	rows, err := r.q.Query(ctx, `
		SELECT si.product_id, SUM(si.quantity), SUM(si.subtotal)
		FROM sale_items si JOIN sales s ON s.id = si.sale_id
		WHERE s.created_at >= $1 AND s.created_at < $2
		GROUP BY si.product_id ORDER BY si.product_id`, start, end)
	if err != nil {
		return nil, fmt.Errorf("product sales: %w", err)
	}
	defer rows.Close()
	out := make([]entity.ProductSales, 0)
	for rows.Next() {
		var ps entity.ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.Units, &ps.Revenue); err != nil {
			return nil, fmt.Errorf("scan product sales: %w", err)
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

// CountByProduct número de ventas que incluyen el producto.
func (r *SaleRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx,
		`SELECT COUNT(DISTINCT sale_id) FROM sale_items WHERE product_id = $1`, productID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales by product: %w", err)
	}
	return n, nil
}
