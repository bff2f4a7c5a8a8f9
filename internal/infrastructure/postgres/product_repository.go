package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `
	p.id, p.name, p.description, p.sku, COALESCE(p.barcode, ''), COALESCE(p.category_id, ''),
	COALESCE(c.name, ''), p.unit, p.cost_price, p.selling_price, p.current_stock, p.reorder_level,
	p.is_active, p.created_at, p.updated_at`

const productFrom = ` FROM products p LEFT JOIN categories c ON c.id = p.category_id`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.SKU, &p.Barcode, &p.CategoryID,
		&p.CategoryName, &p.Unit, &p.CostPrice, &p.SellingPrice, &p.CurrentStock, &p.ReorderLevel,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto con su stock de apertura.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, description, sku, barcode, category_id, unit, cost_price, selling_price,
			current_stock, reorder_level, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.SKU, product.Barcode, product.CategoryID,
		product.Unit, product.CostPrice, product.SellingPrice, product.CurrentStock, product.ReorderLevel,
		product.IsActive, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. Devuelve nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT`+productColumns+productFrom+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU sin distinguir mayúsculas.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT`+productColumns+productFrom+` WHERE lower(p.sku) = lower($1)`, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update actualiza datos de catálogo. current_stock no se toca: solo lo cambia el libro de stock.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, sku = $4, barcode = NULLIF($5, ''),
			category_id = NULLIF($6, ''), unit = $7, cost_price = $8, selling_price = $9,
			reorder_level = $10, is_active = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.SKU, product.Barcode, product.CategoryID,
		product.Unit, product.CostPrice, product.SellingPrice, product.ReorderLevel, product.IsActive,
		product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Delete elimina un producto. Si tiene ventas, ajustes o conteos devuelve ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// List busca productos con filtros y paginación; devuelve también el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	w := &where{}
	if f.Query != "" {
		w.add(`(p.name ILIKE ? OR p.sku ILIKE ? OR p.barcode ILIKE ?)`,
			likePattern(f.Query), likePattern(f.Query), likePattern(f.Query))
	}
	if f.CategoryID != "" {
		w.add(`p.category_id = ?`, f.CategoryID)
	}
	if f.Active != nil {
		w.add(`p.is_active = ?`, *f.Active)
	}
	switch f.Stock {
	case repository.StockLow:
		w.add(`p.current_stock <= p.reorder_level`)
	case repository.StockOut:
		w.add(`p.current_stock <= 0`)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+productFrom+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT` + productColumns + productFrom + w.String() + ` ORDER BY p.name`
	if f.Limit > 0 {
		query += ` LIMIT ` + w.arg(f.Limit)
	}
	if f.Offset > 0 {
		query += ` OFFSET ` + w.arg(f.Offset)
	}
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// GetForUpdate lee el stock del producto y bloquea la fila hasta el fin de la tx (SELECT FOR UPDATE).
// Devuelve nil si el producto no existe.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockLevel, error) {
	query := `
		SELECT id, name, sku, unit, selling_price, current_stock
		FROM products WHERE id = $1
		FOR UPDATE`
	var s entity.StockLevel
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ProductID, &s.Name, &s.SKU, &s.Unit, &s.SellingPrice, &s.CurrentStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return &s, nil
}

// UpdateStock fija current_stock. Solo debe llamarse con la fila bloqueada.
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, quantity decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET current_stock = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
