package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Activos-api/internal/domain/entity"
	"github.com/jhoicas/Activos-api/internal/domain/repository"
)

var _ repository.StockCountRepository = (*StockCountRepo)(nil)

// StockCountRepo implementación de StockCountRepository sobre PostgreSQL
// (usable con pool o tx). Dos tablas: stock_counts y stock_count_lines.
type StockCountRepo struct {
	q Querier
}

// NewStockCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockCountRepository(q Querier) *StockCountRepo {
	return &StockCountRepo{q: q}
}

// Create persiste el conteo con sus líneas.
func (r *StockCountRepo) Create(ctx context.Context, count *entity.StockCount) error {
	query := `
		INSERT INTO stock_counts (id, company_id, count_date, counted_by, status, finalized_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		count.ID, count.CompanyID, count.CountDate, count.CountedBy, count.Status,
		count.FinalizedAt, count.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock count: %w", err)
	}
	lineQuery := `
		INSERT INTO stock_count_lines (count_id, stock_item_id, item_name, sku, system_quantity, counted_quantity, variance)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, l := range count.Lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			count.ID, l.StockItemID, l.ItemName, l.SKU, l.SystemQuantity, l.CountedQuantity, l.Variance,
		); err != nil {
			return fmt.Errorf("insert stock count line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el conteo con sus líneas; nil si no existe.
func (r *StockCountRepo) GetByID(ctx context.Context, id string) (*entity.StockCount, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene el conteo bloqueando su fila para la conciliación.
func (r *StockCountRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockCount, error) {
	return r.get(ctx, id, true)
}

func (r *StockCountRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.StockCount, error) {
	query := `
		SELECT id, company_id, count_date, counted_by, status, finalized_at, created_at
		FROM stock_counts WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var c entity.StockCount
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.CompanyID, &c.CountDate, &c.CountedBy, &c.Status, &c.FinalizedAt, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock count: %w", err)
	}
	if err := r.loadLines(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Finalize marca el conteo como FINALIZED. Las líneas son inmutables desde la
// creación; solo cambia el estado, como último paso de la tx de conciliación.
func (r *StockCountRepo) Finalize(ctx context.Context, count *entity.StockCount) error {
	query := `
		UPDATE stock_counts SET status = $2, finalized_at = $3
		WHERE id = $1 AND status = $4`
	tag, err := r.q.Exec(ctx, query, count.ID, count.Status, count.FinalizedAt, entity.CountStatusInProgress)
	if err != nil {
		return fmt.Errorf("finalize stock count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// La condición de estado en el WHERE hace la finalización idempotente
		// incluso ante un doble commit accidental
		return fmt.Errorf("finalize stock count: fila no actualizada")
	}
	return nil
}

// HasInProgress es el candado de inventario de la empresa.
func (r *StockCountRepo) HasInProgress(ctx context.Context, companyID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM stock_counts WHERE company_id = $1 AND status = $2)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, companyID, entity.CountStatusInProgress).Scan(&exists); err != nil {
		return false, fmt.Errorf("check in-progress counts: %w", err)
	}
	return exists, nil
}

// InProgressReferencesItem indica si un conteo abierto incluye al ítem.
func (r *StockCountRepo) InProgressReferencesItem(ctx context.Context, companyID, itemID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM stock_counts c
			JOIN stock_count_lines l ON l.count_id = c.id
			WHERE c.company_id = $1 AND c.status = $2 AND l.stock_item_id = $3)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, companyID, entity.CountStatusInProgress, itemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check count references item: %w", err)
	}
	return exists, nil
}

// ListByCompany lista los conteos de la empresa, más recientes primero.
func (r *StockCountRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.StockCount, error) {
	query := `
		SELECT id, company_id, count_date, counted_by, status, finalized_at, created_at
		FROM stock_counts
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock counts: %w", err)
	}
	defer rows.Close()

	var counts []*entity.StockCount
	for rows.Next() {
		var c entity.StockCount
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.CountDate, &c.CountedBy, &c.Status, &c.FinalizedAt, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock count: %w", err)
		}
		counts = append(counts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock counts: %w", err)
	}
	for _, c := range counts {
		if err := r.loadLines(ctx, c); err != nil {
			return nil, err
		}
	}
	return counts, nil
}

func (r *StockCountRepo) loadLines(ctx context.Context, count *entity.StockCount) error {
	query := `
		SELECT stock_item_id, item_name, sku, system_quantity, counted_quantity, variance
		FROM stock_count_lines
		WHERE count_id = $1
		ORDER BY item_name`
	rows, err := r.q.Query(ctx, query, count.ID)
	if err != nil {
		return fmt.Errorf("load count lines: %w", err)
	}
	defer rows.Close()

	count.Lines = nil
	for rows.Next() {
		var l entity.CountLine
		if err := rows.Scan(&l.StockItemID, &l.ItemName, &l.SKU, &l.SystemQuantity, &l.CountedQuantity, &l.Variance); err != nil {
			return fmt.Errorf("scan count line: %w", err)
		}
		count.Lines = append(count.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate count lines: %w", err)
	}
	return nil
}
