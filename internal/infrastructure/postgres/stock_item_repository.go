package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Activos-api/internal/domain"
	"github.com/jhoicas/Activos-api/internal/domain/entity"
	"github.com/jhoicas/Activos-api/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL
// (usable con pool o tx). Un ítem son dos tablas: stock_items (metadatos)
// y stock_batches (el ledger de lotes). La cantidad total nunca se persiste:
// se deriva de los lotes.
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

// Create persiste el ítem con sus lotes iniciales.
func (r *StockItemRepo) Create(ctx context.Context, item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (id, company_id, name, sku, location, threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.CompanyID, item.Name, item.SKU, item.Location, item.Threshold,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate // SKU repetido en la empresa
		}
		return fmt.Errorf("insert stock item: %w", err)
	}
	return r.insertBatches(ctx, item)
}

// GetByID obtiene el ítem con sus lotes. Devuelve nil si no existe o fue borrado.
func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene el ítem y bloquea su fila (SELECT FOR UPDATE):
// disciplina de un solo escritor por agregado.
func (r *StockItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.get(ctx, id, true)
}

func (r *StockItemRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.StockItem, error) {
	query := `
		SELECT id, company_id, name, sku, location, threshold, deleted_at, created_at, updated_at
		FROM stock_items WHERE id = $1 AND deleted_at IS NULL`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var item entity.StockItem
	err := r.q.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.CompanyID, &item.Name, &item.SKU, &item.Location, &item.Threshold,
		&item.DeletedAt, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	if err := r.loadBatches(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Save persiste los metadatos y reemplaza el conjunto de lotes del ítem.
// Se llama con la fila del ítem ya bloqueada, así que el reemplazo es seguro.
func (r *StockItemRepo) Save(ctx context.Context, item *entity.StockItem) error {
	query := `
		UPDATE stock_items
		SET name = $2, location = $3, threshold = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, item.ID, item.Name, item.Location, item.Threshold, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_batches WHERE stock_item_id = $1`, item.ID); err != nil {
		return fmt.Errorf("clear stock batches: %w", err)
	}
	return r.insertBatches(ctx, item)
}

// SoftDelete marca el ítem como borrado; lotes y movimientos se conservan.
func (r *StockItemRepo) SoftDelete(ctx context.Context, item *entity.StockItem) error {
	query := `UPDATE stock_items SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query, item.ID, item.DeletedAt)
	if err != nil {
		return fmt.Errorf("soft delete stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista los ítems activos de una empresa con sus lotes.
func (r *StockItemRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.StockItem, error) {
	query := `
		SELECT id, company_id, name, sku, location, threshold, deleted_at, created_at, updated_at
		FROM stock_items
		WHERE company_id = $1 AND deleted_at IS NULL
		ORDER BY name
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()

	var items []*entity.StockItem
	for rows.Next() {
		var item entity.StockItem
		if err := rows.Scan(
			&item.ID, &item.CompanyID, &item.Name, &item.SKU, &item.Location, &item.Threshold,
			&item.DeletedAt, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock items: %w", err)
	}
	for _, item := range items {
		if err := r.loadBatches(ctx, item); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *StockItemRepo) insertBatches(ctx context.Context, item *entity.StockItem) error {
	query := `
		INSERT INTO stock_batches (id, stock_item_id, lot_number, expiry_date, quantity, entry_date)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, b := range item.Batches {
		if _, err := r.q.Exec(ctx, query, b.ID, item.ID, b.LotNumber, b.ExpiryDate, b.Quantity, b.EntryDate); err != nil {
			return fmt.Errorf("insert stock batch: %w", err)
		}
	}
	return nil
}

func (r *StockItemRepo) loadBatches(ctx context.Context, item *entity.StockItem) error {
	query := `
		SELECT id, lot_number, expiry_date, quantity, entry_date
		FROM stock_batches
		WHERE stock_item_id = $1
		ORDER BY entry_date, id`
	rows, err := r.q.Query(ctx, query, item.ID)
	if err != nil {
		return fmt.Errorf("load stock batches: %w", err)
	}
	defer rows.Close()

	item.Batches = nil
	for rows.Next() {
		var b entity.StockBatch
		if err := rows.Scan(&b.ID, &b.LotNumber, &b.ExpiryDate, &b.Quantity, &b.EntryDate); err != nil {
			return fmt.Errorf("scan stock batch: %w", err)
		}
		item.Batches = append(item.Batches, b)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate stock batches: %w", err)
	}
	return nil
}
