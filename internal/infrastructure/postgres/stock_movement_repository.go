package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Activos-api/internal/domain/entity"
	"github.com/jhoicas/Activos-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del registrador de movimientos sobre
// PostgreSQL (usable con pool o tx). La tabla es append-only: este adaptador
// no expone UPDATE ni DELETE a propósito.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento inmutable.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, stock_item_id, company_id, type, quantity, origin, destination, reason, batch_ids, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.StockItemID, m.CompanyID, string(m.Type), m.Quantity,
		m.Origin, m.Destination, m.Reason, m.BatchIDs, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByItem devuelve el historial de un ítem, más reciente primero.
func (r *StockMovementRepo) ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, stock_item_id, company_id, type, quantity, origin, destination, reason, batch_ids, created_at, created_by
		FROM stock_movements
		WHERE stock_item_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var movs []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var movType string
		if err := rows.Scan(
			&m.ID, &m.StockItemID, &m.CompanyID, &movType, &m.Quantity,
			&m.Origin, &m.Destination, &m.Reason, &m.BatchIDs, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Type = entity.MovementType(movType)
		movs = append(movs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock movements: %w", err)
	}
	return movs, nil
}
