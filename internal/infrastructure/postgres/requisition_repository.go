package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Activos-api/internal/domain/entity"
	"github.com/jhoicas/Activos-api/internal/domain/repository"
)

var _ repository.RequisitionRepository = (*RequisitionRepo)(nil)

// RequisitionRepo implementación del sumidero de requisiciones sobre
// PostgreSQL (usable con pool o tx). El resto del ciclo de compras
// (aprobación, RFQ, orden) vive en otro módulo.
type RequisitionRepo struct {
	q Querier
}

// NewRequisitionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequisitionRepository(q Querier) *RequisitionRepo {
	return &RequisitionRepo{q: q}
}

// Create persiste una requisición de compra.
func (r *RequisitionRepo) Create(ctx context.Context, req *entity.PurchaseRequisition) error {
	query := `
		INSERT INTO purchase_requisitions (id, company_id, stock_item_id, description, requested_quantity, justification, status, auto_generated, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.CompanyID, req.StockItemID, req.Description, req.RequestedQuantity,
		req.Justification, req.Status, req.AutoGenerated, req.CreatedAt, req.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert requisition: %w", err)
	}
	return nil
}

// HasPendingAutoForItem true si ya hay una requisición automática PENDING del ítem.
func (r *RequisitionRepo) HasPendingAutoForItem(ctx context.Context, companyID, itemID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM purchase_requisitions
			WHERE company_id = $1 AND stock_item_id = $2 AND status = $3 AND auto_generated)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, companyID, itemID, entity.RequisitionStatusPending).Scan(&exists); err != nil {
		return false, fmt.Errorf("check pending requisition: %w", err)
	}
	return exists, nil
}

// ListPendingByCompany lista las requisiciones pendientes de la empresa.
func (r *RequisitionRepo) ListPendingByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.PurchaseRequisition, error) {
	query := `
		SELECT id, company_id, stock_item_id, description, requested_quantity, justification, status, auto_generated, created_at, created_by
		FROM purchase_requisitions
		WHERE company_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, entity.RequisitionStatusPending, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list requisitions: %w", err)
	}
	defer rows.Close()

	var reqs []*entity.PurchaseRequisition
	for rows.Next() {
		var req entity.PurchaseRequisition
		if err := rows.Scan(
			&req.ID, &req.CompanyID, &req.StockItemID, &req.Description, &req.RequestedQuantity,
			&req.Justification, &req.Status, &req.AutoGenerated, &req.CreatedAt, &req.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan requisition: %w", err)
		}
		reqs = append(reqs, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requisitions: %w", err)
	}
	return reqs, nil
}
