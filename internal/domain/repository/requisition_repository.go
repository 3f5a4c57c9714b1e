package repository

import (
	"context"

	"github.com/jhoicas/Activos-api/internal/domain/entity"
)

// RequisitionRepository puerto hacia el módulo de compras. Para el motor de
// inventario es el sumidero de señales de reposición: crear una requisición
// PENDING y saber si ya existe una pendiente para un ítem.
type RequisitionRepository interface {
	Create(ctx context.Context, req *entity.PurchaseRequisition) error
	// HasPendingAutoForItem true si ya existe una requisición automática
	// PENDING para el ítem (evita señales duplicadas en el mismo episodio).
	HasPendingAutoForItem(ctx context.Context, companyID, itemID string) (bool, error)
	ListPendingByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.PurchaseRequisition, error)
}
