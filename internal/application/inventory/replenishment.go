package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Activos-api/internal/domain/entity"
	"github.com/jhoicas/Activos-api/internal/domain/repository"
)

// Cantidad mínima de una señal de reposición automática.
var replenishmentFloor = decimal.NewFromInt(10)

// signalReplenishment evalúa el umbral de reorden tras cualquier operación
// que cambió la cantidad total del ítem y, si corresponde, emite UNA
// requisición automática hacia compras con max(10, umbral*2).
//
// Idempotente por episodio de stock bajo: mientras exista una requisición
// automática PENDING para el ítem, caídas adicionales no emiten otra señal.
// Se invoca dentro de la misma transacción que la mutación, así la señal y
// el cambio de stock se confirman o revierten juntos.
func signalReplenishment(ctx context.Context, reqRepo repository.RequisitionRepository, item *entity.StockItem, userID string, now time.Time) error {
	qty := item.TotalQuantity()
	if qty.GreaterThan(item.Threshold) {
		return nil
	}
	pending, err := reqRepo.HasPendingAutoForItem(ctx, item.CompanyID, item.ID)
	if err != nil {
		return err
	}
	if pending {
		return nil
	}
	suggested := decimal.Max(replenishmentFloor, item.Threshold.Mul(decimal.NewFromInt(2)))
	req := &entity.PurchaseRequisition{
		ID:                uuid.New().String(),
		CompanyID:         item.CompanyID,
		StockItemID:       item.ID,
		Description:       fmt.Sprintf("%s (%s)", item.Name, item.SKU),
		RequestedQuantity: suggested,
		Justification: fmt.Sprintf("reposición automática: stock %s <= umbral %s",
			qty.String(), item.Threshold.String()),
		Status:        entity.RequisitionStatusPending,
		AutoGenerated: true,
		CreatedAt:     now,
		CreatedBy:     userID,
	}
	return reqRepo.Create(ctx, req)
}
