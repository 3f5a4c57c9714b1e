package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Activos-api/internal/domain"
	"github.com/jhoicas/Activos-api/internal/domain/entity"
)

// Allocate implementa la política FEFO (First-Expired-First-Out): ordena los
// lotes por vencimiento ascendente, ignora los vencidos respecto a today y
// consume del más próximo a vencer hacia adelante hasta cubrir requested.
//
// Es una función PURA: no muta los lotes recibidos. Devuelve el plan de
// consumo por lote; el agregado lo aplica solo si la asignación completa
// tuvo éxito, de modo que un fallo jamás deja consumo parcial.
//
// Si los lotes vigentes no alcanzan devuelve ErrInsufficientValidStock,
// incluso cuando el total físico (con vencidos) sí alcanzaría: el stock
// vencido debe salir por un procedimiento de baja, no por una salida normal.
func Allocate(batches []entity.StockBatch, requested decimal.Decimal, today time.Time) ([]entity.BatchAllocation, error) {
	order := make([]entity.StockBatch, len(batches))
	copy(order, batches)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].ExpiryDate.Before(order[j].ExpiryDate)
	})

	remaining := requested
	var allocs []entity.BatchAllocation
	for _, b := range order {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if b.Expired(today) {
			// Invisible para el asignador: la baja de vencidos es otro flujo
			continue
		}
		take := decimal.Min(b.Quantity, remaining)
		if take.LessThanOrEqual(decimal.Zero) {
			continue
		}
		allocs = append(allocs, entity.BatchAllocation{
			BatchID:   b.ID,
			LotNumber: b.LotNumber,
			Quantity:  take,
		})
		remaining = remaining.Sub(take)
	}
	if remaining.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInsufficientValidStock
	}
	return allocs, nil
}
