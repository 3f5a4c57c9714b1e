package inventory

import (
	"context"

	"github.com/jhoicas/Activos-api/internal/domain/repository"
)

// TxFunc recibe los repositorios atados a una misma transacción de BD.
type TxFunc func(
	itemRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
	countRepo repository.StockCountRepository,
	reqRepo repository.RequisitionRepository,
) error

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: o todo el callback se confirma, o nada.
//
// Los dos modos toman un candado de tenant que cierra la carrera entre el
// candado de inventario (conteo IN_PROGRESS) y los movimientos en vuelo:
//
//   - RunShared: movimientos y altas/bajas de ítems. Varios pueden correr en
//     paralelo entre sí (la serialización por agregado la da el FOR UPDATE
//     de la fila del ítem), pero ninguno se solapa con un conteo.
//   - RunExclusive: inicio y conciliación de conteos. Excluye a todos los
//     movimientos del tenant mientras dura la transacción.
type TxRunner interface {
	RunShared(ctx context.Context, companyID string, fn TxFunc) error
	RunExclusive(ctx context.Context, companyID string, fn TxFunc) error
}
