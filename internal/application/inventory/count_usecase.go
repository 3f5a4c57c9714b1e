package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Activos-api/internal/domain"
	"github.com/jhoicas/Activos-api/internal/domain/entity"
	"github.com/jhoicas/Activos-api/internal/domain/repository"
)

// CountUseCase maneja el ciclo de vida de los conteos físicos: apertura
// (que congela el inventario del tenant) y conciliación (que emite los
// ajustes y libera el candado). Ambas corren con el candado exclusivo del
// tenant: ningún movimiento puede colarse entre el chequeo y la mutación.
type CountUseCase struct {
	txRunner  TxRunner
	countRepo repository.StockCountRepository
	now       func() time.Time
}

// NewCountUseCase construye el caso de uso de conteos.
func NewCountUseCase(txRunner TxRunner, countRepo repository.StockCountRepository) *CountUseCase {
	return &CountUseCase{txRunner: txRunner, countRepo: countRepo, now: time.Now}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (uc *CountUseCase) WithClock(now func() time.Time) *CountUseCase {
	uc.now = now
	return uc
}

// CountLineInput una línea contada: ítem + cantidad física encontrada.
type CountLineInput struct {
	StockItemID     string
	CountedQuantity decimal.Decimal
}

// StartCount abre un conteo físico IN_PROGRESS. Captura la cantidad en
// sistema de cada ítem al momento del conteo (referencia débil: ID, nombre y
// SKU quedan congelados en la línea). Desde que se confirma, todo movimiento
// del tenant falla con ErrInventoryLocked hasta conciliar.
func (uc *CountUseCase) StartCount(ctx context.Context, companyID, countedBy string, lines []CountLineInput) (*entity.StockCount, error) {
	if companyID == "" || countedBy == "" || len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if l.StockItemID == "" || l.CountedQuantity.IsNegative() || seen[l.StockItemID] {
			return nil, domain.ErrInvalidInput
		}
		seen[l.StockItemID] = true
	}

	now := uc.now()
	count := &entity.StockCount{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		CountDate: now,
		CountedBy: countedBy,
		Status:    entity.CountStatusInProgress,
		CreatedAt: now,
	}

	err := uc.txRunner.RunExclusive(ctx, companyID, func(
		itemRepo repository.StockItemRepository,
		_ repository.StockMovementRepository,
		countRepo repository.StockCountRepository,
		_ repository.RequisitionRepository,
	) error {
		for _, l := range lines {
			item, err := itemRepo.GetByID(ctx, l.StockItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
			if item.CompanyID != companyID {
				return domain.ErrForbidden
			}
			system := item.TotalQuantity()
			count.Lines = append(count.Lines, entity.CountLine{
				StockItemID:     item.ID,
				ItemName:        item.Name,
				SKU:             item.SKU,
				SystemQuantity:  system,
				CountedQuantity: l.CountedQuantity,
				Variance:        l.CountedQuantity.Sub(system),
			})
		}
		return countRepo.Create(ctx, count)
	})
	if err != nil {
		return nil, err
	}
	return count, nil
}

// Reconcile concilia un conteo: por cada línea con varianza emite un ajuste
// ADJUST_IN/ADJUST_OUT por abs(varianza), rebalancea los lotes para que la
// cantidad del ítem quede en lo contado (el invariante cantidad==suma(lotes)
// se preserva en todo momento) y finalmente marca el conteo FINALIZED.
//
// Todo en una transacción: o todos los ajustes y el cambio de estado se
// confirman, o ninguno. Un segundo intento falla con ErrAlreadyFinalized y
// no re-aplica ajustes.
func (uc *CountUseCase) Reconcile(ctx context.Context, companyID, countID, userID string) (*entity.StockCount, error) {
	if companyID == "" || countID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	var result *entity.StockCount

	err := uc.txRunner.RunExclusive(ctx, companyID, func(
		itemRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
		countRepo repository.StockCountRepository,
		reqRepo repository.RequisitionRepository,
	) error {
		count, err := countRepo.GetForUpdate(ctx, countID)
		if err != nil {
			return err
		}
		if count == nil {
			return domain.ErrNotFound
		}
		if count.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if !count.InProgress() {
			return domain.ErrAlreadyFinalized
		}

		for _, line := range count.Lines {
			if line.Variance.IsZero() {
				continue
			}
			item, err := itemRepo.GetForUpdate(ctx, line.StockItemID)
			if err != nil {
				return err
			}
			if item == nil {
				// El ítem ya no existe; no hay ledger que ajustar
				continue
			}

			mov := entity.NewStockMovement(item.ID, item.CompanyID, entity.MovementAdjustIn, line.Variance.Abs(), userID, now)
			mov.Reason = "conciliación de conteo físico " + count.ID
			if line.Variance.GreaterThan(decimal.Zero) {
				batchID := item.AddStock(line.Variance, nil, now)
				mov.BatchIDs = []string{batchID}
			} else {
				mov.Type = entity.MovementAdjustOut
				// El conteo refleja la realidad física: el ajuste negativo
				// también vacía lotes vencidos
				drop := decimal.Min(line.Variance.Abs(), item.TotalQuantity())
				mov.BatchIDs = item.ConsumeIgnoringExpiry(drop, now)
				item.RemoveEmptyBatches()
			}

			if err := itemRepo.Save(ctx, item); err != nil {
				return err
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
			if err := signalReplenishment(ctx, reqRepo, item, userID, now); err != nil {
				return err
			}
		}

		// El cambio de estado es el punto de commit: va al final, en la misma tx
		count.Status = entity.CountStatusFinalized
		count.FinalizedAt = &now
		if err := countRepo.Finalize(ctx, count); err != nil {
			return err
		}
		result = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetCount devuelve un conteo con sus líneas, validando tenencia.
func (uc *CountUseCase) GetCount(ctx context.Context, companyID, countID string) (*entity.StockCount, error) {
	count, err := uc.countRepo.GetByID(ctx, countID)
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, domain.ErrNotFound
	}
	if count.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return count, nil
}

// ListCounts lista los conteos de la empresa, más recientes primero.
func (uc *CountUseCase) ListCounts(ctx context.Context, companyID string, limit, offset int) ([]*entity.StockCount, error) {
	return uc.countRepo.ListByCompany(ctx, companyID, limit, offset)
}
