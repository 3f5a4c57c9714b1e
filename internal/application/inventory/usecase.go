package inventory

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Activos-api/internal/domain"
	"github.com/jhoicas/Activos-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Activos-api/internal/domain/inventory"
	"github.com/jhoicas/Activos-api/internal/domain/repository"
)

// StockUseCase expone las operaciones públicas del agregado StockItem:
// alta de ítems, registro de movimientos (ENTRY/EXIT/TRANSFER con FEFO),
// borrado lógico y lecturas. Toda escritura corre dentro de una transacción
// con bloqueo de fila (SELECT FOR UPDATE) y candado compartido del tenant,
// de modo que el chequeo del candado de inventario y la mutación son una
// sola unidad serializada.
type StockUseCase struct {
	txRunner TxRunner
	itemRepo repository.StockItemRepository
	movRepo  repository.StockMovementRepository
	reqRepo  repository.RequisitionRepository

	// Reloj inyectable: los tests construyen lotes vencidos/vigentes de forma
	// determinista. En producción es time.Now.
	now func() time.Time
}

// NewStockUseCase construye el caso de uso. Los repos sueltos (atados al pool)
// solo se usan para lecturas; las escrituras pasan por el TxRunner.
func NewStockUseCase(
	txRunner TxRunner,
	itemRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
	reqRepo repository.RequisitionRepository,
) *StockUseCase {
	return &StockUseCase{
		txRunner: txRunner,
		itemRepo: itemRepo,
		movRepo:  movRepo,
		reqRepo:  reqRepo,
		now:      time.Now,
	}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (uc *StockUseCase) WithClock(now func() time.Time) *StockUseCase {
	uc.now = now
	return uc
}

// CreateItemInput entrada para dar de alta un ítem de stock.
type CreateItemInput struct {
	CompanyID       string
	UserID          string
	Name            string
	SKU             string
	Location        string
	Threshold       decimal.Decimal
	InitialQuantity decimal.Decimal
	InitialLot      *entity.LotInput // nil = lote sintetizado sin vencimiento real
}

// CreateItem crea el ítem con un lote (explícito o sintetizado) y registra el
// movimiento ENTRY de carga inicial. La creación es una mutación de inventario
// del tenant, así que respeta el candado de conteo físico.
func (uc *StockUseCase) CreateItem(ctx context.Context, in CreateItemInput) (*entity.StockItem, error) {
	if in.Name == "" || in.SKU == "" || in.CompanyID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialQuantity.IsNegative() || in.Threshold.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialLot != nil && (in.InitialLot.LotNumber == "" || in.InitialLot.ExpiryDate.IsZero()) {
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	item := &entity.StockItem{
		ID:        uuid.New().String(),
		CompanyID: in.CompanyID,
		Name:      strings.TrimSpace(in.Name),
		SKU:       NormalizeSKU(in.SKU),
		Location:  strings.TrimSpace(in.Location),
		Threshold: in.Threshold,
		CreatedAt: now,
		UpdatedAt: now,
	}
	batchID := item.AddStock(in.InitialQuantity, in.InitialLot, now)

	err := uc.txRunner.RunShared(ctx, in.CompanyID, func(
		itemRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
		countRepo repository.StockCountRepository,
		reqRepo repository.RequisitionRepository,
	) error {
		locked, err := countRepo.HasInProgress(ctx, in.CompanyID)
		if err != nil {
			return err
		}
		if locked {
			return domain.ErrInventoryLocked
		}
		if err := itemRepo.Create(ctx, item); err != nil {
			return err
		}
		mov := entity.NewStockMovement(item.ID, item.CompanyID, entity.MovementEntry, in.InitialQuantity, in.UserID, now)
		mov.Reason = "carga inicial"
		mov.BatchIDs = []string{batchID}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		// Un ítem que nace en o bajo su umbral emite su primera señal de inmediato
		return signalReplenishment(ctx, reqRepo, item, in.UserID, now)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// MovementInput entrada para registrar un movimiento sobre un ítem.
// LotNumber/ExpiryDate solo para ENTRY con lote explícito; Destination solo
// para TRANSFER.
type MovementInput struct {
	CompanyID   string
	UserID      string
	StockItemID string
	Type        string
	Quantity    decimal.Decimal
	LotNumber   string
	ExpiryDate  *time.Time
	Destination string
	Reason      string
}

// RegisterMovement registra un movimiento ENTRY, EXIT o TRANSFER.
//
// Orden dentro de la transacción: candado de inventario → bloqueo de la fila
// del ítem → mutación del ledger de lotes → registro en el log inmutable →
// evaluación de reposición. Cualquier fallo revierte todo: un movimiento
// fallido deja el agregado exactamente como estaba.
func (uc *StockUseCase) RegisterMovement(ctx context.Context, in MovementInput) (*entity.StockMovement, error) {
	movType, err := entity.ParseMovementType(in.Type)
	if err != nil {
		return nil, err
	}
	// Los ajustes solo los emite la conciliación de un conteo físico
	if movType.IsAdjustment() {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.StockItemID == "" || in.CompanyID == "" {
		return nil, domain.ErrInvalidInput
	}
	var lot *entity.LotInput
	if in.LotNumber != "" {
		if movType != entity.MovementEntry || in.ExpiryDate == nil || in.ExpiryDate.IsZero() {
			return nil, domain.ErrInvalidInput
		}
		lot = &entity.LotInput{LotNumber: in.LotNumber, ExpiryDate: *in.ExpiryDate}
	}

	now := uc.now()
	var mov *entity.StockMovement

	err = uc.txRunner.RunShared(ctx, in.CompanyID, func(
		itemRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
		countRepo repository.StockCountRepository,
		reqRepo repository.RequisitionRepository,
	) error {
		locked, err := countRepo.HasInProgress(ctx, in.CompanyID)
		if err != nil {
			return err
		}
		if locked {
			return domain.ErrInventoryLocked
		}
		item, err := itemRepo.GetForUpdate(ctx, in.StockItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.CompanyID != in.CompanyID {
			return domain.ErrForbidden
		}

		mov = entity.NewStockMovement(item.ID, item.CompanyID, movType, in.Quantity, in.UserID, now)
		mov.Reason = in.Reason

		switch movType {
		case entity.MovementEntry:
			batchID := item.AddStock(in.Quantity, lot, now)
			mov.BatchIDs = []string{batchID}

		case entity.MovementExit, entity.MovementTransfer:
			if in.Quantity.GreaterThan(item.TotalQuantity()) {
				return domain.ErrInsufficientStock
			}
			// FEFO: vencidos invisibles aunque el total físico alcance
			allocs, err := domaininv.Allocate(item.Batches, in.Quantity, now)
			if err != nil {
				return err
			}
			item.ApplyAllocations(allocs, now)
			item.RemoveEmptyBatches()
			for _, a := range allocs {
				mov.BatchIDs = append(mov.BatchIDs, a.BatchID)
			}
			if movType == entity.MovementTransfer {
				mov.Origin = item.Location
				mov.Destination = in.Destination
				if in.Destination != "" {
					item.Location = in.Destination
				}
			}
		}

		if err := itemRepo.Save(ctx, item); err != nil {
			return err
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		return signalReplenishment(ctx, reqRepo, item, in.UserID, now)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// DeleteItem borra lógicamente un ítem. Solo se permite si ningún conteo
// IN_PROGRESS lo referencia; el historial de movimientos se conserva siempre
// (el log es la única evidencia forense del ítem).
func (uc *StockUseCase) DeleteItem(ctx context.Context, companyID, itemID string) error {
	if companyID == "" || itemID == "" {
		return domain.ErrInvalidInput
	}
	now := uc.now()
	return uc.txRunner.RunShared(ctx, companyID, func(
		itemRepo repository.StockItemRepository,
		_ repository.StockMovementRepository,
		countRepo repository.StockCountRepository,
		_ repository.RequisitionRepository,
	) error {
		item, err := itemRepo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.CompanyID != companyID {
			return domain.ErrForbidden
		}
		referenced, err := countRepo.InProgressReferencesItem(ctx, companyID, itemID)
		if err != nil {
			return err
		}
		if referenced {
			return domain.ErrConflict
		}
		item.DeletedAt = &now
		item.UpdatedAt = now
		return itemRepo.SoftDelete(ctx, item)
	})
}

// GetItem devuelve un ítem con sus lotes, validando tenencia.
func (uc *StockUseCase) GetItem(ctx context.Context, companyID, itemID string) (*entity.StockItem, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

// ListItems lista los ítems activos de la empresa.
func (uc *StockUseCase) ListItems(ctx context.Context, companyID string, limit, offset int) ([]*entity.StockItem, error) {
	return uc.itemRepo.ListByCompany(ctx, companyID, limit, offset)
}

// ListMovements devuelve el historial de movimientos de un ítem (incluye
// ítems borrados: el log sobrevive al agregado).
func (uc *StockUseCase) ListMovements(ctx context.Context, companyID, itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	movs, err := uc.movRepo.ListByItem(ctx, itemID, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, m := range movs {
		if m.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
	}
	return movs, nil
}

// ListPendingRequisitions lista las señales de reposición pendientes.
func (uc *StockUseCase) ListPendingRequisitions(ctx context.Context, companyID string, limit, offset int) ([]*entity.PurchaseRequisition, error) {
	return uc.reqRepo.ListPendingByCompany(ctx, companyID, limit, offset)
}

// NormalizeSKU normaliza un SKU: mayúsculas, sin espacios y sin tildes
// (NFD → remover marcas diacríticas → NFC).
func NormalizeSKU(sku string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	clean, _, err := transform.String(t, strings.TrimSpace(sku))
	if err != nil {
		clean = strings.TrimSpace(sku)
	}
	return strings.ToUpper(strings.Join(strings.Fields(clean), "-"))
}
