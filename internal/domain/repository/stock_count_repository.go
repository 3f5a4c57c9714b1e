package repository

import (
	"context"

	"github.com/jhoicas/Activos-api/internal/domain/entity"
)

// StockCountRepository puerto de persistencia para conteos físicos.
type StockCountRepository interface {
	Create(ctx context.Context, count *entity.StockCount) error
	// GetByID devuelve el conteo con sus líneas; nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.StockCount, error)
	// GetForUpdate bloquea la fila del conteo para su conciliación.
	GetForUpdate(ctx context.Context, id string) (*entity.StockCount, error)
	// Finalize marca el conteo como FINALIZED y persiste sus líneas definitivas.
	Finalize(ctx context.Context, count *entity.StockCount) error
	// HasInProgress es el candado de inventario: true si la empresa tiene al
	// menos un conteo IN_PROGRESS.
	HasInProgress(ctx context.Context, companyID string) (bool, error)
	// InProgressReferencesItem indica si algún conteo IN_PROGRESS de la empresa
	// incluye una línea del ítem (bloquea el borrado del ítem).
	InProgressReferencesItem(ctx context.Context, companyID, itemID string) (bool, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.StockCount, error)
}
