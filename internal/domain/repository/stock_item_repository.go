package repository

import (
	"context"

	"github.com/jhoicas/Activos-api/internal/domain/entity"
)

// StockItemRepository puerto de persistencia para el agregado StockItem
// (ítem + sus lotes). Los métodos de escritura se usan dentro de
// transacciones para garantizar la disciplina de un solo escritor por agregado.
type StockItemRepository interface {
	Create(ctx context.Context, item *entity.StockItem) error
	// GetByID devuelve el ítem con sus lotes; nil si no existe o fue borrado.
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila del ítem (SELECT FOR UPDATE) y carga los lotes.
	GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error)
	// Save persiste metadatos y reemplaza el conjunto de lotes del ítem.
	Save(ctx context.Context, item *entity.StockItem) error
	// SoftDelete marca el ítem como borrado; el historial de movimientos se conserva.
	SoftDelete(ctx context.Context, item *entity.StockItem) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.StockItem, error)
}
