package repository

import (
	"context"

	"github.com/jhoicas/Activos-api/internal/domain/entity"
)

// StockMovementRepository puerto del registrador de movimientos.
// Solo inserta y lee: el log es append-only, nunca se edita ni se borra.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.StockMovement, error)
}
