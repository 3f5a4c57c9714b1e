package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Activos-api/internal/application/inventory"
	"github.com/jhoicas/Activos-api/internal/domain"
)

// Reintentos ante conflictos de serialización antes de rendirse con ErrTransient.
const maxTxRetries = 3

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks del motor de inventario dentro de una transacción
// PostgreSQL, tomando primero un candado advisory por tenant:
//
//   - compartido (pg_advisory_xact_lock_shared) para movimientos: varios en
//     paralelo entre sí, serializados por ítem vía SELECT FOR UPDATE;
//   - exclusivo (pg_advisory_xact_lock) para apertura/conciliación de conteos.
//
// Así el chequeo del candado de inventario y la mutación viven en la misma
// frontera transaccional: no hay ventana entre "no hay conteo en curso" y el
// cambio de stock.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunShared ejecuta fn bajo el candado compartido del tenant.
func (r *TxRunner) RunShared(ctx context.Context, companyID string, fn inventory.TxFunc) error {
	return r.run(ctx, companyID, false, fn)
}

// RunExclusive ejecuta fn bajo el candado exclusivo del tenant.
func (r *TxRunner) RunExclusive(ctx context.Context, companyID string, fn inventory.TxFunc) error {
	return r.run(ctx, companyID, true, fn)
}

func (r *TxRunner) run(ctx context.Context, companyID string, exclusive bool, fn inventory.TxFunc) error {
	var lastErr error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := r.runOnce(ctx, companyID, exclusive, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", domain.ErrTransient, lastErr)
}

func (r *TxRunner) runOnce(ctx context.Context, companyID string, exclusive bool, fn inventory.TxFunc) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lock := `SELECT pg_advisory_xact_lock_shared(hashtextextended($1, 0))`
	if exclusive {
		lock = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`
	}
	if _, err := tx.Exec(ctx, lock, companyID); err != nil {
		return fmt.Errorf("lock tenant: %w", err)
	}

	itemRepo := NewStockItemRepository(tx)
	movRepo := NewStockMovementRepository(tx)
	countRepo := NewStockCountRepository(tx)
	reqRepo := NewRequisitionRepository(tx)

	if err := fn(itemRepo, movRepo, countRepo, reqRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
