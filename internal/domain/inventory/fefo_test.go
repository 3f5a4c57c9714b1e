package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Activos-api/internal/domain"
	"github.com/jhoicas/Activos-api/internal/domain/entity"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func batch(id string, expiry time.Time, qty int64) entity.StockBatch {
	return entity.StockBatch{
		ID:         id,
		LotNumber:  "L-" + id,
		ExpiryDate: expiry,
		Quantity:   decimal.NewFromInt(qty),
		EntryDate:  day(2025, 1, 1),
	}
}

func TestAllocateConsumesEarliestExpiryFirst(t *testing.T) {
	today := day(2025, 1, 15)
	batches := []entity.StockBatch{
		batch("b2", day(2025, 6, 1), 5),
		batch("b1", day(2025, 2, 1), 5),
	}

	allocs, err := Allocate(batches, decimal.NewFromInt(7), today)
	require.NoError(t, err)
	require.Len(t, allocs, 2)

	assert.Equal(t, "b1", allocs[0].BatchID)
	assert.True(t, allocs[0].Quantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "b2", allocs[1].BatchID)
	assert.True(t, allocs[1].Quantity.Equal(decimal.NewFromInt(2)))
}

func TestAllocatePartialFromSingleBatch(t *testing.T) {
	today := day(2025, 1, 15)
	batches := []entity.StockBatch{
		batch("b1", day(2025, 2, 1), 5),
		batch("b2", day(2025, 6, 1), 5),
	}

	allocs, err := Allocate(batches, decimal.NewFromInt(3), today)
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, "b1", allocs[0].BatchID)
	assert.True(t, allocs[0].Quantity.Equal(decimal.NewFromInt(3)))
}

func TestAllocateSkipsExpiredBatches(t *testing.T) {
	today := day(2025, 5, 10)
	batches := []entity.StockBatch{
		batch("vencido", day(2025, 5, 1), 8),
		batch("vigente", day(2025, 12, 1), 4),
	}

	// El total físico (12) alcanza, pero el vigente (4) no
	_, err := Allocate(batches, decimal.NewFromInt(6), today)
	assert.ErrorIs(t, err, domain.ErrInsufficientValidStock)

	allocs, err := Allocate(batches, decimal.NewFromInt(4), today)
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, "vigente", allocs[0].BatchID)
}

func TestAllocateExpiryTodayStillUsable(t *testing.T) {
	today := day(2025, 5, 10)
	batches := []entity.StockBatch{batch("hoy", day(2025, 5, 10), 3)}

	allocs, err := Allocate(batches, decimal.NewFromInt(3), today)
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, "hoy", allocs[0].BatchID)
}

func TestAllocateDoesNotMutateInput(t *testing.T) {
	today := day(2025, 1, 15)
	batches := []entity.StockBatch{
		batch("b2", day(2025, 6, 1), 5),
		batch("b1", day(2025, 2, 1), 5),
	}

	_, err := Allocate(batches, decimal.NewFromInt(7), today)
	require.NoError(t, err)

	// Ni el orden ni las cantidades del slice original cambian
	assert.Equal(t, "b2", batches[0].ID)
	assert.True(t, batches[0].Quantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "b1", batches[1].ID)
	assert.True(t, batches[1].Quantity.Equal(decimal.NewFromInt(5)))
}

func TestAllocateExactDepletion(t *testing.T) {
	today := day(2025, 1, 15)
	batches := []entity.StockBatch{
		batch("b1", day(2025, 2, 1), 5),
		batch("b2", day(2025, 6, 1), 5),
	}

	allocs, err := Allocate(batches, decimal.NewFromInt(10), today)
	require.NoError(t, err)
	require.Len(t, allocs, 2)

	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Quantity)
	}
	assert.True(t, total.Equal(decimal.NewFromInt(10)))
}

func TestAllocateNoBatches(t *testing.T) {
	_, err := Allocate(nil, decimal.NewFromInt(1), day(2025, 1, 15))
	assert.ErrorIs(t, err, domain.ErrInsufficientValidStock)
}
