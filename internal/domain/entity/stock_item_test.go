package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newItem(batches ...StockBatch) *StockItem {
	return &StockItem{
		ID:        "item-1",
		CompanyID: "co-1",
		Name:      "Guantes de nitrilo",
		SKU:       "GUANTES-M",
		Threshold: decimal.NewFromInt(5),
		Batches:   batches,
	}
}

func TestTotalQuantityIsSumOfBatches(t *testing.T) {
	item := newItem(
		StockBatch{ID: "b1", Quantity: decimal.NewFromInt(3), ExpiryDate: day(2025, 2, 1)},
		StockBatch{ID: "b2", Quantity: decimal.NewFromInt(7), ExpiryDate: day(2025, 6, 1)},
	)
	assert.True(t, item.TotalQuantity().Equal(decimal.NewFromInt(10)))

	assert.True(t, newItem().TotalQuantity().IsZero())
}

func TestAvailableQuantityExcludesExpired(t *testing.T) {
	today := day(2025, 5, 10)
	item := newItem(
		StockBatch{ID: "vencido", Quantity: decimal.NewFromInt(3), ExpiryDate: day(2025, 5, 1)},
		StockBatch{ID: "vigente", Quantity: decimal.NewFromInt(7), ExpiryDate: day(2025, 12, 1)},
	)
	assert.True(t, item.AvailableQuantity(today).Equal(decimal.NewFromInt(7)))
	assert.True(t, item.TotalQuantity().Equal(decimal.NewFromInt(10)))
}

func TestBatchExpiredBoundary(t *testing.T) {
	today := day(2025, 5, 10)

	// Vence hoy: todavía utilizable
	assert.False(t, StockBatch{ExpiryDate: day(2025, 5, 10)}.Expired(today))
	// Venció ayer
	assert.True(t, StockBatch{ExpiryDate: day(2025, 5, 9)}.Expired(today))
	// La comparación trunca la hora
	assert.False(t, StockBatch{ExpiryDate: time.Date(2025, 5, 10, 1, 0, 0, 0, time.UTC)}.Expired(
		time.Date(2025, 5, 10, 23, 0, 0, 0, time.UTC)))
}

func TestAddStockWithExplicitLotCreatesBatch(t *testing.T) {
	now := day(2025, 1, 10)
	item := newItem()

	id := item.AddStock(decimal.NewFromInt(4), &LotInput{LotNumber: "L-77", ExpiryDate: day(2025, 9, 1)}, now)
	require.Len(t, item.Batches, 1)
	assert.Equal(t, id, item.Batches[0].ID)
	assert.Equal(t, "L-77", item.Batches[0].LotNumber)
	assert.True(t, item.TotalQuantity().Equal(decimal.NewFromInt(4)))
}

func TestAddStockWithoutLotAccumulatesOnNewest(t *testing.T) {
	item := newItem(
		StockBatch{ID: "viejo", Quantity: decimal.NewFromInt(2), EntryDate: day(2025, 1, 1), ExpiryDate: day(2025, 3, 1)},
		StockBatch{ID: "nuevo", Quantity: decimal.NewFromInt(2), EntryDate: day(2025, 2, 1), ExpiryDate: day(2025, 2, 15)},
	)

	id := item.AddStock(decimal.NewFromInt(3), nil, day(2025, 2, 10))
	assert.Equal(t, "nuevo", id)
	require.Len(t, item.Batches, 2)
	assert.True(t, item.Batches[1].Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, item.Batches[0].Quantity.Equal(decimal.NewFromInt(2)))
}

func TestAddStockWithoutLotOnEmptyLedgerSynthesizesBatch(t *testing.T) {
	now := day(2025, 1, 10)
	item := newItem()

	item.AddStock(decimal.NewFromInt(9), nil, now)
	require.Len(t, item.Batches, 1)
	assert.Equal(t, "INICIAL", item.Batches[0].LotNumber)
	// Vencimiento lejano: nunca bloquea una salida FEFO
	assert.False(t, item.Batches[0].Expired(day(2100, 1, 1)))
}

func TestApplyAllocationsPreservesInvariant(t *testing.T) {
	item := newItem(
		StockBatch{ID: "b1", Quantity: decimal.NewFromInt(5), ExpiryDate: day(2025, 2, 1)},
		StockBatch{ID: "b2", Quantity: decimal.NewFromInt(5), ExpiryDate: day(2025, 6, 1)},
	)

	item.ApplyAllocations([]BatchAllocation{
		{BatchID: "b1", Quantity: decimal.NewFromInt(5)},
		{BatchID: "b2", Quantity: decimal.NewFromInt(2)},
	}, day(2025, 1, 20))
	item.RemoveEmptyBatches()

	require.Len(t, item.Batches, 1)
	assert.Equal(t, "b2", item.Batches[0].ID)
	assert.True(t, item.TotalQuantity().Equal(decimal.NewFromInt(3)))
}

func TestConsumeIgnoringExpiryDrainsExpiredFirst(t *testing.T) {
	item := newItem(
		StockBatch{ID: "vigente", Quantity: decimal.NewFromInt(6), ExpiryDate: day(2025, 12, 1)},
		StockBatch{ID: "vencido", Quantity: decimal.NewFromInt(4), ExpiryDate: day(2025, 1, 1)},
	)

	touched := item.ConsumeIgnoringExpiry(decimal.NewFromInt(5), day(2025, 5, 10))
	item.RemoveEmptyBatches()

	// El vencido (vence antes) se vacía primero, luego el vigente
	assert.Equal(t, []string{"vencido", "vigente"}, touched)
	require.Len(t, item.Batches, 1)
	assert.Equal(t, "vigente", item.Batches[0].ID)
	assert.True(t, item.TotalQuantity().Equal(decimal.NewFromInt(5)))
}

func TestRemoveEmptyBatchesKeepsNonZero(t *testing.T) {
	item := newItem(
		StockBatch{ID: "b1", Quantity: decimal.Zero},
		StockBatch{ID: "b2", Quantity: decimal.NewFromInt(1)},
		StockBatch{ID: "b3", Quantity: decimal.Zero},
	)
	item.RemoveEmptyBatches()
	require.Len(t, item.Batches, 1)
	assert.Equal(t, "b2", item.Batches[0].ID)
}

func TestParseMovementType(t *testing.T) {
	for _, valid := range []string{"ENTRY", "EXIT", "TRANSFER", "ADJUST_IN", "ADJUST_OUT"} {
		mt, err := ParseMovementType(valid)
		require.NoError(t, err)
		assert.True(t, mt.Valid())
	}
	_, err := ParseMovementType("entry")
	assert.Error(t, err)
	_, err = ParseMovementType("MERGE")
	assert.Error(t, err)

	assert.True(t, MovementAdjustIn.IsAdjustment())
	assert.True(t, MovementAdjustOut.IsAdjustment())
	assert.False(t, MovementExit.IsAdjustment())
}
