package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem es la raíz de agregado del motor de inventario: un elemento de
// stock de una empresa con su cantidad particionada en lotes. La cantidad
// total NO se almacena aparte: siempre se deriva como la suma de los lotes,
// de modo que el invariante cantidad == suma(lotes) se cumple por construcción.
//
// El agregado se muta únicamente a través de los casos de uso de movimientos
// y conciliación; nunca por asignación directa de campos.
type StockItem struct {
	ID        string
	CompanyID string
	Name      string
	SKU       string
	Location  string // texto libre (bodega, estante, planta)
	Threshold decimal.Decimal
	Batches   []StockBatch
	DeletedAt *time.Time // soft delete: el historial de movimientos se conserva
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalQuantity devuelve la cantidad total del ítem: suma de los lotes.
func (s *StockItem) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, b := range s.Batches {
		total = total.Add(b.Quantity)
	}
	return total
}

// AvailableQuantity devuelve la cantidad en lotes NO vencidos respecto a today.
// Es la cantidad que el asignador FEFO puede llegar a consumir.
func (s *StockItem) AvailableQuantity(today time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, b := range s.Batches {
		if !b.Expired(today) {
			total = total.Add(b.Quantity)
		}
	}
	return total
}

// LotInput datos de lote para una entrada con lote explícito.
type LotInput struct {
	LotNumber  string
	ExpiryDate time.Time
}

// AddStock suma cantidad al ledger de lotes. Con lote explícito crea un lote
// nuevo; sin lote, acumula sobre el lote agregado más recientemente (y solo
// crea uno si el ledger está vacío, con vencimiento lejano). Devuelve el ID
// del lote afectado. qty debe ser >= 0 (lo garantiza el caso de uso).
func (s *StockItem) AddStock(qty decimal.Decimal, lot *LotInput, now time.Time) string {
	if lot != nil {
		b := StockBatch{
			ID:         uuid.New().String(),
			LotNumber:  lot.LotNumber,
			ExpiryDate: lot.ExpiryDate,
			Quantity:   qty,
			EntryDate:  now,
		}
		s.Batches = append(s.Batches, b)
		s.UpdatedAt = now
		return b.ID
	}
	if n := len(s.Batches); n > 0 {
		newest := 0
		for i := 1; i < n; i++ {
			if s.Batches[i].EntryDate.After(s.Batches[newest].EntryDate) {
				newest = i
			}
		}
		s.Batches[newest].Quantity = s.Batches[newest].Quantity.Add(qty)
		s.UpdatedAt = now
		return s.Batches[newest].ID
	}
	b := StockBatch{
		ID:         uuid.New().String(),
		LotNumber:  "INICIAL",
		ExpiryDate: now.AddDate(100, 0, 0), // sin vencimiento real
		Quantity:   qty,
		EntryDate:  now,
	}
	s.Batches = append(s.Batches, b)
	s.UpdatedAt = now
	return b.ID
}

// ApplyAllocations descuenta de los lotes las cantidades ya calculadas por el
// asignador FEFO. Las asignaciones vienen validadas (nunca exceden el lote),
// por lo que ningún lote queda negativo.
func (s *StockItem) ApplyAllocations(allocs []BatchAllocation, now time.Time) {
	for _, a := range allocs {
		for i := range s.Batches {
			if s.Batches[i].ID == a.BatchID {
				s.Batches[i].Quantity = s.Batches[i].Quantity.Sub(a.Quantity)
				break
			}
		}
	}
	s.UpdatedAt = now
}

// BatchAllocation cantidad consumida de un lote concreto por una operación.
type BatchAllocation struct {
	BatchID   string
	LotNumber string
	Quantity  decimal.Decimal
}

// ConsumeIgnoringExpiry descuenta qty de los lotes en orden de vencimiento
// ascendente SIN saltar vencidos. Solo lo usa la conciliación de conteos:
// un conteo físico refleja la realidad, así que el ajuste negativo también
// vacía lotes vencidos. Devuelve los IDs de lotes tocados. qty no debe
// exceder TotalQuantity (lo garantiza el caso de uso).
func (s *StockItem) ConsumeIgnoringExpiry(qty decimal.Decimal, now time.Time) []string {
	order := make([]int, len(s.Batches))
	for i := range order {
		order[i] = i
	}
	// Orden por vencimiento ascendente, estable por entrada
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && s.Batches[order[j]].ExpiryDate.Before(s.Batches[order[j-1]].ExpiryDate); j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	remaining := qty
	var touched []string
	for _, idx := range order {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		take := decimal.Min(s.Batches[idx].Quantity, remaining)
		if take.LessThanOrEqual(decimal.Zero) {
			continue
		}
		s.Batches[idx].Quantity = s.Batches[idx].Quantity.Sub(take)
		remaining = remaining.Sub(take)
		touched = append(touched, s.Batches[idx].ID)
	}
	s.UpdatedAt = now
	return touched
}

// RemoveEmptyBatches recolecta los lotes con cantidad cero tras un consumo.
// Su existencia histórica queda solo en el log de movimientos.
func (s *StockItem) RemoveEmptyBatches() {
	kept := s.Batches[:0]
	for _, b := range s.Batches {
		if b.Quantity.GreaterThan(decimal.Zero) {
			kept = append(kept, b)
		}
	}
	s.Batches = kept
}
