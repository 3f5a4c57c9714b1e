package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBatch representa un lote: una cantidad de un StockItem que comparte
// fecha de vencimiento. Pertenece exclusivamente a un StockItem; nunca se
// comparte ni se referencia fuera de su dueño.
type StockBatch struct {
	ID         string
	LotNumber  string
	ExpiryDate time.Time // solo fecha; se compara truncada a medianoche UTC
	Quantity   decimal.Decimal
	EntryDate  time.Time
}

// Expired indica si el lote está vencido respecto a today
// (vencimiento estrictamente anterior a la fecha de hoy).
func (b StockBatch) Expired(today time.Time) bool {
	return truncateToDay(b.ExpiryDate).Before(truncateToDay(today))
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
