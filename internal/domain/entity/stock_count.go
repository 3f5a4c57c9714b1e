package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un conteo físico.
const (
	CountStatusInProgress = "IN_PROGRESS"
	CountStatusFinalized  = "FINALIZED"
)

// StockCount representa un conteo físico de inventario. Mientras está
// IN_PROGRESS actúa como candado de inventario para toda la empresa:
// ningún movimiento puede registrarse hasta conciliarlo. Transiciona a
// FINALIZED exactamente una vez y queda inmutable.
type StockCount struct {
	ID          string
	CompanyID   string
	CountDate   time.Time
	CountedBy   string // UserID de quien realizó el conteo
	Status      string
	Lines       []CountLine
	FinalizedAt *time.Time
	CreatedAt   time.Time
}

// CountLine una línea del conteo: referencia débil al ítem (ID + nombre y SKU
// capturados al momento del conteo, no un vínculo vivo).
type CountLine struct {
	StockItemID     string
	ItemName        string
	SKU             string
	SystemQuantity  decimal.Decimal // cantidad en sistema al iniciar el conteo
	CountedQuantity decimal.Decimal // cantidad física contada
	Variance        decimal.Decimal // CountedQuantity - SystemQuantity
}

// InProgress indica si el conteo sigue abierto (y por tanto bloquea el inventario).
func (c *StockCount) InProgress() bool {
	return c.Status == CountStatusInProgress
}
