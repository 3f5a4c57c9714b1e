package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Activos-api/internal/domain"
)

// MovementType tipo cerrado de movimiento de stock. Cualquier string fuera de
// las constantes se rechaza en el borde con ParseMovementType: nunca se
// persiste un tipo libre.
type MovementType string

// Tipos de movimiento de stock.
const (
	MovementEntry     MovementType = "ENTRY"      // entrada de mercancía
	MovementExit      MovementType = "EXIT"       // salida/consumo
	MovementTransfer  MovementType = "TRANSFER"   // traslado de ubicación
	MovementAdjustIn  MovementType = "ADJUST_IN"  // ajuste positivo por conciliación
	MovementAdjustOut MovementType = "ADJUST_OUT" // ajuste negativo por conciliación
)

// ParseMovementType valida un tipo recibido del exterior.
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(s)
	if !t.Valid() {
		return "", domain.ErrInvalidInput
	}
	return t, nil
}

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t MovementType) Valid() bool {
	switch t {
	case MovementEntry, MovementExit, MovementTransfer, MovementAdjustIn, MovementAdjustOut:
		return true
	}
	return false
}

// IsAdjustment indica si el tipo es un ajuste de conciliación.
// Los ajustes solo los emite el cierre de un conteo físico, nunca el caller.
func (t MovementType) IsAdjustment() bool {
	return t == MovementAdjustIn || t == MovementAdjustOut
}

// StockMovement es un registro de auditoría inmutable: una vez persistido
// nunca se edita ni se borra. Es la única evidencia histórica de los lotes
// que fueron recolectados al quedar en cero.
type StockMovement struct {
	ID          string
	StockItemID string
	CompanyID   string
	Type        MovementType
	Quantity    decimal.Decimal // siempre positiva; el signo lo da Type
	Origin      string          // solo TRANSFER
	Destination string          // solo TRANSFER
	Reason      string          // texto libre opcional
	BatchIDs    []string        // lotes tocados por la operación
	CreatedAt   time.Time
	CreatedBy   string // UserID
}

// NewStockMovement construye un movimiento con ID y timestamp asignados por el servidor.
func NewStockMovement(itemID, companyID string, t MovementType, qty decimal.Decimal, createdBy string, now time.Time) *StockMovement {
	return &StockMovement{
		ID:          uuid.New().String(),
		StockItemID: itemID,
		CompanyID:   companyID,
		Type:        t,
		Quantity:    qty,
		CreatedAt:   now,
		CreatedBy:   createdBy,
	}
}
