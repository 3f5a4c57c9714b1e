package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una requisición de compra. El motor de inventario solo crea
// requisiciones PENDING; aprobación y ciclo RFQ→orden viven en compras.
const (
	RequisitionStatusPending  = "PENDING"
	RequisitionStatusApproved = "APPROVED"
	RequisitionStatusRejected = "REJECTED"
)

// PurchaseRequisition es la señal de reposición que el motor de inventario
// emite hacia compras cuando un ítem cae a/bajo su umbral de reorden.
// Las generadas automáticamente llevan AutoGenerated=true; mientras exista
// una pendiente para el ítem no se emite otra (idempotencia por episodio).
type PurchaseRequisition struct {
	ID                string
	CompanyID         string
	StockItemID       string
	Description       string
	RequestedQuantity decimal.Decimal
	Justification     string
	Status            string
	AutoGenerated     bool
	CreatedAt         time.Time
	CreatedBy         string
}
