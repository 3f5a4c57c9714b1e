package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockItemRequest body para POST /api/stock-items.
// El lote inicial es opcional: sin lote se sintetiza uno sin vencimiento real.
type CreateStockItemRequest struct {
	Name            string          `json:"name"`
	SKU             string          `json:"sku"`
	Location        string          `json:"location"`
	Threshold       decimal.Decimal `json:"threshold"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
	LotNumber       string          `json:"lot_number,omitempty"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
}

// RegisterMovementRequest body para POST /api/inventory/movements.
// lot_number/expiry_date solo aplican a ENTRY; destination solo a TRANSFER.
type RegisterMovementRequest struct {
	StockItemID string          `json:"stock_item_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	LotNumber   string          `json:"lot_number,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	Destination string          `json:"destination,omitempty"`
	Reason      string          `json:"reason,omitempty"`
}

// StockBatchDTO un lote dentro de la respuesta de un ítem.
type StockBatchDTO struct {
	ID         string          `json:"id"`
	LotNumber  string          `json:"lot_number"`
	ExpiryDate time.Time       `json:"expiry_date"`
	Quantity   decimal.Decimal `json:"quantity"`
	EntryDate  time.Time       `json:"entry_date"`
}

// StockItemResponse representación de un ítem con su cantidad derivada.
type StockItemResponse struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Location  string          `json:"location"`
	Threshold decimal.Decimal `json:"threshold"`
	Quantity  decimal.Decimal `json:"quantity"` // suma de lotes, nunca almacenada aparte
	Batches   []StockBatchDTO `json:"batches"`
	UpdatedAt time.Time       `json:"updated_at"`
	CreatedAt time.Time       `json:"created_at"`
}

// StockMovementResponse un registro del log de auditoría.
type StockMovementResponse struct {
	ID          string          `json:"id"`
	StockItemID string          `json:"stock_item_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Origin      string          `json:"origin,omitempty"`
	Destination string          `json:"destination,omitempty"`
	Reason      string          `json:"reason,omitempty"`
	BatchIDs    []string        `json:"batch_ids"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   string          `json:"created_by"`
}

// RequisitionResponse una señal de reposición emitida hacia compras.
type RequisitionResponse struct {
	ID                string          `json:"id"`
	StockItemID       string          `json:"stock_item_id"`
	Description       string          `json:"description"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	Justification     string          `json:"justification"`
	Status            string          `json:"status"`
	AutoGenerated     bool            `json:"auto_generated"`
	CreatedAt         time.Time       `json:"created_at"`
}
