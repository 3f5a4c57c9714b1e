package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartCountLineRequest una línea contada físicamente.
type StartCountLineRequest struct {
	StockItemID     string          `json:"stock_item_id"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
}

// StartCountRequest body para POST /api/inventory/counts.
type StartCountRequest struct {
	Lines []StartCountLineRequest `json:"lines"`
}

// CountLineResponse línea de conteo con la varianza calculada.
type CountLineResponse struct {
	StockItemID     string          `json:"stock_item_id"`
	ItemName        string          `json:"item_name"`
	SKU             string          `json:"sku"`
	SystemQuantity  decimal.Decimal `json:"system_quantity"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Variance        decimal.Decimal `json:"variance"`
}

// StockCountResponse representación de un conteo físico.
type StockCountResponse struct {
	ID          string              `json:"id"`
	CompanyID   string              `json:"company_id"`
	CountDate   time.Time           `json:"count_date"`
	CountedBy   string              `json:"counted_by"`
	Status      string              `json:"status"`
	Lines       []CountLineResponse `json:"lines"`
	FinalizedAt *time.Time          `json:"finalized_at,omitempty"`
}
