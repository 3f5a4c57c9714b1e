package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Activos-api/internal/application/dto"
	"github.com/jhoicas/Activos-api/internal/application/inventory"
	"github.com/jhoicas/Activos-api/internal/domain/entity"
)

// StockHandler expone los ítems de stock, los movimientos y las señales de
// reposición. El companyID siempre sale del token, nunca del body.
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler construye el handler de stock.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// CreateItem da de alta un ítem de stock.
// @Summary      Crear ítem de stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateStockItemRequest true "Ítem"
// @Success      201 {object} dto.StockItemResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      423 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/stock-items [post]
func (h *StockHandler) CreateItem(c *fiber.Ctx) error {
	var req dto.CreateStockItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "JSON inválido"})
	}
	in := inventory.CreateItemInput{
		CompanyID:       GetCompanyID(c),
		UserID:          GetUserID(c),
		Name:            req.Name,
		SKU:             req.SKU,
		Location:        req.Location,
		Threshold:       req.Threshold,
		InitialQuantity: req.InitialQuantity,
	}
	if req.LotNumber != "" && req.ExpiryDate != nil {
		in.InitialLot = &entity.LotInput{LotNumber: req.LotNumber, ExpiryDate: *req.ExpiryDate}
	}
	item, err := h.uc.CreateItem(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockItemResponse(item))
}

// ListItems lista los ítems activos de la empresa.
// @Summary      Listar ítems de stock
// @Tags         stock
// @Produce      json
// @Param        limit  query int false "Límite"
// @Param        offset query int false "Desplazamiento"
// @Success      200 {array} dto.StockItemResponse
// @Security     BearerAuth
// @Router       /api/stock-items [get]
func (h *StockHandler) ListItems(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	items, err := h.uc.ListItems(c.Context(), GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toStockItemResponse(it))
	}
	return c.JSON(out)
}

// GetItem devuelve un ítem con sus lotes.
// @Summary      Obtener ítem de stock
// @Tags         stock
// @Produce      json
// @Param        id path string true "ID del ítem"
// @Success      200 {object} dto.StockItemResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/stock-items/{id} [get]
func (h *StockHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.uc.GetItem(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockItemResponse(item))
}

// DeleteItem borra lógicamente un ítem. Falla con 409 si un conteo abierto
// lo referencia; el historial de movimientos sobrevive siempre.
// @Summary      Eliminar ítem de stock
// @Tags         stock
// @Param        id path string true "ID del ítem"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/stock-items/{id} [delete]
func (h *StockHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.uc.DeleteItem(c.Context(), GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterMovement registra un movimiento ENTRY, EXIT o TRANSFER.
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body body dto.RegisterMovementRequest true "Movimiento"
// @Success      201 {object} dto.StockMovementResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      423 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/inventory/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	var req dto.RegisterMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "JSON inválido"})
	}
	mov, err := h.uc.RegisterMovement(c.Context(), inventory.MovementInput{
		CompanyID:   GetCompanyID(c),
		UserID:      GetUserID(c),
		StockItemID: req.StockItemID,
		Type:        req.Type,
		Quantity:    req.Quantity,
		LotNumber:   req.LotNumber,
		ExpiryDate:  req.ExpiryDate,
		Destination: req.Destination,
		Reason:      req.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// ListMovements devuelve el historial de un ítem, más reciente primero.
// @Summary      Historial de movimientos de un ítem
// @Tags         inventory
// @Produce      json
// @Param        id     path  string true  "ID del ítem"
// @Param        limit  query int    false "Límite"
// @Param        offset query int    false "Desplazamiento"
// @Success      200 {array} dto.StockMovementResponse
// @Security     BearerAuth
// @Router       /api/stock-items/{id}/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	movs, err := h.uc.ListMovements(c.Context(), GetCompanyID(c), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// ListRequisitions lista las señales de reposición pendientes.
// @Summary      Requisiciones de compra pendientes
// @Tags         inventory
// @Produce      json
// @Param        limit  query int false "Límite"
// @Param        offset query int false "Desplazamiento"
// @Success      200 {array} dto.RequisitionResponse
// @Security     BearerAuth
// @Router       /api/inventory/requisitions [get]
func (h *StockHandler) ListRequisitions(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	reqs, err := h.uc.ListPendingRequisitions(c.Context(), GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.RequisitionResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, dto.RequisitionResponse{
			ID:                r.ID,
			StockItemID:       r.StockItemID,
			Description:       r.Description,
			RequestedQuantity: r.RequestedQuantity,
			Justification:     r.Justification,
			Status:            r.Status,
			AutoGenerated:     r.AutoGenerated,
			CreatedAt:         r.CreatedAt,
		})
	}
	return c.JSON(out)
}

func toStockItemResponse(item *entity.StockItem) dto.StockItemResponse {
	batches := make([]dto.StockBatchDTO, 0, len(item.Batches))
	for _, b := range item.Batches {
		batches = append(batches, dto.StockBatchDTO{
			ID:         b.ID,
			LotNumber:  b.LotNumber,
			ExpiryDate: b.ExpiryDate,
			Quantity:   b.Quantity,
			EntryDate:  b.EntryDate,
		})
	}
	return dto.StockItemResponse{
		ID:        item.ID,
		CompanyID: item.CompanyID,
		Name:      item.Name,
		SKU:       item.SKU,
		Location:  item.Location,
		Threshold: item.Threshold,
		Quantity:  item.TotalQuantity(),
		Batches:   batches,
		UpdatedAt: item.UpdatedAt,
		CreatedAt: item.CreatedAt,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:          m.ID,
		StockItemID: m.StockItemID,
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		Origin:      m.Origin,
		Destination: m.Destination,
		Reason:      m.Reason,
		BatchIDs:    m.BatchIDs,
		CreatedAt:   m.CreatedAt,
		CreatedBy:   m.CreatedBy,
	}
}
