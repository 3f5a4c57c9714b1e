package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Activos-api/internal/application/dto"
	"github.com/jhoicas/Activos-api/internal/application/inventory"
	"github.com/jhoicas/Activos-api/internal/domain/entity"
)

// CountHandler expone el ciclo de vida de los conteos físicos: apertura
// (congela el inventario del tenant) y conciliación (emite ajustes y libera).
type CountHandler struct {
	uc *inventory.CountUseCase
}

// NewCountHandler construye el handler de conteos.
func NewCountHandler(uc *inventory.CountUseCase) *CountHandler {
	return &CountHandler{uc: uc}
}

// StartCount abre un conteo físico. Desde este momento todo movimiento del
// tenant responde 423 hasta conciliar.
// @Summary      Iniciar conteo físico
// @Tags         counts
// @Accept       json
// @Produce      json
// @Param        body body dto.StartCountRequest true "Líneas contadas"
// @Success      201 {object} dto.StockCountResponse
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/inventory/counts [post]
func (h *CountHandler) StartCount(c *fiber.Ctx) error {
	var req dto.StartCountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "JSON inválido"})
	}
	lines := make([]inventory.CountLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, inventory.CountLineInput{
			StockItemID:     l.StockItemID,
			CountedQuantity: l.CountedQuantity,
		})
	}
	count, err := h.uc.StartCount(c.Context(), GetCompanyID(c), GetUserID(c), lines)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCountResponse(count))
}

// Reconcile concilia un conteo: emite los ajustes por varianza y lo marca
// FINALIZED. Un segundo intento responde 409.
// @Summary      Conciliar conteo físico
// @Tags         counts
// @Produce      json
// @Param        id path string true "ID del conteo"
// @Success      200 {object} dto.StockCountResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/inventory/counts/{id}/reconcile [post]
func (h *CountHandler) Reconcile(c *fiber.Ctx) error {
	count, err := h.uc.Reconcile(c.Context(), GetCompanyID(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCountResponse(count))
}

// GetCount devuelve un conteo con sus líneas.
// @Summary      Obtener conteo físico
// @Tags         counts
// @Produce      json
// @Param        id path string true "ID del conteo"
// @Success      200 {object} dto.StockCountResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/inventory/counts/{id} [get]
func (h *CountHandler) GetCount(c *fiber.Ctx) error {
	count, err := h.uc.GetCount(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCountResponse(count))
}

// ListCounts lista los conteos de la empresa, más recientes primero.
// @Summary      Listar conteos físicos
// @Tags         counts
// @Produce      json
// @Param        limit  query int false "Límite"
// @Param        offset query int false "Desplazamiento"
// @Success      200 {array} dto.StockCountResponse
// @Security     BearerAuth
// @Router       /api/inventory/counts [get]
func (h *CountHandler) ListCounts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	counts, err := h.uc.ListCounts(c.Context(), GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockCountResponse, 0, len(counts))
	for _, cnt := range counts {
		out = append(out, toCountResponse(cnt))
	}
	return c.JSON(out)
}

func toCountResponse(count *entity.StockCount) dto.StockCountResponse {
	lines := make([]dto.CountLineResponse, 0, len(count.Lines))
	for _, l := range count.Lines {
		lines = append(lines, dto.CountLineResponse{
			StockItemID:     l.StockItemID,
			ItemName:        l.ItemName,
			SKU:             l.SKU,
			SystemQuantity:  l.SystemQuantity,
			CountedQuantity: l.CountedQuantity,
			Variance:        l.Variance,
		})
	}
	return dto.StockCountResponse{
		ID:          count.ID,
		CompanyID:   count.CompanyID,
		CountDate:   count.CountDate,
		CountedBy:   count.CountedBy,
		Status:      count.Status,
		Lines:       lines,
		FinalizedAt: count.FinalizedAt,
	}
}
