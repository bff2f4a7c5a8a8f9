package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nandwere/stock-pos/internal/application/dto"
	"github.com/nandwere/stock-pos/internal/application/usecase"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
)

// InventoryHandler ajustes manuales y conteos físicos (protegido).
type InventoryHandler struct {
	uc *usecase.StockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *usecase.StockUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// CreateAdjustment godoc
// @Summary      Registrar ajuste de stock
// @Description  ADJUSTMENT_REMOVE, DAMAGE, THEFT y EXPIRY descuentan; el resto suma.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "productId, type, quantity, reason"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) CreateAdjustment(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := bindBody(c, &in); err != nil {
		return mapError(c, err)
	}
	out, err := h.uc.CreateAdjustment(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAdjustments godoc
// @Summary      Historial de ajustes
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  query  string  false  "Producto"
// @Param        type       query  string  false  "Tipo de ajuste"
// @Param        startDate  query  string  false  "YYYY-MM-DD"
// @Param        endDate    query  string  false  "YYYY-MM-DD"
// @Param        page       query  int     false  "Página"  default(1)
// @Param        limit      query  int     false  "Límite"  default(50)
// @Success      200  {object}  dto.AdjustmentListResponse
// @Router       /api/inventory/adjustments [get]
func (h *InventoryHandler) ListAdjustments(c *fiber.Ctx) error {
	q := dto.AdjustmentListQuery{
		ProductID: c.Query("productId"),
		Type:      c.Query("type"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 50),
	}
	if err := validateStruct(q); err != nil {
		return mapError(c, err)
	}
	start, end, err := dateRange(c, false)
	if err != nil {
		return mapError(c, err)
	}
	out, err := h.uc.ListAdjustments(c.UserContext(), repository.AdjustmentFilter{
		ProductID: q.ProductID,
		Type:      entity.AdjustmentType(q.Type),
		Start:     start,
		End:       end,
	}, q.Page, q.Limit)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(out)
}

// SubmitCount godoc
// @Summary      Registrar conteo físico
// @Description  Fija el stock de cada producto al valor contado. El lote se aplica completo o no se aplica.
// @Tags         stock-count
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockCountRequest  true  "countDate, counts"
// @Success      201   {array}   dto.StockCountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-count [post]
func (h *InventoryHandler) SubmitCount(c *fiber.Ctx) error {
	var in dto.StockCountRequest
	if err := bindBody(c, &in); err != nil {
		return mapError(c, err)
	}
	out, err := h.uc.SubmitCount(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListCounts godoc
// @Summary      Historial de conteos
// @Tags         stock-count
// @Security     Bearer
// @Produce      json
// @Param        date       query  string  false  "Día YYYY-MM-DD"
// @Param        startDate  query  string  false  "YYYY-MM-DD"
// @Param        endDate    query  string  false  "YYYY-MM-DD"
// @Param        productId  query  string  false  "Producto"
// @Success      200  {array}  dto.StockCountResponse
// @Router       /api/stock-count [get]
func (h *InventoryHandler) ListCounts(c *fiber.Ctx) error {
	start, end, err := dateRange(c, true)
	if err != nil {
		return mapError(c, err)
	}
	if c.Query("date") != "" {
		day, err := queryDay(c)
		if err != nil {
			return mapError(c, err)
		}
		s, e := usecase.DayBounds(day)
		start, end = &s, &e
	}
	out, err := h.uc.ListCounts(c.UserContext(), c.Query("productId"), start, end)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(out)
}

// CountSheet godoc
// @Summary      Hoja de conteo del día
// @Tags         stock-count
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "Día YYYY-MM-DD (hoy por defecto)"
// @Success      200  {array}  dto.CountSheetEntry
// @Router       /api/stock-count/sheet [get]
func (h *InventoryHandler) CountSheet(c *fiber.Ctx) error {
	day, err := queryDay(c)
	if err != nil {
		return mapError(c, err)
	}
	out, err := h.uc.CountSheet(c.UserContext(), day)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(out)
}

// Variances godoc
// @Summary      Varianzas del conteo del día
// @Tags         stock-count
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "Día YYYY-MM-DD (hoy por defecto)"
// @Success      200  {array}  dto.VarianceResponse
// @Router       /api/stock-count/variance [get]
func (h *InventoryHandler) Variances(c *fiber.Ctx) error {
	day, err := queryDay(c)
	if err != nil {
		return mapError(c, err)
	}
	out, err := h.uc.Variances(c.UserContext(), day)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(out)
}

// UnrecordedSales godoc
// @Summary      Ventas no registradas estimadas
// @Tags         stock-count
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "Día YYYY-MM-DD (hoy por defecto)"
// @Success      200  {object}  dto.DailySummaryResponse
// @Router       /api/stock-count/unrecorded-sales [get]
func (h *InventoryHandler) UnrecordedSales(c *fiber.Ctx) error {
	day, err := queryDay(c)
	if err != nil {
		return mapError(c, err)
	}
	out, err := h.uc.UnrecordedSales(c.UserContext(), day)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(out)
}
