package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nandwere/stock-pos/internal/application/dto"
	"github.com/nandwere/stock-pos/internal/application/usecase"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
)

// HeaderIdempotencyKey reintentos con la misma clave devuelven la venta original.
const HeaderIdempotencyKey = "Idempotency-Key"

// SaleHandler registro y consulta de ventas.
type SaleHandler struct {
	uc *usecase.SaleUseCase
}

func NewSaleHandler(uc *usecase.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Todas las líneas se validan contra el stock bloqueado antes de descontar; si una falla no se aplica ninguna.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                 false  "Clave de idempotencia"
// @Param        body             body    dto.CreateSaleRequest  true   "Venta"
// @Success      201  {object}  dto.SaleResponse
// @Success      200  {object}  dto.SaleResponse  "Repetición con la misma clave"
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := bindBody(c, &in); err != nil {
		return mapError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), c.Get(HeaderIdempotencyKey), in)
	if err != nil {
		return mapError(c, err)
	}
	status := fiber.StatusCreated
	if out.Replayed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        q              query  string  false  "Número de venta o cliente"
// @Param        paymentMethod  query  string  false  "CASH | CARD | MOBILE_MONEY"
// @Param        startDate      query  string  false  "YYYY-MM-DD"
// @Param        endDate        query  string  false  "YYYY-MM-DD"
// @Param        take           query  int     false  "Límite"  default(50)
// @Param        skip           query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	q := dto.SaleListQuery{
		Query:         c.Query("q"),
		PaymentMethod: c.Query("paymentMethod"),
		Take:          c.QueryInt("take", 50),
		Skip:          c.QueryInt("skip", 0),
	}
	if err := validateStruct(q); err != nil {
		return mapError(c, err)
	}
	start, end, err := dateRange(c, false)
	if err != nil {
		return mapError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), repository.SaleFilter{
		Query:         q.Query,
		PaymentMethod: entity.PaymentMethod(q.PaymentMethod),
		Start:         start,
		End:           end,
		Limit:         q.Take,
		Offset:        q.Skip,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta con sus items
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Ticket de la venta en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	pdf, saleNumber, err := h.uc.Receipt(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+saleNumber+`.pdf"`)
	return c.Send(pdf)
}

// Delete godoc
// @Summary      Eliminar venta
// @Description  Elimina el registro; el stock vendido no se repone.
// @Tags         sales
// @Security     Bearer
// @Param        id   path  string  true  "ID de la venta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
