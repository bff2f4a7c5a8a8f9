package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nandwere/stock-pos/internal/application/usecase"
	"github.com/nandwere/stock-pos/internal/domain"
)

// ReportHandler reportes de ventas, inventario y reposición.
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Get godoc
// @Summary      Reporte por tipo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        type       query  string  true   "sales | inventory | reorder"
// @Param        startDate  query  string  false  "YYYY-MM-DD (sales)"
// @Param        endDate    query  string  false  "YYYY-MM-DD (sales)"
// @Success      200  {object}  dto.SalesReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports [get]
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	ctx := c.UserContext()
	switch c.Query("type") {
	case "sales":
		start, end, err := dateRange(c, false)
		if err != nil {
			return mapError(c, err)
		}
		out, err := h.uc.Sales(ctx, start, end)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(out)
	case "inventory":
		out, err := h.uc.Inventory(ctx)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(out)
	case "reorder":
		out, err := h.uc.Reorder(ctx)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(out)
	default:
		return mapError(c, domain.Invalid("type", "tipo de reporte inválido: use sales, inventory o reorder"))
	}
}

// DailyPDF godoc
// @Summary      Cierre diario en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        date  query  string  false  "Día YYYY-MM-DD (hoy por defecto)"
// @Success      200  {file}  binary
// @Router       /api/reports/daily.pdf [get]
func (h *ReportHandler) DailyPDF(c *fiber.Ctx) error {
	day, err := queryDay(c)
	if err != nil {
		return mapError(c, err)
	}
	pdf, err := h.uc.DailyPDF(c.UserContext(), day)
	if err != nil {
		return mapError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="daily-`+day.Format("2006-01-02")+`.pdf"`)
	return c.Send(pdf)
}
