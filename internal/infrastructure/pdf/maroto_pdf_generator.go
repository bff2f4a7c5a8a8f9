// Package pdf genera los documentos imprimibles del punto de venta con Maroto v2:
// el ticket de cada venta y el resumen de cierre diario.
//
// Layout del ticket (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Comercio            │  N° Venta + Fecha            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE / CAJERO / MEDIO DE PAGO                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto / Descuento / TOTAL / Vuelto  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/nandwere/stock-pos/internal/application/ports"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 22, Green: 101, Blue: 52}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var (
	_ ports.ReceiptPDFGenerator     = (*MarotoPDFGenerator)(nil)
	_ ports.DailyReportPDFGenerator = (*MarotoPDFGenerator)(nil)
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa los puertos de PDF usando Maroto v2.
type MarotoPDFGenerator struct {
	shopName string
	money    *money.Formatter
}

// NewMarotoPDFGenerator construye el generador con el nombre del comercio y su formato de moneda.
func NewMarotoPDFGenerator(shopName string, formatter *money.Formatter) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{shopName: shopName, money: formatter}
}

func (g *MarotoPDFGenerator) newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.shopName, true).
		Build()
	return maroto.New(cfg)
}

// GenerateReceiptPDF genera el ticket de la venta y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReceiptPDF(_ context.Context, sale *entity.Sale) ([]byte, error) {
	m := g.newDocument("Receipt " + sale.SaleNumber)

	m.AddRows(g.headerRow(sale.SaleNumber, sale.CreatedAt.Format("02/01/2006 15:04")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow("Qty", "Product", "Unit price", "Subtotal"))
	for _, it := range sale.Items {
		m.AddRows(tableRow(
			it.Quantity.String()+" "+it.Unit,
			it.ProductName,
			g.money.Format(it.UnitPrice),
			g.money.Format(it.Subtotal),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow([]totalLine{
		{"Subtotal:", g.money.Format(sale.Subtotal), false},
		{"Tax:", g.money.Format(sale.Tax), false},
		{"Discount:", g.money.Format(sale.Discount.Neg()), false},
		{"TOTAL:", g.money.Format(sale.Total), true},
		{"Paid:", g.money.Format(sale.AmountPaid), false},
		{"Change:", g.money.Format(sale.Change), false},
	}))
	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Thank you for shopping with us", props.Text{
			Style: fontstyle.Italic, Size: 8, Align: align.Center, Color: colorGray, Top: 2,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ticket: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateDailyReportPDF genera el resumen del día: ventas registradas, ventas
// estimadas no registradas y varianzas del conteo.
func (g *MarotoPDFGenerator) GenerateDailyReportPDF(_ context.Context, report *ports.DailyReport) ([]byte, error) {
	day := report.Date.Format("2006-01-02")
	m := g.newDocument("Daily summary " + day)

	m.AddRows(g.headerRow("DAILY SUMMARY", day))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	s := report.Summary
	m.AddRows(totalsRow([]totalLine{
		{"Recorded sales:", g.money.Format(s.RecordedSales), false},
		{"Recorded sales count:", fmt.Sprintf("%d", s.RecordedSalesCount), false},
		{"Cash:", g.money.Format(report.ByMethod[entity.PaymentCash]), false},
		{"Card:", g.money.Format(report.ByMethod[entity.PaymentCard]), false},
		{"Mobile money:", g.money.Format(report.ByMethod[entity.PaymentMobileMoney]), false},
		{"Unrecorded (estimated):", g.money.Format(s.UnrecordedRevenue), false},
		{"TOTAL ESTIMATED:", g.money.Format(s.TotalEstimatedRevenue), true},
	}))

	if len(report.Variances) > 0 {
		m.AddRows(line.NewRow(4))
		m.AddRows(tableHeaderRow("Variance", "Product", "Expected / Counted", "Est. revenue"))
		for _, v := range report.Variances {
			m.AddRows(varianceRow(v.Variance.String(), v.ProductName,
				v.ExpectedStock.String()+" / "+v.ActualStock.String(),
				g.money.Format(v.EstimatedRevenue), v.Variance.IsNegative()))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar resumen diario: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: comercio (izq) y referencia + fecha (der).
func (g *MarotoPDFGenerator) headerRow(reference, date string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.shopName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Currency: "+g.money.Code(), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(reference, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New(date, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// partiesRow: cliente, cajero y medio de pago.
func partiesRow(sale *entity.Sale) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("SALE DETAILS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Customer: %s   |   Cashier: %s   |   Payment: %s",
				nonEmpty(sale.CustomerName, "Walk-in"),
				nonEmpty(sale.UserName, "-"),
				string(sale.PaymentMethod),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow(labels ...string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h(labels[0], 2, align.Center),
		h(labels[1], 5, align.Left),
		h(labels[2], 2, align.Right),
		h(labels[3], 3, align.Right),
	)
}

func tableRow(qty, name, unitPrice, subtotal string) core.Row {
	return row.New(7).Add(
		col.New(2).Add(text.New(qty, props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(5).Add(text.New(name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(2).Add(text.New(unitPrice, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(3).Add(text.New(subtotal, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

// varianceRow: faltantes en rojo.
func varianceRow(variance, name, counts, revenue string, shortage bool) core.Row {
	style := props.Text{Size: 8, Align: align.Center, Top: 1}
	if shortage {
		style.Color = colorRed
	}
	return row.New(7).Add(
		col.New(2).Add(text.New(variance, style)),
		col.New(5).Add(text.New(name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(2).Add(text.New(counts, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(3).Add(text.New(revenue, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

type totalLine struct {
	label string
	value string
	grand bool
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(lines []totalLine) core.Row {
	labels := col.New(4)
	values := col.New(3)
	for i, l := range lines {
		style := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: float64(i * 5)}
		valueStyle := props.Text{Size: 9, Align: align.Right, Right: 1, Top: float64(i * 5)}
		if l.grand {
			style.Color = colorPrimary
			valueStyle.Style = fontstyle.Bold
			valueStyle.Color = colorPrimary
		}
		labels.Add(text.New(l.label, style))
		values.Add(text.New(l.value, valueStyle))
	}
	return row.New(float64(len(lines)*5+4)).Add(
		col.New(5), // espacio izquierdo
		labels,
		values,
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
