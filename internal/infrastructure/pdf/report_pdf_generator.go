// Package pdf genera los informes imprimibles con Maroto v2.
//
// Layout de la página A4 (ambos informes):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del informe       │  Fecha de generación    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: una fila por producto                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: totales                                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"
	"time"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorWarn    = &props.Color{Red: 200, Green: 120, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ analytics.PDFRenderer = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa analytics.PDFRenderer usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

func newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()
	return maroto.New(cfg)
}

func render(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// RenderStockReport informe de stock: código, producto, stock, umbral, valor y estado.
func (g *MarotoReportGenerator) RenderStockReport(data dto.StockReportDTO) ([]byte, error) {
	m := newDocument(data.Title)

	m.AddRows(headerRow(data.Title, data.GeneratedAt, fmt.Sprintf("%d productos", len(data.Lines))))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow([]column{
		{"Código", 2, align.Left},
		{"Producto", 4, align.Left},
		{"Stock", 1, align.Right},
		{"Umbral", 1, align.Right},
		{"Valor", 2, align.Right},
		{"Estado", 2, align.Center},
	}))
	for _, l := range data.Lines {
		m.AddRows(row.New(6).Add(
			cell(l.Code, 2, align.Left, nil),
			cell(l.Name, 4, align.Left, nil),
			cell(fmt.Sprint(l.Stock), 1, align.Right, nil),
			cell(fmt.Sprint(l.Threshold), 1, align.Right, nil),
			cell("$"+formatMoney(l.Value), 2, align.Right, nil),
			cell(statusLabel(l.Status), 2, align.Center, statusColor(l.Status)),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow([][2]string{
		{"Unidades en stock:", fmt.Sprint(data.TotalStock)},
		{"VALOR TOTAL:", "$" + formatMoney(data.TotalValue)},
	}))
	return render(m)
}

// RenderVerificationReport informe de verificación: teórico, contado y diferencia por producto.
func (g *MarotoReportGenerator) RenderVerificationReport(data dto.VerificationReportDTO) ([]byte, error) {
	m := newDocument(data.Title)

	subtitle := "Sin ajustes registrados"
	if data.Applied {
		subtitle = "Ajustes registrados en el ledger"
	}
	m.AddRows(headerRow(data.Title, data.GeneratedAt, subtitle))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow([]column{
		{"Código", 2, align.Left},
		{"Producto", 5, align.Left},
		{"Teórico", 2, align.Right},
		{"Contado", 1, align.Right},
		{"Diferencia", 2, align.Right},
	}))
	var gains, losses int64
	for _, l := range data.Lines {
		var c *props.Color
		switch {
		case l.Discrepancy > 0:
			gains += l.Discrepancy
		case l.Discrepancy < 0:
			losses -= l.Discrepancy
			c = colorAlert
		}
		m.AddRows(row.New(6).Add(
			cell(l.Code, 2, align.Left, nil),
			cell(l.Name, 5, align.Left, nil),
			cell(fmt.Sprint(l.Theoretical), 2, align.Right, nil),
			cell(fmt.Sprint(l.Counted), 1, align.Right, nil),
			cell(fmt.Sprintf("%+d", l.Discrepancy), 2, align.Right, c),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow([][2]string{
		{"Sobrantes:", fmt.Sprint(gains)},
		{"Faltantes:", fmt.Sprint(losses)},
	}))
	return render(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

type column struct {
	label string
	size  int
	align align.Type
}

// headerRow: título (izq) y fecha de generación (der).
func headerRow(title string, generatedAt time.Time, subtitle string) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(strings.ToUpper(title), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(subtitle, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 7, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla con fondo primario.
func tableHeaderRow(cols []column) core.Row {
	cs := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		cs = append(cs, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cs...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func cell(value string, size int, a align.Type, color *props.Color) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color,
	}))
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(pairs [][2]string) core.Row {
	labels := make([]core.Component, 0, len(pairs))
	values := make([]core.Component, 0, len(pairs))
	for i, p := range pairs {
		top := float64(i) * 6
		labels = append(labels, text.New(p[0], props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		}))
		values = append(values, text.New(p[1], props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Top: top, Color: colorPrimary,
		}))
	}
	return row.New(float64(6*len(pairs)+4)).Add(
		col.New(6),
		col.New(3).Add(labels...),
		col.New(3).Add(values...),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusLabel(status string) string {
	switch status {
	case "OUT_OF_STOCK":
		return "Agotado"
	case "BELOW_THRESHOLD":
		return "Bajo umbral"
	case "NORMAL":
		return "Normal"
	}
	return status
}

func statusColor(status string) *props.Color {
	switch status {
	case "OUT_OF_STOCK":
		return colorAlert
	case "BELOW_THRESHOLD":
		return colorWarn
	}
	return nil
}

// formatMoney inserta puntos de miles y usa coma decimal.
// Ej: 25000 → "25.000,00", -1234.5 → "-1.234,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	if d.IsNegative() {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf) + "," + frac
}
