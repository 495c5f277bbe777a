// Package excel genera y lee planillas .xlsx con excelize: exportación de movimientos, stock y
// verificaciones, e importación de productos y movimientos.
package excel

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/importer"
)

const timestampLayout = "2006-01-02 15:04:05"

// Encabezados de la hoja de movimientos. Exportación e importación usan los mismos.
const (
	colDate         = "Fecha"
	colProductCode  = "Código producto"
	colProduct      = "Producto"
	colDirection    = "Dirección"
	colLabel        = "Etiqueta"
	colQuantity     = "Cantidad"
	colDepot        = "Depósito"
	colCounterparty = "Contraparte"
	colComment      = "Comentario"
)

var movementHeaders = []string{
	colDate, colProductCode, colProduct, colDirection, colLabel, colQuantity, colDepot, colCounterparty, colComment,
}

var (
	_ analytics.SpreadsheetExporter = (*Workbook)(nil)
	_ importer.SheetReader          = (*Workbook)(nil)
)

// Workbook implementa la exportación y la lectura de planillas.
type Workbook struct{}

// New construye el adaptador.
func New() *Workbook { return &Workbook{} }

// sheet escribe una hoja con encabezado en negrita y devuelve el archivo serializado.
func sheet(name string, headers []string, rows [][]any, widths map[string]float64) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1A4F8A"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(name, "A1", last, bold); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return nil, err
		}
	}
	for col, w := range widths {
		if err := f.SetColWidth(name, col, col, w); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(name, &excelize.Panes{Freeze: true, Split: false, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// headerIndex mapea cada encabezado (plegado) a su columna. Los alias permiten planillas en inglés.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[foldHeader(h)] = i
	}
	return idx
}

func foldHeader(h string) string {
	return cases.Fold().String(strings.TrimSpace(h))
}

// column devuelve el valor de la primera columna presente entre los nombres dados.
func column(row []string, idx map[string]int, names ...string) string {
	for _, n := range names {
		if i, ok := idx[foldHeader(n)]; ok {
			if i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
	}
	return ""
}

func hasColumn(idx map[string]int, names ...string) bool {
	for _, n := range names {
		if _, ok := idx[foldHeader(n)]; ok {
			return true
		}
	}
	return false
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
